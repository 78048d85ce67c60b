package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"plume/internal/events"
	"plume/internal/models"
	"plume/internal/notify"
)

// Notify records the notification so the admin and specialist views can
// list it later. Implements notify.Sink.
func (s *Store) Notify(ctx context.Context, n notify.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notifications (id, type, title, message, for_admin, tech_id, read, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.Type, n.Title, n.Message, n.ForAdmin, n.TechID, n.Read, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	s.publish(events.TopicNotifications, "created", n.ID)
	return nil
}

// ListNotifications returns notifications visible to the actor, newest
// first. Admins see admin-addressed notifications; specialists see those
// addressed to their technician id.
func (s *Store) ListNotifications(ctx context.Context, actor models.Actor, techID string) ([]notify.Notification, error) {
	var (
		query string
		args  []any
	)
	switch {
	case actor.IsAdmin():
		query = `SELECT id, type, title, message, for_admin, tech_id, read, created_at
			FROM notifications WHERE for_admin = 1 ORDER BY created_at DESC`
	case techID != "":
		query = `SELECT id, type, title, message, for_admin, tech_id, read, created_at
			FROM notifications WHERE tech_id = ? ORDER BY created_at DESC`
		args = append(args, techID)
	default:
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []notify.Notification
	for rows.Next() {
		var n notify.Notification
		if err := rows.Scan(&n.ID, &n.Type, &n.Title, &n.Message,
			&n.ForAdmin, &n.TechID, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkNotificationRead marks a single notification as read.
func (s *Store) MarkNotificationRead(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE notifications SET read = 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &models.NotFoundError{Kind: "notification", ID: id}
	}
	return nil
}
