package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"plume/internal/events"
	"plume/internal/models"
)

// CreateAppointment persists a new appointment. Immediately before the
// insert it re-verifies, inside a transaction, that no non-cancelled
// appointment overlaps the requested interval and returns a ConflictError
// when the slot was lost to a concurrent booking. This is an optimistic
// check, not a reservation: two processes racing on separate stores can
// still double-book; the check only closes the window within one store.
func (s *Store) CreateAppointment(ctx context.Context, a *models.Appointment) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var overlapping int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM appointments
		WHERE tech_id = ? AND date = ? AND status != ?
		AND start_min < ? AND start_min + duration > ?`,
		a.TechID, a.Date, models.StatusCancelled,
		a.StartMin+a.Duration, a.StartMin,
	).Scan(&overlapping)
	if err != nil {
		return fmt.Errorf("conflict re-check: %w", err)
	}
	if overlapping > 0 {
		return &models.ConflictError{TechID: a.TechID, Date: a.Date, Time: a.Time}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO appointments (
			id, client_name, client_phone, client_email, client_user_id,
			tech_id, tech_name, specialist_id, date, time, start_min,
			duration, price, status, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.ClientName, a.ClientPhone, a.ClientEmail, a.ClientUserID,
		a.TechID, a.TechName, a.SpecialistID, a.Date, a.Time, a.StartMin,
		a.Duration, a.Price, a.Status, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert appointment: %w", err)
	}

	for i := range a.ServiceIDs {
		name := ""
		if i < len(a.Services) {
			name = a.Services[i]
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO appointment_services (appointment_id, position, service_id, service_name)
			VALUES (?, ?, ?, ?)`,
			a.ID, i, a.ServiceIDs[i], name,
		); err != nil {
			return fmt.Errorf("insert appointment service: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit appointment: %w", err)
	}

	s.publish(events.TopicAppointments, "created", a.ID)
	return nil
}

// GetAppointment returns one appointment by id.
func (s *Store) GetAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	var a models.Appointment
	err := s.db.QueryRowContext(ctx, `
		SELECT id, client_name, client_phone, client_email, client_user_id,
		       tech_id, tech_name, specialist_id, date, time, start_min,
		       duration, price, status, created_at
		FROM appointments WHERE id = ?`, id,
	).Scan(&a.ID, &a.ClientName, &a.ClientPhone, &a.ClientEmail,
		&a.ClientUserID, &a.TechID, &a.TechName, &a.SpecialistID,
		&a.Date, &a.Time, &a.StartMin, &a.Duration, &a.Price,
		&a.Status, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, &models.NotFoundError{Kind: "appointment", ID: id}
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadAppointmentServices(ctx, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// UpdateAppointmentStatus transitions an appointment to the given status.
func (s *Store) UpdateAppointmentStatus(ctx context.Context, id, status string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE appointments SET status = ? WHERE id = ?", status, id)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &models.NotFoundError{Kind: "appointment", ID: id}
	}

	action := "updated"
	if status == models.StatusCancelled {
		action = "cancelled"
	}
	s.publish(events.TopicAppointments, action, id)
	return nil
}
