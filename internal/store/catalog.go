package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"plume/internal/events"
	"plume/internal/models"
)

// CreateService adds a service to the catalog.
func (s *Store) CreateService(ctx context.Context, sv *models.Service) error {
	if sv.ID == "" {
		sv.ID = uuid.NewString()
	}
	if sv.CreatedAt.IsZero() {
		sv.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO services (id, name, category, duration, price, requires_confirmation, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sv.ID, sv.Name, sv.Category, sv.Duration, sv.Price, sv.RequiresConfirmation, sv.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert service: %w", err)
	}
	s.publish(events.TopicServices, "created", sv.ID)
	return nil
}

// DeleteService removes a service. Existing appointments keep their
// recorded service names and prices.
func (s *Store) DeleteService(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM services WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &models.NotFoundError{Kind: "service", ID: id}
	}
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM technician_skills WHERE service_id = ?", id); err != nil {
		return fmt.Errorf("delete service skills: %w", err)
	}
	s.publish(events.TopicServices, "deleted", id)
	return nil
}

// CreateTechnician adds a staff member, including their skills.
func (s *Store) CreateTechnician(ctx context.Context, t *models.Technician) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO technicians (id, name, display_name, phone, email, user_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.DisplayName, t.Phone, t.Email, t.UserID, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert technician: %w", err)
	}
	for _, serviceID := range t.Skills {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO technician_skills (tech_id, service_id) VALUES (?, ?)",
			t.ID, serviceID); err != nil {
			return fmt.Errorf("insert skill: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit technician: %w", err)
	}

	s.publish(events.TopicTechnicians, "created", t.ID)
	return nil
}

// DeleteTechnician removes a staff member. Their past appointments remain
// as records with the denormalized technician name.
func (s *Store) DeleteTechnician(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM technicians WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete technician: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &models.NotFoundError{Kind: "technician", ID: id}
	}
	s.publish(events.TopicTechnicians, "deleted", id)
	return nil
}

// UpdateTechnicianSkills replaces the technician's skill set.
func (s *Store) UpdateTechnicianSkills(ctx context.Context, techID string, serviceIDs []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM technicians WHERE id = ?", techID).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		return &models.NotFoundError{Kind: "technician", ID: techID}
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM technician_skills WHERE tech_id = ?", techID); err != nil {
		return fmt.Errorf("clear skills: %w", err)
	}
	for _, serviceID := range serviceIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO technician_skills (tech_id, service_id) VALUES (?, ?)",
			techID, serviceID); err != nil {
			return fmt.Errorf("insert skill: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit skills: %w", err)
	}

	s.publish(events.TopicTechnicians, "updated", techID)
	return nil
}

// ToggleLaserDate enables the date for laser services if it is disabled,
// and disables it otherwise. It reports whether the date is now enabled.
func (s *Store) ToggleLaserDate(ctx context.Context, date string) (bool, error) {
	if _, err := time.Parse(models.DateFormat, date); err != nil {
		return false, &models.ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"}
	}

	res, err := s.db.ExecContext(ctx, "DELETE FROM laser_dates WHERE date = ?", date)
	if err != nil {
		return false, fmt.Errorf("toggle laser date: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	enabled := false
	if n == 0 {
		if _, err := s.db.ExecContext(ctx,
			"INSERT INTO laser_dates (date) VALUES (?)", date); err != nil {
			return false, fmt.Errorf("toggle laser date: %w", err)
		}
		enabled = true
	}
	s.publish(events.TopicLaserDates, "toggled", date)
	return enabled, nil
}
