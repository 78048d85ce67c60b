package store

import (
	"context"
	"fmt"

	"plume/internal/models"
)

// Snapshot reads the full current state handed to the scheduling core.
// The result is a detached copy: callers may hold it across recomputations
// without observing later writes.
func (s *Store) Snapshot(ctx context.Context) (*models.Snapshot, error) {
	if snap, ok := s.snapshotFromCache(ctx); ok {
		return snap, nil
	}

	services, err := s.listServices(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot services: %w", err)
	}
	techs, err := s.listTechnicians(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot technicians: %w", err)
	}
	appts, err := s.listAppointments(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot appointments: %w", err)
	}
	dates, err := s.listLaserDates(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot laser dates: %w", err)
	}

	snap := &models.Snapshot{
		Services:     services,
		Technicians:  techs,
		Appointments: appts,
		LaserDates:   dates,
	}
	s.storeSnapshotInCache(ctx, snap)
	return snap, nil
}

func (s *Store) listServices(ctx context.Context) ([]models.Service, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, category, duration, price, requires_confirmation, created_at
		FROM services ORDER BY category, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []models.Service
	for rows.Next() {
		var sv models.Service
		if err := rows.Scan(&sv.ID, &sv.Name, &sv.Category, &sv.Duration,
			&sv.Price, &sv.RequiresConfirmation, &sv.CreatedAt); err != nil {
			return nil, err
		}
		services = append(services, sv)
	}
	return services, rows.Err()
}

func (s *Store) listTechnicians(ctx context.Context) ([]models.Technician, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, display_name, phone, email, user_id, created_at
		FROM technicians ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var techs []models.Technician
	for rows.Next() {
		var t models.Technician
		if err := rows.Scan(&t.ID, &t.Name, &t.DisplayName, &t.Phone,
			&t.Email, &t.UserID, &t.CreatedAt); err != nil {
			return nil, err
		}
		techs = append(techs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range techs {
		skills, err := s.listSkills(ctx, techs[i].ID)
		if err != nil {
			return nil, err
		}
		techs[i].Skills = skills
	}
	return techs, nil
}

func (s *Store) listSkills(ctx context.Context, techID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT service_id FROM technician_skills WHERE tech_id = ? ORDER BY service_id", techID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var skills []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		skills = append(skills, id)
	}
	return skills, rows.Err()
}

func (s *Store) listAppointments(ctx context.Context) ([]models.Appointment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, client_name, client_phone, client_email, client_user_id,
		       tech_id, tech_name, specialist_id, date, time, start_min,
		       duration, price, status, created_at
		FROM appointments ORDER BY date, start_min`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var appts []models.Appointment
	for rows.Next() {
		var a models.Appointment
		if err := rows.Scan(&a.ID, &a.ClientName, &a.ClientPhone, &a.ClientEmail,
			&a.ClientUserID, &a.TechID, &a.TechName, &a.SpecialistID,
			&a.Date, &a.Time, &a.StartMin, &a.Duration, &a.Price,
			&a.Status, &a.CreatedAt); err != nil {
			return nil, err
		}
		appts = append(appts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range appts {
		if err := s.loadAppointmentServices(ctx, &appts[i]); err != nil {
			return nil, err
		}
	}
	return appts, nil
}

func (s *Store) loadAppointmentServices(ctx context.Context, a *models.Appointment) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT service_id, service_name FROM appointment_services
		WHERE appointment_id = ? ORDER BY position`, a.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return err
		}
		a.ServiceIDs = append(a.ServiceIDs, id)
		a.Services = append(a.Services, name)
	}
	return rows.Err()
}

func (s *Store) listLaserDates(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT date FROM laser_dates ORDER BY date")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}
