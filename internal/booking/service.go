// Package booking admits, confirms and cancels appointments. Admission
// re-validates everything server-side against a fresh snapshot: the chosen
// slot must be one the generator would emit right now, and the technician
// must be qualified for every selected service.
package booking

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"plume/internal/clock"
	"plume/internal/metrics"
	"plume/internal/models"
	"plume/internal/notify"
	"plume/internal/schedule"
)

// Store is the persistence surface the booking service needs.
type Store interface {
	Snapshot(ctx context.Context) (*models.Snapshot, error)
	CreateAppointment(ctx context.Context, a *models.Appointment) error
	GetAppointment(ctx context.Context, id string) (*models.Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, id, status string) error
}

// Notifier delivers booking notifications.
type Notifier interface {
	Dispatch(ctx context.Context, n notify.Notification) error
}

// Service wires admission and transitions to the store and notifier.
type Service struct {
	store    Store
	notifier Notifier
	gen      *schedule.Generator
	logger   zerolog.Logger
}

// NewService creates a booking service. notifier may be nil.
func NewService(store Store, notifier Notifier, gen *schedule.Generator, logger zerolog.Logger) *Service {
	if gen == nil {
		gen = schedule.NewGenerator(schedule.DefaultHours())
	}
	return &Service{
		store:    store,
		notifier: notifier,
		gen:      gen,
		logger:   logger.With().Str("component", "booking").Logger(),
	}
}

// SubmitRequest is a client's booking attempt.
type SubmitRequest struct {
	Actor      models.Actor
	TechID     string
	Date       string
	Time       string
	ServiceIDs []string
}

// Submit validates the request and commits a new appointment. Checks run
// in a fixed order and the first failure wins; a failed submission leaves
// no trace in the store, so the caller's selection stays intact for a
// corrected resubmit.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*models.Appointment, error) {
	if req.Actor.Name == "" && req.Actor.UID == "" {
		return nil, &models.ValidationError{Field: "client", Reason: "client identity required"}
	}

	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	tech := snap.TechnicianByID(req.TechID)
	if tech == nil {
		return nil, &models.NotFoundError{Kind: "technician", ID: req.TechID}
	}

	var (
		services []models.Service
		duration int
		price    float64
	)
	for _, id := range req.ServiceIDs {
		sv := snap.ServiceByID(id)
		if sv == nil {
			return nil, &models.NotFoundError{Kind: "service", ID: id}
		}
		services = append(services, *sv)
		duration += sv.Duration
		price += sv.Price
	}

	startMin, err := clock.TimeToMinutes(req.Time)
	if err != nil {
		return nil, &models.ValidationError{Field: "time", Reason: err.Error()}
	}

	// The chosen slot must be one the generator emits for the current
	// snapshot, not an arbitrary client-supplied value.
	if duration > 0 {
		day, err := s.gen.Generate(req.TechID, req.Date, duration, req.Actor.Role, snap.Appointments)
		if err != nil {
			return nil, err
		}
		if !day.Contains(startMin) {
			metrics.IncBookingConflict()
			return nil, &models.ConflictError{TechID: req.TechID, Date: req.Date, Time: req.Time}
		}
	}

	for _, sv := range services {
		if !tech.HasSkill(sv.ID) {
			return nil, &models.ValidationError{
				Field:  "technician",
				Reason: fmt.Sprintf("%s is not qualified for %s", tech.Name, sv.Name),
			}
		}
	}

	if len(services) == 0 {
		return nil, &models.ValidationError{Field: "services", Reason: "select at least one service"}
	}

	status := models.StatusConfirmed
	for _, sv := range services {
		if sv.RequiresConfirmation {
			status = models.StatusPending
			break
		}
	}

	appt := &models.Appointment{
		ClientName:   req.Actor.Name,
		ClientPhone:  req.Actor.Phone,
		ClientEmail:  req.Actor.Email,
		ClientUserID: req.Actor.UID,
		TechID:       tech.ID,
		TechName:     tech.Name,
		SpecialistID: tech.UserID,
		Date:         req.Date,
		Time:         req.Time,
		StartMin:     startMin,
		Duration:     duration,
		Price:        price,
		Status:       status,
	}
	for _, sv := range services {
		appt.ServiceIDs = append(appt.ServiceIDs, sv.ID)
		appt.Services = append(appt.Services, sv.Name)
	}

	if err := s.store.CreateAppointment(ctx, appt); err != nil {
		if models.IsConflict(err) {
			metrics.IncBookingConflict()
		}
		return nil, err
	}

	metrics.IncBookingCreated(status)
	s.logger.Info().
		Str("appointment_id", appt.ID).
		Str("tech_id", appt.TechID).
		Str("date", appt.Date).
		Str("time", appt.Time).
		Str("status", appt.Status).
		Msg("appointment admitted")

	s.dispatch(ctx, notify.NewBooking(appt))
	return appt, nil
}

// Confirm approves a pending appointment. Admin only.
func (s *Service) Confirm(ctx context.Context, actor models.Actor, id string) (*models.Appointment, error) {
	if !actor.IsAdmin() {
		return nil, &models.ValidationError{Field: "actor", Reason: "admin role required"}
	}
	appt, err := s.store.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt.Status != models.StatusPending {
		return nil, &models.ValidationError{Field: "status", Reason: "only pending appointments can be confirmed"}
	}
	if err := s.store.UpdateAppointmentStatus(ctx, id, models.StatusConfirmed); err != nil {
		return nil, err
	}
	appt.Status = models.StatusConfirmed

	metrics.IncAdminDecision("confirmed")
	s.logger.Info().Str("appointment_id", id).Msg("appointment confirmed")
	s.dispatch(ctx, notify.BookingConfirmed(appt))
	return appt, nil
}

// Cancel cancels an appointment. Admins may cancel anything; a client may
// cancel only their own booking.
func (s *Service) Cancel(ctx context.Context, actor models.Actor, id string) (*models.Appointment, error) {
	appt, err := s.store.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !ownedBy(appt, actor) {
		return nil, &models.ValidationError{Field: "actor", Reason: "not allowed to cancel this appointment"}
	}
	if appt.IsCancelled() {
		return appt, nil
	}
	if err := s.store.UpdateAppointmentStatus(ctx, id, models.StatusCancelled); err != nil {
		return nil, err
	}
	appt.Status = models.StatusCancelled

	metrics.IncBookingCancelled()
	if actor.IsAdmin() {
		metrics.IncAdminDecision("cancelled")
	}
	s.logger.Info().Str("appointment_id", id).Msg("appointment cancelled")
	s.dispatch(ctx, notify.BookingCancelled(appt))
	return appt, nil
}

func (s *Service) dispatch(ctx context.Context, n notify.Notification) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Dispatch(ctx, n); err != nil {
		s.logger.Error().Err(err).Str("type", n.Type).Msg("notification dispatch failed")
	}
}

func ownedBy(a *models.Appointment, actor models.Actor) bool {
	if actor.UID != "" && a.ClientUserID == actor.UID {
		return true
	}
	key := a.ClientKey()
	if key == "" {
		return false
	}
	return key == actor.Phone || key == actor.Email
}
