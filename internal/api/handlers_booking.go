package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"plume/internal/booking"
	"plume/internal/metrics"
	"plume/internal/models"
)

// CreateBookingRequest is the request body for POST /api/bookings.
type CreateBookingRequest struct {
	TechID     string   `json:"tech_id"`
	Date       string   `json:"date"` // Format: YYYY-MM-DD
	Time       string   `json:"time"` // Format: H:MM
	ServiceIDs []string `json:"service_ids"`
}

// handleCreateBooking admits a new appointment for the acting client.
// POST /api/bookings
func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	metrics.IncHTTP("booking_create")

	var req CreateBookingRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	appt, err := s.booking.Submit(r.Context(), booking.SubmitRequest{
		Actor:      actorFrom(r),
		TechID:     req.TechID,
		Date:       req.Date,
		Time:       req.Time,
		ServiceIDs: req.ServiceIDs,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, appt)
}

// handleListBookings lists appointments for the acting role: admins see
// everything, specialists their own day schedule, clients their grouped
// personal bookings.
// GET /api/bookings?date=YYYY-MM-DD&tech_id=...
func (s *Server) handleListBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	metrics.IncHTTP("booking_list")

	snap, err := s.store.Snapshot(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("snapshot failed")
		writeDomainError(w, err)
		return
	}

	actor := actorFrom(r)
	switch actor.Role {
	case models.RoleAdmin:
		writeJSON(w, http.StatusOK, map[string]any{"appointments": snap.Appointments})
	case models.RoleSpecialist:
		date := r.URL.Query().Get("date")
		if date == "" {
			date = time.Now().Format(models.DateFormat)
		}
		techID := r.URL.Query().Get("tech_id")
		if techID == "" {
			for _, t := range snap.Technicians {
				if t.UserID != "" && t.UserID == actor.UID {
					techID = t.ID
					break
				}
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"appointments": booking.ForTechnician(snap.Appointments, techID, date),
		})
	default:
		today := time.Now().Format(models.DateFormat)
		writeJSON(w, http.StatusOK, booking.ForClient(snap.Appointments, actor, today))
	}
}

// handleConfirmBooking approves a pending appointment.
// POST /api/bookings/:id/confirm
func (s *Server) handleConfirmBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	metrics.IncHTTP("booking_confirm")

	appt, err := s.booking.Confirm(r.Context(), actorFrom(r), ps.ByName("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

// handleCancelBooking cancels an appointment.
// POST /api/bookings/:id/cancel
func (s *Server) handleCancelBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	metrics.IncHTTP("booking_cancel")

	appt, err := s.booking.Cancel(r.Context(), actorFrom(r), ps.ByName("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, appt)
}
