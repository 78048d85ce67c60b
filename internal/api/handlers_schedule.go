package api

import (
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"plume/internal/eligibility"
	"plume/internal/metrics"
	"plume/internal/models"
	"plume/internal/schedule"
)

func serviceIDsParam(r *http.Request) []string {
	raw := r.URL.Query().Get("service_ids")
	if raw == "" {
		return nil
	}
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// handleListServices returns the services the actor may book on the given
// date. Laser services stay hidden from non-admins unless the date is
// laser-enabled.
// GET /api/services?date=YYYY-MM-DD
func (s *Server) handleListServices(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	metrics.IncHTTP("services")

	snap, err := s.store.Snapshot(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("snapshot failed")
		writeDomainError(w, err)
		return
	}
	visible := eligibility.Services(snap.Services, r.URL.Query().Get("date"), snap.LaserDates, actorFrom(r))
	writeJSON(w, http.StatusOK, map[string]any{"services": visible})
}

// handleListTechnicians returns technicians qualified for the selected
// services, narrowed to the actor where the role demands it.
// GET /api/technicians?service_ids=a,b
func (s *Server) handleListTechnicians(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	metrics.IncHTTP("technicians")

	snap, err := s.store.Snapshot(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("snapshot failed")
		writeDomainError(w, err)
		return
	}
	eligible := eligibility.Technicians(serviceIDsParam(r), snap.Technicians, actorFrom(r))
	writeJSON(w, http.StatusOK, map[string]any{"technicians": eligible})
}

// SlotsResponse is the response for GET /api/slots.
type SlotsResponse struct {
	TechID string          `json:"tech_id"`
	Date   string          `json:"date"`
	Reason schedule.Reason `json:"reason"`
	Slots  []schedule.Slot `json:"slots"`
}

// handleSlots computes the bookable start times for a technician, date and
// service selection.
// GET /api/slots?tech_id=...&date=YYYY-MM-DD&service_ids=a,b
func (s *Server) handleSlots(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	metrics.IncHTTP("slots")

	techID := r.URL.Query().Get("tech_id")
	date := r.URL.Query().Get("date")
	serviceIDs := serviceIDsParam(r)
	if techID == "" || date == "" {
		writeError(w, http.StatusBadRequest, "tech_id and date are required")
		return
	}
	if len(serviceIDs) == 0 {
		// No services selected means nothing to schedule; not an error.
		writeJSON(w, http.StatusOK, SlotsResponse{TechID: techID, Date: date, Reason: schedule.ReasonOpen})
		return
	}

	snap, err := s.store.Snapshot(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("snapshot failed")
		writeDomainError(w, err)
		return
	}

	var total int
	for _, id := range serviceIDs {
		sv := snap.ServiceByID(id)
		if sv == nil {
			writeDomainError(w, &models.NotFoundError{Kind: "service", ID: id})
			return
		}
		total += sv.Duration
	}

	day, err := s.gen.Generate(techID, date, total, actorFrom(r).Role, snap.Appointments)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	metrics.IncSlotDay(string(day.Reason))
	writeJSON(w, http.StatusOK, SlotsResponse{
		TechID: techID,
		Date:   date,
		Reason: day.Reason,
		Slots:  day.Slots,
	})
}
