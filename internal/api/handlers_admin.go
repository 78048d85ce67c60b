package api

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"plume/internal/metrics"
	"plume/internal/models"
)

func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if actorFrom(r).IsAdmin() {
		return true
	}
	writeError(w, http.StatusForbidden, "admin role required")
	return false
}

// CreateServiceRequest is the request body for POST /api/admin/services.
type CreateServiceRequest struct {
	Name                 string  `json:"name"`
	Category             string  `json:"category"`
	Duration             int     `json:"duration"` // minutes
	Price                float64 `json:"price"`
	RequiresConfirmation bool    `json:"requires_confirmation"`
}

// handleCreateService adds a service to the catalog.
// POST /api/admin/services
func (s *Server) handleCreateService(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	metrics.IncHTTP("service_create")
	if !s.requireAdmin(w, r) {
		return
	}

	var req CreateServiceRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Duration <= 0 {
		writeError(w, http.StatusBadRequest, "duration must be positive")
		return
	}

	sv := &models.Service{
		Name:                 req.Name,
		Category:             req.Category,
		Duration:             req.Duration,
		Price:                req.Price,
		RequiresConfirmation: req.RequiresConfirmation,
	}
	if err := s.store.CreateService(r.Context(), sv); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sv)
}

// handleDeleteService removes a service.
// DELETE /api/admin/services/:id
func (s *Server) handleDeleteService(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	metrics.IncHTTP("service_delete")
	if !s.requireAdmin(w, r) {
		return
	}
	if err := s.store.DeleteService(r.Context(), ps.ByName("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateTechnicianRequest is the request body for POST /api/admin/technicians.
type CreateTechnicianRequest struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	Phone       string   `json:"phone"`
	Email       string   `json:"email"`
	UserID      string   `json:"user_id"`
	Skills      []string `json:"skills"` // service ids
}

// handleCreateTechnician adds a staff member.
// POST /api/admin/technicians
func (s *Server) handleCreateTechnician(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	metrics.IncHTTP("technician_create")
	if !s.requireAdmin(w, r) {
		return
	}

	var req CreateTechnicianRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	t := &models.Technician{
		Name:        req.Name,
		DisplayName: req.DisplayName,
		Phone:       req.Phone,
		Email:       req.Email,
		UserID:      req.UserID,
		Skills:      req.Skills,
	}
	if err := s.store.CreateTechnician(r.Context(), t); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// handleDeleteTechnician removes a staff member.
// DELETE /api/admin/technicians/:id
func (s *Server) handleDeleteTechnician(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	metrics.IncHTTP("technician_delete")
	if !s.requireAdmin(w, r) {
		return
	}
	if err := s.store.DeleteTechnician(r.Context(), ps.ByName("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateSkillsRequest is the request body for PUT /api/admin/technicians/:id/skills.
type UpdateSkillsRequest struct {
	Skills []string `json:"skills"` // service ids, replaces the full set
}

// handleUpdateSkills replaces a technician's skill set.
// PUT /api/admin/technicians/:id/skills
func (s *Server) handleUpdateSkills(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	metrics.IncHTTP("technician_skills")
	if !s.requireAdmin(w, r) {
		return
	}

	var req UpdateSkillsRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.store.UpdateTechnicianSkills(r.Context(), ps.ByName("id"), req.Skills); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListLaserDates lists dates enabled for laser services.
// GET /api/admin/laser-dates
func (s *Server) handleListLaserDates(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	metrics.IncHTTP("laser_dates")
	if !s.requireAdmin(w, r) {
		return
	}
	snap, err := s.store.Snapshot(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"dates": snap.LaserDates})
}

// ToggleLaserDateRequest is the request body for POST /api/admin/laser-dates/toggle.
type ToggleLaserDateRequest struct {
	Date string `json:"date"` // Format: YYYY-MM-DD
}

// handleToggleLaserDate flips laser availability for one date.
// POST /api/admin/laser-dates/toggle
func (s *Server) handleToggleLaserDate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	metrics.IncHTTP("laser_toggle")
	if !s.requireAdmin(w, r) {
		return
	}

	var req ToggleLaserDateRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	enabled, err := s.store.ToggleLaserDate(r.Context(), req.Date)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"date": req.Date, "enabled": enabled})
}

// handleListNotifications lists notifications for the acting role.
// GET /api/notifications?tech_id=...
func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	metrics.IncHTTP("notifications")

	list, err := s.store.ListNotifications(r.Context(), actorFrom(r), r.URL.Query().Get("tech_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notifications": list})
}

// handleMarkNotificationRead marks one notification read.
// POST /api/notifications/:id/read
func (s *Server) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	metrics.IncHTTP("notification_read")

	if err := s.store.MarkNotificationRead(r.Context(), ps.ByName("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
