package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"plume/internal/clock"
	"plume/internal/models"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps typed core errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	var formatErr *clock.FormatError
	switch {
	case models.IsValidation(err), errors.As(err, &formatErr):
		writeError(w, http.StatusBadRequest, err.Error())
	case models.IsConflict(err):
		writeError(w, http.StatusConflict, err.Error())
	case models.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// actorFrom reads the acting identity from request headers. Unknown roles
// fall back to client, the least privileged.
func actorFrom(r *http.Request) models.Actor {
	role := models.Role(r.Header.Get("X-Actor-Role"))
	switch role {
	case models.RoleAdmin, models.RoleSpecialist, models.RoleClient:
	default:
		role = models.RoleClient
	}
	return models.Actor{
		UID:   r.Header.Get("X-Actor-UID"),
		Name:  r.Header.Get("X-Actor-Name"),
		Phone: r.Header.Get("X-Actor-Phone"),
		Email: r.Header.Get("X-Actor-Email"),
		Role:  role,
	}
}
