package models

import (
	"strings"
	"time"
)

// Appointment lifecycle statuses.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Role identifies the acting user type. Identity itself is resolved by an
// external provider; the backend only consumes the resolved role.
type Role string

const (
	RoleClient     Role = "client"
	RoleSpecialist Role = "specialist"
	RoleAdmin      Role = "admin"
)

// Actor is the resolved identity of the caller for a single request.
type Actor struct {
	UID   string
	Name  string
	Phone string
	Email string
	Role  Role
}

// IsAdmin reports whether the actor has the admin role.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// Service is a bookable catalog entry.
type Service struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"` // free-form; the laser family is special-cased
	Duration int     `json:"duration"` // minutes, positive
	Price    float64 `json:"price"`    // non-negative
	// RequiresConfirmation forces the resulting appointment into the
	// pending status until an admin approves it.
	RequiresConfirmation bool      `json:"requires_confirmation"`
	CreatedAt            time.Time `json:"created_at"`
}

// IsLaser reports whether the service belongs to the laser category family.
// Matching is case-insensitive and accepts category variants such as
// "Laser Hair Removal" (substring match, per the canonical app variant).
func (s Service) IsLaser() bool {
	return strings.Contains(strings.ToLower(s.Category), "laser")
}

// Technician is a staff member with a qualifying skill set.
type Technician struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`         // canonical lowercase matching key
	DisplayName string    `json:"display_name"` // presentation only
	Phone       string    `json:"phone"`
	Email       string    `json:"email"`
	UserID      string    `json:"user_id"` // external account link, may be empty
	Skills      []string  `json:"skills"`  // service ids
	CreatedAt   time.Time `json:"created_at"`
}

// HasSkill reports whether the technician can perform the given service.
func (t Technician) HasSkill(serviceID string) bool {
	for _, id := range t.Skills {
		if id == serviceID {
			return true
		}
	}
	return false
}

// QualifiedFor reports whether every requested service id is in the
// technician's skill set. An empty request qualifies everyone.
func (t Technician) QualifiedFor(serviceIDs []string) bool {
	for _, id := range serviceIDs {
		if !t.HasSkill(id) {
			return false
		}
	}
	return true
}

// Appointment is a committed booking.
type Appointment struct {
	ID           string    `json:"id"`
	ClientName   string    `json:"client_name"`
	ClientPhone  string    `json:"client_phone"`
	ClientEmail  string    `json:"client_email"`
	ClientUserID string    `json:"client_user_id,omitempty"`
	TechID       string    `json:"tech_id"`   // stable technician id (primary matching key)
	TechName     string    `json:"tech_name"` // retained for presentation
	SpecialistID string    `json:"specialist_id,omitempty"`
	Services     []string  `json:"services"`    // service names, ordered
	ServiceIDs   []string  `json:"service_ids"` // parallel to Services
	Date         string    `json:"date"`        // YYYY-MM-DD
	Time         string    `json:"time"`        // H:MM clock string
	StartMin     int       `json:"start_min"`   // minutes since midnight
	Duration     int       `json:"duration"`    // minutes, sum of services
	Price        float64   `json:"price"`       // sum of services
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsCancelled reports whether the appointment is excluded from scheduling.
func (a *Appointment) IsCancelled() bool { return a.Status == StatusCancelled }

// End returns the exclusive end of the appointment interval in minutes.
func (a *Appointment) End() int { return a.StartMin + a.Duration }

// Overlaps reports whether the half-open interval [start, start+duration)
// strictly overlaps this appointment. Touching intervals do not overlap.
func (a *Appointment) Overlaps(startMin, duration int) bool {
	return startMin < a.End() && startMin+duration > a.StartMin
}

// ClientKey returns the identity key used for client analytics:
// phone when present, else email.
func (a *Appointment) ClientKey() string {
	if a.ClientPhone != "" {
		return a.ClientPhone
	}
	return a.ClientEmail
}

// Snapshot is the current state of the store handed to the pure core
// functions. The core never mutates it and holds no state between calls.
type Snapshot struct {
	Services     []Service
	Technicians  []Technician
	Appointments []Appointment
	LaserDates   []string // YYYY-MM-DD, sorted
}

// ServiceByID returns the service with the given id, or nil.
func (s *Snapshot) ServiceByID(id string) *Service {
	for i := range s.Services {
		if s.Services[i].ID == id {
			return &s.Services[i]
		}
	}
	return nil
}

// TechnicianByID returns the technician with the given id, or nil.
func (s *Snapshot) TechnicianByID(id string) *Technician {
	for i := range s.Technicians {
		if s.Technicians[i].ID == id {
			return &s.Technicians[i]
		}
	}
	return nil
}

// LaserEnabled reports whether laser services are bookable on the date.
func (s *Snapshot) LaserEnabled(date string) bool {
	for _, d := range s.LaserDates {
		if d == date {
			return true
		}
	}
	return false
}

// DateFormat is the calendar date layout used across the system.
const DateFormat = "2006-01-02"
