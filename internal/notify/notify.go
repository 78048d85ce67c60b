// Package notify models booking notifications. Delivery (sound, push,
// messaging apps) is an external concern; this package only records
// notifications and hands them to sinks at a bounded rate.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"plume/internal/models"
)

// Notification describes a booking event for the admin role and the
// assigned technician.
type Notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	ForAdmin  bool      `json:"for_admin"`
	TechID    string    `json:"tech_id,omitempty"` // assigned technician, if any
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// Sink accepts notifications for recording or hand-off.
type Sink interface {
	Notify(ctx context.Context, n Notification) error
}

// NewBooking builds the notification for a freshly admitted appointment,
// addressed to the admin role and the assigned technician.
func NewBooking(a *models.Appointment) Notification {
	title := "New booking confirmed"
	if a.Status == models.StatusPending {
		title = "New booking request"
	}
	return Notification{
		Type:     "new_booking",
		Title:    title,
		Message:  fmt.Sprintf("%s booked %s with %s", a.ClientName, strings.Join(a.Services, ", "), a.TechName),
		ForAdmin: true,
		TechID:   a.TechID,
	}
}

// BookingConfirmed builds the notification for an admin approval.
func BookingConfirmed(a *models.Appointment) Notification {
	return Notification{
		Type:     "booking_confirmed",
		Title:    "Booking confirmed",
		Message:  fmt.Sprintf("%s on %s at %s was confirmed", a.ClientName, a.Date, a.Time),
		ForAdmin: true,
		TechID:   a.TechID,
	}
}

// BookingCancelled builds the notification for a cancellation.
func BookingCancelled(a *models.Appointment) Notification {
	return Notification{
		Type:     "booking_cancelled",
		Title:    "Booking cancelled",
		Message:  fmt.Sprintf("%s on %s at %s was cancelled", a.ClientName, a.Date, a.Time),
		ForAdmin: true,
		TechID:   a.TechID,
	}
}
