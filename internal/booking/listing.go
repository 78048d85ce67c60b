package booking

import (
	"sort"

	"plume/internal/models"
)

// ClientAppointments groups a client's bookings for the profile view.
type ClientAppointments struct {
	Upcoming []models.Appointment `json:"upcoming"`
	Pending  []models.Appointment `json:"pending"`
	Past     []models.Appointment `json:"past"`
}

// ForClient splits the actor's appointments into upcoming, pending and
// past. Pending requests are listed regardless of date; everything else
// splits on today. Cancelled bookings land in past.
func ForClient(appts []models.Appointment, actor models.Actor, today string) ClientAppointments {
	var out ClientAppointments
	for _, a := range appts {
		if !ownedBy(&a, actor) {
			continue
		}
		switch {
		case a.Status == models.StatusPending:
			out.Pending = append(out.Pending, a)
		case a.Status == models.StatusConfirmed && a.Date >= today:
			out.Upcoming = append(out.Upcoming, a)
		default:
			out.Past = append(out.Past, a)
		}
	}

	byStartAsc := func(list []models.Appointment) func(i, j int) bool {
		return func(i, j int) bool {
			if list[i].Date != list[j].Date {
				return list[i].Date < list[j].Date
			}
			return list[i].StartMin < list[j].StartMin
		}
	}
	sort.Slice(out.Upcoming, byStartAsc(out.Upcoming))
	sort.Slice(out.Pending, byStartAsc(out.Pending))
	sort.Slice(out.Past, func(i, j int) bool {
		if out.Past[i].Date != out.Past[j].Date {
			return out.Past[i].Date > out.Past[j].Date
		}
		return out.Past[i].StartMin > out.Past[j].StartMin
	})
	return out
}

// ForTechnician returns the technician's non-cancelled appointments on a
// date, ordered by start time. This is the specialist day schedule.
func ForTechnician(appts []models.Appointment, techID, date string) []models.Appointment {
	var out []models.Appointment
	for _, a := range appts {
		if a.TechID != techID || a.Date != date || a.IsCancelled() {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartMin < out[j].StartMin
	})
	return out
}
