// Package schedule computes bookable time slots and detects per-technician
// appointment conflicts.
package schedule

import "plume/internal/models"

// IsBusy reports whether the candidate interval [startMin, startMin+duration)
// overlaps any non-cancelled appointment of the technician on the date.
// Half-open semantics: an appointment ending exactly where the candidate
// starts is not a conflict. Linear scan; no index is built, the appointment
// set for a single salon day is small.
func IsBusy(techID, date string, startMin, duration int, appts []models.Appointment) bool {
	for i := range appts {
		a := &appts[i]
		if a.Date != date || a.TechID != techID || a.IsCancelled() {
			continue
		}
		if a.Overlaps(startMin, duration) {
			return true
		}
	}
	return false
}
