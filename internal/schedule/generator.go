package schedule

import (
	"time"

	"plume/internal/clock"
	"plume/internal/models"
)

// Default business hours: 10:00 to 19:00 in 15 minute steps, closed Sundays.
const (
	DefaultOpeningMin   = 10 * 60
	DefaultClosingMin   = 19 * 60
	DefaultSlotInterval = 15
)

// Hours is the business-hours configuration for slot generation.
type Hours struct {
	OpeningMin    int
	ClosingMin    int
	SlotInterval  int
	ClosedWeekday time.Weekday
}

// DefaultHours returns the stock salon schedule.
func DefaultHours() Hours {
	return Hours{
		OpeningMin:    DefaultOpeningMin,
		ClosingMin:    DefaultClosingMin,
		SlotInterval:  DefaultSlotInterval,
		ClosedWeekday: time.Sunday,
	}
}

// Reason explains why a day's slot list is empty. Callers must be able to
// tell "store closed" apart from "fully booked" for correct user messaging.
type Reason string

const (
	ReasonOpen   Reason = "open"
	ReasonClosed Reason = "closed"
	ReasonFull   Reason = "fully_booked"
)

// Slot is a candidate appointment start time.
type Slot struct {
	StartMin int    `json:"start_min"`
	Time     string `json:"time"` // rendered H:MM
}

// Day is the ordered slot availability for one technician and date.
type Day struct {
	Slots  []Slot `json:"slots"`
	Reason Reason `json:"reason"`
}

// Generator produces bookable start times for a technician, date and total
// requested duration, against a snapshot of existing appointments.
type Generator struct {
	hours Hours
}

// NewGenerator creates a slot generator with the given business hours.
// Zero-valued fields fall back to the defaults.
func NewGenerator(hours Hours) *Generator {
	def := DefaultHours()
	if hours.OpeningMin <= 0 {
		hours.OpeningMin = def.OpeningMin
	}
	if hours.ClosingMin <= 0 {
		hours.ClosingMin = def.ClosingMin
	}
	if hours.SlotInterval <= 0 {
		hours.SlotInterval = def.SlotInterval
	}
	return &Generator{hours: hours}
}

// Generate returns the ordered availability for one technician/date.
//
// Admin actors may place after-hours bookings: their limit extends to the
// full day instead of the closing time. A slot is emitted only when the
// entire duration fits before the limit and the technician is free.
// totalDuration must be positive; callers short-circuit when no services
// are selected.
func (g *Generator) Generate(techID, date string, totalDuration int, role models.Role, appts []models.Appointment) (Day, error) {
	if totalDuration <= 0 {
		return Day{}, &models.ValidationError{Field: "duration", Reason: "no services selected"}
	}

	day, err := time.Parse(models.DateFormat, date)
	if err != nil {
		return Day{}, &models.ValidationError{Field: "date", Reason: "expected YYYY-MM-DD"}
	}

	isAdmin := role == models.RoleAdmin
	if day.Weekday() == g.hours.ClosedWeekday && !isAdmin {
		return Day{Reason: ReasonClosed}, nil
	}

	limit := g.hours.ClosingMin
	if isAdmin {
		limit = clock.MinutesPerDay
	}

	var slots []Slot
	for start := g.hours.OpeningMin; start+totalDuration <= limit; start += g.hours.SlotInterval {
		if IsBusy(techID, date, start, totalDuration, appts) {
			continue
		}
		slots = append(slots, Slot{StartMin: start, Time: clock.MinutesToTime(start)})
	}

	if len(slots) == 0 {
		return Day{Reason: ReasonFull}, nil
	}
	return Day{Slots: slots, Reason: ReasonOpen}, nil
}

// Contains reports whether the day offers a slot at the given start minute.
// Used by booking admission to re-validate a client-chosen slot.
func (d Day) Contains(startMin int) bool {
	for _, s := range d.Slots {
		if s.StartMin == startMin {
			return true
		}
	}
	return false
}
