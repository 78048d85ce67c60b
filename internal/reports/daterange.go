// Package reports aggregates committed appointments into financial,
// client, staff and popularity metrics over a date window.
package reports

import (
	"fmt"
	"time"

	"plume/internal/models"
)

// Kind selects how a report window is derived from a reference date.
type Kind string

const (
	KindDaily   Kind = "daily"
	KindWeekly  Kind = "weekly"
	KindMonthly Kind = "monthly"
	KindYearly  Kind = "yearly"
)

// Window is an inclusive [Start, End] date pair.
type Window struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Contains reports whether the date string falls inside the window.
// Lexicographic comparison is exact for YYYY-MM-DD.
func (w Window) Contains(date string) bool {
	return date >= w.Start && date <= w.End
}

// DateRange derives the report window for the given kind anchored at ref.
// Weekly windows run Monday through Sunday.
func DateRange(kind Kind, ref string) (Window, error) {
	t, err := time.Parse(models.DateFormat, ref)
	if err != nil {
		return Window{}, &models.ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"}
	}

	switch kind {
	case KindDaily:
		return Window{Start: ref, End: ref}, nil
	case KindWeekly:
		offset := (int(t.Weekday()) + 6) % 7 // days since Monday
		monday := t.AddDate(0, 0, -offset)
		sunday := monday.AddDate(0, 0, 6)
		return Window{
			Start: monday.Format(models.DateFormat),
			End:   sunday.Format(models.DateFormat),
		}, nil
	case KindMonthly:
		first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		last := first.AddDate(0, 1, -1)
		return Window{
			Start: first.Format(models.DateFormat),
			End:   last.Format(models.DateFormat),
		}, nil
	case KindYearly:
		return Window{
			Start: fmt.Sprintf("%04d-01-01", t.Year()),
			End:   fmt.Sprintf("%04d-12-31", t.Year()),
		}, nil
	default:
		return Window{}, &models.ValidationError{Field: "kind", Reason: "unknown report kind"}
	}
}
