// Package clock converts between salon clock strings and minute offsets.
//
// Clock strings use the "H:MM" form: hours carry no leading zero, minutes
// are always two digits (9:05, 14:30). All other packages work in minutes
// since midnight and render through this package for display.
package clock

import (
	"fmt"
	"strconv"
	"strings"
)

// MinutesPerDay is the exclusive upper bound for a valid minute offset.
const MinutesPerDay = 24 * 60

// FormatError is returned for a malformed clock string.
type FormatError struct {
	Input string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed clock string %q", e.Input)
}

// TimeToMinutes parses a 24-hour "H:MM" string into minutes since midnight.
func TimeToMinutes(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, &FormatError{Input: s}
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, &FormatError{Input: s}
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, &FormatError{Input: s}
	}
	if h < 0 || h > 23 || m < 0 || m > 59 || len(parts[1]) != 2 {
		return 0, &FormatError{Input: s}
	}
	return h*60 + m, nil
}

// MinutesToTime renders minutes since midnight as "H:MM". It is the inverse
// of TimeToMinutes for every value in [0, MinutesPerDay).
func MinutesToTime(mins int) string {
	h := mins / 60
	m := mins % 60
	return fmt.Sprintf("%d:%02d", h, m)
}
