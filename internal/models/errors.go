package models

import (
	"errors"
	"fmt"
)

// ValidationError is returned when a booking request is malformed:
// missing identity, empty service selection, unqualified technician.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

// ConflictError is returned when a chosen slot is no longer available.
// The caller decides whether to retry; the core never retries on its own.
type ConflictError struct {
	TechID string
	Date   string
	Time   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict: slot %s on %s is no longer available", e.Time, e.Date)
}

// NotFoundError is returned when a referenced technician or service id is
// absent from the current snapshot.
type NotFoundError struct {
	Kind string // "technician" or "service"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var ne *NotFoundError
	return errors.As(err, &ne)
}
