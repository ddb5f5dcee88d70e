// Package domain holds the error taxonomy shared by the lifecycle services.
package domain

import "errors"

var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// ErrAlreadyApplied is the conflict raised when a seeker applies twice to
	// the same job. Surfaced distinctly so callers can show "already applied"
	// instead of an opaque constraint failure.
	ErrAlreadyApplied = errors.New("already applied to this job")
)

// ValidationError represents a field-level validation failure. Nothing is
// persisted when one is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
