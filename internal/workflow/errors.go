package workflow

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized is returned when the caller is not a session participant.
	ErrUnauthorized = errors.New("workflow: unauthorized")
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("workflow: not found")
)

// SessionStateError reports an operation attempted on a session in a status
// that does not permit it.
type SessionStateError struct {
	SessionID string
	Status    SessionStatus
}

// Error implements the error interface.
func (e *SessionStateError) Error() string {
	return fmt.Sprintf("workflow: session %s is %s; only candidates_ready sessions can be modified", e.SessionID, e.Status)
}

// DependencyError reports a failed call to a per-user data owner. The
// session operation that triggered it is never partially applied beyond
// what hold TTLs will clean up.
type DependencyError struct {
	UserID string
	Op     string
	Err    error
}

// Error implements the error interface.
func (e *DependencyError) Error() string {
	return fmt.Sprintf("workflow: %s failed for user %s: %v", e.Op, e.UserID, e.Err)
}

// Unwrap exposes the underlying owner error.
func (e *DependencyError) Unwrap() error {
	return e.Err
}

// ValidationError captures field level validation issues that callers can
// surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// Add records a field level validation error.
func (v *ValidationError) Add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

// ErrorKind maps sentinel and typed errors to a stable logging label.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	}

	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return "validation"
	}
	var sErr *SessionStateError
	if errors.As(err, &sErr) {
		return "session_state"
	}
	var dErr *DependencyError
	if errors.As(err, &dErr) {
		return "dependency"
	}

	return "unexpected"
}
