package application

import (
	"errors"
	"fmt"
	"strings"

	"github.com/example/class-timetable/internal/persistence"
	"github.com/example/class-timetable/internal/timetable"
)

var (
	// ErrNotFound is returned when the requested session does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrSchedulerRunning is returned when Start is called on a running reminder scheduler.
	ErrSchedulerRunning = errors.New("application: reminder scheduler already running")
)

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

// merge copies entries from a field map into the receiver.
func (v *ValidationError) merge(fields map[string]string) {
	for field, msg := range fields {
		v.add(field, msg)
	}
}

// ConflictError reports that a candidate session overlaps existing sessions
// on the same day. The store is left unchanged.
type ConflictError struct {
	ConflictingIDs []string
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("session overlaps %s", strings.Join(e.ConflictingIDs, ", "))
}

// InvalidIntervalError reports a session whose start is not before its end.
type InvalidIntervalError struct {
	Start timetable.TimeOfDay
	End   timetable.TimeOfDay
}

// Error implements the error interface.
func (e *InvalidIntervalError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("start %s must be before end %s", e.Start, e.End)
}

func mapRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
