package application

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/class-timetable/internal/persistence"
	"github.com/example/class-timetable/internal/timetable"
)

func TestValidationError_Error(t *testing.T) {
	t.Parallel()

	var err *ValidationError
	assert.Equal(t, "", err.Error())
	assert.Equal(t, "validation failed", (&ValidationError{}).Error())
	assert.Equal(t, "validation failed", (&ValidationError{FieldErrors: map[string]string{"day": "bad"}}).Error())
}

func TestValidationError_AddAndMerge(t *testing.T) {
	t.Parallel()

	vErr := &ValidationError{}
	assert.False(t, vErr.HasErrors())

	vErr.add("subject", "subject is required")
	vErr.merge(map[string]string{"day": "day must be between 1 (Monday) and 6 (Saturday)"})
	vErr.merge(nil)

	assert.True(t, vErr.HasErrors())
	assert.Len(t, vErr.FieldErrors, 2)
}

func TestConflictAndIntervalErrors(t *testing.T) {
	t.Parallel()

	conflict := &ConflictError{ConflictingIDs: []string{"a", "b"}}
	assert.Equal(t, "session overlaps a, b", conflict.Error())

	interval := &InvalidIntervalError{Start: timetable.Clock(10, 0), End: timetable.Clock(9, 0)}
	assert.Equal(t, "start 10:00 must be before end 09:00", interval.Error())

	var target *ConflictError
	assert.True(t, errors.As(fmt.Errorf("wrapped: %w", conflict), &target))
	assert.Equal(t, []string{"a", "b"}, target.ConflictingIDs)
}

func TestMapRepoError(t *testing.T) {
	t.Parallel()

	assert.NoError(t, mapRepoError(nil))
	assert.ErrorIs(t, mapRepoError(fmt.Errorf("get: %w", persistence.ErrNotFound)), ErrNotFound)

	other := errors.New("disk full")
	assert.Equal(t, other, mapRepoError(other))
}
