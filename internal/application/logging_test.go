package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/class-timetable/internal/logging"
)

func TestDefaultLogger(t *testing.T) {
	t.Parallel()

	custom := slog.New(slog.NewTextHandler(io.Discard, nil))
	assert.Same(t, custom, defaultLogger(custom))
	assert.Same(t, slog.Default(), defaultLogger(nil))
}

func TestServiceLoggerPrefersContextLogger(t *testing.T) {
	t.Parallel()

	var buf safeBuffer
	fromCtx := slog.New(slog.NewTextHandler(&buf, nil))
	base := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx := logging.ContextWithLogger(context.Background(), fromCtx)
	serviceLogger(ctx, base, "TimetableService", "CreateSession", "day", 1).Info("hello")

	out := buf.String()
	assert.Contains(t, out, "service=TimetableService")
	assert.Contains(t, out, "operation=CreateSession")
	assert.Contains(t, out, "day=1")
}

func TestErrorKind(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{ErrNotFound, "not_found"},
		{fmt.Errorf("wrap: %w", ErrNotFound), "not_found"},
		{&ConflictError{ConflictingIDs: []string{"x"}}, "conflict"},
		{&InvalidIntervalError{}, "invalid_interval"},
		{&ValidationError{FieldErrors: map[string]string{"day": "bad"}}, "validation"},
		{errors.New("boom"), "unexpected"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ErrorKind(tc.err))
	}
}
