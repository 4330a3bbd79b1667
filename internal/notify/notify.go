// Package notify provides delivery sinks for session reminders.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/example/class-timetable/internal/application"
)

// Text renders a notification as a plain message: the title on the first
// line followed by the body.
func Text(n application.Notification) string {
	if n.Body == "" {
		return n.Title
	}
	return n.Title + "\n" + n.Body
}

// LogNotifier writes reminders to a structured logger. It is the sink used
// when no messaging channel is configured.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a LogNotifier. A nil logger means slog.Default().
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger.With("sink", "log")}
}

// Notify implements application.Notifier.
func (l *LogNotifier) Notify(ctx context.Context, n application.Notification) error {
	l.logger.InfoContext(ctx, n.Title,
		"session_id", n.SessionID,
		"body", n.Body,
		"starts_at", n.StartsAt,
	)
	return nil
}

// Fanout delivers each notification to every sink. All sinks are tried; the
// returned error joins the individual failures.
type Fanout []application.Notifier

// Notify implements application.Notifier.
func (f Fanout) Notify(ctx context.Context, n application.Notification) error {
	var errs []error
	for i, sink := range f {
		if sink == nil {
			continue
		}
		if err := sink.Notify(ctx, n); err != nil {
			errs = append(errs, fmt.Errorf("sink %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
