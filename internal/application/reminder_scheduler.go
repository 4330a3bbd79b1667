package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/example/class-timetable/internal/recurrence"
	"github.com/example/class-timetable/internal/scheduler"
	"github.com/example/class-timetable/internal/timetable"
)

const (
	// DefaultReminderInterval is the polling interval used when none is configured.
	DefaultReminderInterval = 30 * time.Second
	// MaxReminderInterval bounds the polling interval so no reminder window is skipped.
	MaxReminderInterval = time.Minute
)

// Notification is one reminder handed to a Notifier.
type Notification struct {
	Title     string
	Body      string
	SessionID string
	Session   timetable.Session
	StartsAt  time.Time
}

// Notifier delivers reminders, e.g. as a push message.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, n Notification) error

// Notify implements Notifier.
func (f NotifierFunc) Notify(ctx context.Context, n Notification) error {
	return f(ctx, n)
}

// ReminderSource yields the sessions whose reminder window contains now.
type ReminderSource interface {
	DueReminders(now time.Time, lead time.Duration) []timetable.Session
}

// SettingsSource yields the active reminder settings.
type SettingsSource interface {
	Current() timetable.ReminderSettings
}

// ReminderSchedulerConfig tunes the polling loop.
type ReminderSchedulerConfig struct {
	Interval time.Duration
	Now      func() time.Time
	Logger   *slog.Logger
}

type fireKey struct {
	sessionID string
	date      string
}

// ReminderScheduler polls the timetable and fires each session's reminder at
// most once per calendar date. An occurrence is recorded as fired before the
// notifier is called; a failed dispatch is logged and not retried.
type ReminderScheduler struct {
	sessions ReminderSource
	settings SettingsSource
	notifier Notifier
	interval time.Duration
	now      func() time.Time
	logger   *slog.Logger

	firedMu sync.Mutex
	fired   map[fireKey]struct{}

	runMu  sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewReminderScheduler constructs a stopped scheduler.
func NewReminderScheduler(sessions ReminderSource, settings SettingsSource, notifier Notifier, cfg ReminderSchedulerConfig) (*ReminderScheduler, error) {
	if sessions == nil || settings == nil || notifier == nil {
		return nil, fmt.Errorf("reminder scheduler: sessions, settings and notifier are required")
	}
	interval := cfg.Interval
	if interval == 0 {
		interval = DefaultReminderInterval
	}
	if interval < 0 || interval > MaxReminderInterval {
		return nil, fmt.Errorf("reminder scheduler: interval %s must be in (0, %s]", interval, MaxReminderInterval)
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &ReminderScheduler{
		sessions: sessions,
		settings: settings,
		notifier: notifier,
		interval: interval,
		now:      now,
		logger:   defaultLogger(cfg.Logger).With("service", "ReminderScheduler"),
		fired:    make(map[fireKey]struct{}),
	}, nil
}

// Start launches the polling loop. The first tick runs immediately. The loop
// ends when Stop is called or ctx is cancelled.
func (s *ReminderScheduler) Start(ctx context.Context) error {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	if s.done != nil {
		select {
		case <-s.done:
		default:
			return ErrSchedulerRunning
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done

	go s.run(runCtx, done)
	s.logger.InfoContext(ctx, "reminder scheduler started", "interval", s.interval.String())
	return nil
}

// Stop cancels the polling loop and waits for it to exit. No notification is
// dispatched after Stop returns. Stopping a stopped scheduler is a no-op.
func (s *ReminderScheduler) Stop() {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	if s.done == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel, s.done = nil, nil
	s.logger.Info("reminder scheduler stopped")
}

// Running reports whether the polling loop is active.
func (s *ReminderScheduler) Running() bool {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	if s.done == nil {
		return false
	}
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

func (s *ReminderScheduler) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	s.Tick(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick runs one polling cycle and returns the number of reminders delivered.
// It does nothing while reminders are disabled.
func (s *ReminderScheduler) Tick(ctx context.Context) int {
	settings := s.settings.Current()
	if !settings.Enabled {
		return 0
	}

	now := s.now()
	date := recurrence.DateKey(now)
	s.prune(date)

	sent := 0
	for _, session := range s.sessions.DueReminders(now, settings.Lead()) {
		if ctx.Err() != nil {
			return sent
		}
		if !s.markFired(session.ID, date) {
			continue
		}

		n := buildNotification(session, now)
		logger := s.logger.With("session_id", session.ID, "date", date)
		if err := s.notifier.Notify(ctx, n); err != nil {
			logger.WarnContext(ctx, "reminder dispatch failed", "error", err)
			continue
		}
		logger.InfoContext(ctx, "reminder dispatched", "starts_at", n.StartsAt)
		sent++
	}
	return sent
}

// Fired reports whether the reminder for the session on the given date
// (YYYY-MM-DD) has been recorded.
func (s *ReminderScheduler) Fired(sessionID, date string) bool {
	s.firedMu.Lock()
	defer s.firedMu.Unlock()
	_, ok := s.fired[fireKey{sessionID: sessionID, date: date}]
	return ok
}

func (s *ReminderScheduler) markFired(sessionID, date string) bool {
	s.firedMu.Lock()
	defer s.firedMu.Unlock()

	key := fireKey{sessionID: sessionID, date: date}
	if _, ok := s.fired[key]; ok {
		return false
	}
	s.fired[key] = struct{}{}
	return true
}

// prune drops records of other dates so the set never grows across days.
func (s *ReminderScheduler) prune(today string) {
	s.firedMu.Lock()
	defer s.firedMu.Unlock()

	for key := range s.fired {
		if key.date != today {
			delete(s.fired, key)
		}
	}
}

func buildNotification(session timetable.Session, now time.Time) Notification {
	details := make([]string, 0, 3)
	if session.ClassName != "" {
		details = append(details, session.ClassName)
	}
	if session.Room != "" {
		details = append(details, "Room "+session.Room)
	}
	details = append(details, fmt.Sprintf("%s–%s", session.Start, session.End))

	return Notification{
		Title:     fmt.Sprintf("%s starts in %d min", session.Subject, scheduler.MinutesUntil(session, now)),
		Body:      strings.Join(details, " · "),
		SessionID: session.ID,
		Session:   session,
		StartsAt:  session.Start.On(now),
	}
}
