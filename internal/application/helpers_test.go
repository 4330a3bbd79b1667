package application

import (
	"bytes"
	"context"
	"errors"
	"sync"

	"github.com/example/class-timetable/internal/timetable"
)

type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type sessionRepoStub struct {
	mu        sync.Mutex
	rows      map[string]timetable.Session
	createErr error
	updateErr error
	deleteErr error
	listErr   error

	// beforeUpdate runs ahead of UpdateSession without holding the stub lock.
	beforeUpdate func()
}

func newSessionRepoStub(seed ...timetable.Session) *sessionRepoStub {
	stub := &sessionRepoStub{rows: make(map[string]timetable.Session)}
	for _, s := range seed {
		stub.rows[s.ID] = s
	}
	return stub
}

func (s *sessionRepoStub) CreateSession(ctx context.Context, session timetable.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	s.rows[session.ID] = session
	return nil
}

func (s *sessionRepoStub) UpdateSession(ctx context.Context, session timetable.Session) error {
	if s.beforeUpdate != nil {
		s.beforeUpdate()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return s.updateErr
	}
	s.rows[session.ID] = session
	return nil
}

func (s *sessionRepoStub) DeleteSession(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.rows, id)
	return nil
}

func (s *sessionRepoStub) ListSessions(ctx context.Context) ([]timetable.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]timetable.Session, 0, len(s.rows))
	for _, row := range s.rows {
		out = append(out, row)
	}
	return out, nil
}

func (s *sessionRepoStub) row(id string) (timetable.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	return row, ok
}

type settingsRepoStub struct {
	stored  *timetable.ReminderSettings
	getErr  error
	saveErr error
	saves   int
}

func (s *settingsRepoStub) GetReminderSettings(ctx context.Context) (timetable.ReminderSettings, error) {
	if s.getErr != nil {
		return timetable.ReminderSettings{}, s.getErr
	}
	if s.stored == nil {
		return timetable.ReminderSettings{}, ErrNotFound
	}
	return *s.stored, nil
}

func (s *settingsRepoStub) SaveReminderSettings(ctx context.Context, settings timetable.ReminderSettings) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	s.stored = &settings
	return nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []Notification
	err  error
}

func (r *recordingNotifier) Notify(ctx context.Context, n Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	return r.err
}

func (r *recordingNotifier) notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.sent))
	copy(out, r.sent)
	return out
}

type fixedSettings timetable.ReminderSettings

func (f fixedSettings) Current() timetable.ReminderSettings {
	return timetable.ReminderSettings(f)
}

var errRepoDown = errors.New("repository unavailable")
