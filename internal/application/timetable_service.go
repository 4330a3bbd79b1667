package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/samber/mo"

	"github.com/example/class-timetable/internal/recurrence"
	"github.com/example/class-timetable/internal/scheduler"
	"github.com/example/class-timetable/internal/timetable"
)

// SessionRepository captures the persistence interactions needed by the service.
type SessionRepository interface {
	CreateSession(ctx context.Context, session timetable.Session) error
	UpdateSession(ctx context.Context, session timetable.Session) error
	DeleteSession(ctx context.Context, id string) error
	ListSessions(ctx context.Context) ([]timetable.Session, error)
}

// TimetableService exposes the session store to callers, writing every
// accepted mutation through to the repository. When the repository rejects a
// write, the in-memory change is rolled back. Mutations are serialized so a
// rollback never races another edit.
type TimetableService struct {
	writeMu  sync.Mutex
	store    *SessionStore
	sessions SessionRepository
	engine   *recurrence.Engine
	now      func() time.Time
	logger   *slog.Logger
}

// NewTimetableService wires dependencies for timetable operations.
func NewTimetableService(store *SessionStore, sessions SessionRepository, engine *recurrence.Engine, now func() time.Time) *TimetableService {
	return NewTimetableServiceWithLogger(store, sessions, engine, now, nil)
}

// NewTimetableServiceWithLogger wires dependencies with a specified logger.
func NewTimetableServiceWithLogger(store *SessionStore, sessions SessionRepository, engine *recurrence.Engine, now func() time.Time, logger *slog.Logger) *TimetableService {
	if store == nil {
		store = NewSessionStore(nil)
	}
	if engine == nil {
		engine = recurrence.NewEngine(nil)
	}
	if now == nil {
		now = time.Now
	}
	return &TimetableService{
		store:    store,
		sessions: sessions,
		engine:   engine,
		now:      now,
		logger:   defaultLogger(logger),
	}
}

func (s *TimetableService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "TimetableService", operation, attrs...)
}

// Store returns the underlying session store.
func (s *TimetableService) Store() *SessionStore {
	return s.store
}

// Load seeds the store from the repository.
func (s *TimetableService) Load(ctx context.Context) error {
	if s == nil {
		return fmt.Errorf("TimetableService is nil")
	}
	if s.sessions == nil {
		return nil
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	sessions, err := s.sessions.ListSessions(ctx)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}
	if err := s.store.Load(sessions); err != nil {
		return err
	}
	s.loggerWith(ctx, "Load").InfoContext(ctx, "timetable loaded", "sessions", len(sessions))
	return nil
}

// CreateSession validates the input, checks it for conflicts and stores it.
func (s *TimetableService) CreateSession(ctx context.Context, input timetable.SessionInput) (session timetable.Session, err error) {
	if s == nil {
		err = fmt.Errorf("TimetableService is nil")
		return
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	logger := s.loggerWith(ctx, "CreateSession", "day", int(input.Day))
	defer func() {
		if err != nil {
			logger.WarnContext(ctx, "failed to create session", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("session_id", session.ID).InfoContext(ctx, "session created")
	}()

	session, err = s.store.Add(input)
	if err != nil {
		return
	}
	if s.sessions == nil {
		return
	}
	if err = s.sessions.CreateSession(ctx, session); err != nil {
		s.rollback(ctx, logger, session.ID, mo.None[timetable.Session]())
		session = timetable.Session{}
		err = mapRepoError(err)
	}
	return
}

// UpdateSession replaces an existing session.
func (s *TimetableService) UpdateSession(ctx context.Context, id string, input timetable.SessionInput) (session timetable.Session, err error) {
	if s == nil {
		err = fmt.Errorf("TimetableService is nil")
		return
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	logger := s.loggerWith(ctx, "UpdateSession", "session_id", id)
	defer func() {
		if err != nil {
			logger.WarnContext(ctx, "failed to update session", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "session updated")
	}()

	prev, getErr := s.store.Get(id)
	session, err = s.store.Update(id, input)
	if err != nil {
		return
	}
	if s.sessions == nil {
		return
	}
	if err = s.sessions.UpdateSession(ctx, session); err != nil {
		if getErr == nil {
			s.rollback(ctx, logger, id, mo.Some(prev))
		}
		session = timetable.Session{}
		err = mapRepoError(err)
	}
	return
}

// DeleteSession removes a session.
func (s *TimetableService) DeleteSession(ctx context.Context, id string) (err error) {
	if s == nil {
		return fmt.Errorf("TimetableService is nil")
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	logger := s.loggerWith(ctx, "DeleteSession", "session_id", id)
	defer func() {
		if err != nil {
			logger.WarnContext(ctx, "failed to delete session", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "session deleted")
	}()

	prev, err := s.store.Get(id)
	if err != nil {
		return err
	}
	if err = s.store.Remove(id); err != nil {
		return err
	}
	if s.sessions == nil {
		return nil
	}
	if err = s.sessions.DeleteSession(ctx, id); err != nil {
		s.rollback(ctx, logger, id, mo.Some(prev))
		return mapRepoError(err)
	}
	return nil
}

func (s *TimetableService) rollback(ctx context.Context, logger *slog.Logger, id string, prev mo.Option[timetable.Session]) {
	if err := s.store.restore(id, prev); err != nil {
		logger.ErrorContext(ctx, "failed to roll back session", "error", err, "error_kind", ErrorKind(err))
	}
}

// GetSession returns one session.
func (s *TimetableService) GetSession(ctx context.Context, id string) (timetable.Session, error) {
	return s.store.Get(id)
}

// ListSessions returns all sessions, or one day's sessions when day is set.
func (s *TimetableService) ListSessions(ctx context.Context, day mo.Option[timetable.Day]) []timetable.Session {
	if d, ok := day.Get(); ok {
		return s.store.ListByDay(d)
	}
	return s.store.ListAll()
}

// CheckConflicts validates a prospective session without storing it. A nil
// error means the session could be saved as is.
func (s *TimetableService) CheckConflicts(ctx context.Context, input timetable.SessionInput, excludeID string) error {
	err := s.store.Check(input, excludeID)
	if err != nil {
		s.loggerWith(ctx, "CheckConflicts").DebugContext(ctx, "candidate rejected", "error_kind", ErrorKind(err))
	}
	return err
}

// Now resolves the current and next session at the service clock.
func (s *TimetableService) Now(ctx context.Context) (time.Time, Resolution) {
	now := s.now().In(s.engine.Location())
	return now, s.store.Resolve(now)
}

// Statistics recomputes the weekly statistics.
func (s *TimetableService) Statistics(ctx context.Context) scheduler.Statistics {
	return s.store.Statistics()
}

// Week expands the timetable onto the calendar week containing ref. A zero
// ref means the current week.
func (s *TimetableService) Week(ctx context.Context, ref time.Time) ([]recurrence.Occurrence, error) {
	if ref.IsZero() {
		ref = s.now()
	}
	from, to := s.engine.WeekOf(ref)
	return s.engine.Expand(s.store.ListAll(), from, to)
}

// Engine returns the occurrence engine used to place sessions on dates.
func (s *TimetableService) Engine() *recurrence.Engine {
	return s.engine
}

// Clock returns the service clock.
func (s *TimetableService) Clock() time.Time {
	return s.now()
}
