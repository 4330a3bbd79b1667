package application

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/mo"

	"github.com/example/class-timetable/internal/recurrence"
	"github.com/example/class-timetable/internal/scheduler"
	"github.com/example/class-timetable/internal/timetable"
)

// SessionStore is the in-memory source of truth for the weekly timetable.
// Every mutation passes the conflict detector inside the write lock, so no
// two sessions on the same day ever overlap. Composite reads run under the
// read lock and never observe a partial edit.
type SessionStore struct {
	mu          sync.RWMutex
	sessions    map[string]timetable.Session
	idGenerator func() string
}

// NewSessionStore constructs an empty store. The id generator is called once
// per added session and defaults to random UUIDs.
func NewSessionStore(idGenerator func() string) *SessionStore {
	if idGenerator == nil {
		idGenerator = uuid.NewString
	}
	return &SessionStore{
		sessions:    make(map[string]timetable.Session),
		idGenerator: idGenerator,
	}
}

// Load replaces the store contents with sessions read from persistence. The
// seed is rejected as a whole when any session is malformed or two sessions
// overlap.
func (s *SessionStore) Load(sessions []timetable.Session) error {
	seeded := make(map[string]timetable.Session, len(sessions))
	for _, session := range sessions {
		if fields := timetable.ValidateSession(session); len(fields) > 0 {
			vErr := &ValidationError{}
			vErr.merge(fields)
			return fmt.Errorf("load session %q: %w", session.ID, vErr)
		}
		if session.Start >= session.End {
			return fmt.Errorf("load session %q: %w", session.ID, &InvalidIntervalError{Start: session.Start, End: session.End})
		}
		if _, dup := seeded[session.ID]; dup {
			return fmt.Errorf("load session %q: duplicate id", session.ID)
		}
		seeded[session.ID] = session
	}
	all := make([]timetable.Session, 0, len(seeded))
	for _, session := range seeded {
		all = append(all, session)
	}
	if pairs := scheduler.OverlappingPairs(all); len(pairs) > 0 {
		return fmt.Errorf("load session %q: %w", pairs[0][0], &ConflictError{ConflictingIDs: []string{pairs[0][1]}})
	}

	s.mu.Lock()
	s.sessions = seeded
	s.mu.Unlock()
	return nil
}

// Add validates the input, rejects it when it overlaps an existing session on
// the same day and otherwise stores it under a fresh id.
func (s *SessionStore) Add(input timetable.SessionInput) (timetable.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := buildSession("", input)
	if err != nil {
		return timetable.Session{}, err
	}
	if ids := scheduler.Conflicts(session, s.snapshotLocked(), ""); len(ids) > 0 {
		return timetable.Session{}, &ConflictError{ConflictingIDs: ids}
	}
	session.ID = s.idGenerator()
	if _, taken := s.sessions[session.ID]; taken || session.ID == "" {
		return timetable.Session{}, fmt.Errorf("id generator returned unusable id %q", session.ID)
	}
	s.sessions[session.ID] = session
	return session, nil
}

// Update replaces the session with the given id. The session is checked
// against every other session; it never conflicts with its own old slot.
func (s *SessionStore) Update(id string, input timetable.SessionInput) (timetable.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := buildSession(id, input)
	if err != nil {
		return timetable.Session{}, err
	}
	if _, ok := s.sessions[id]; !ok {
		return timetable.Session{}, ErrNotFound
	}
	if ids := scheduler.Conflicts(session, s.snapshotLocked(), id); len(ids) > 0 {
		return timetable.Session{}, &ConflictError{ConflictingIDs: ids}
	}
	s.sessions[id] = session
	return session, nil
}

// Remove deletes the session with the given id.
func (s *SessionStore) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(s.sessions, id)
	return nil
}

// Get returns the session with the given id.
func (s *SessionStore) Get(id string) (timetable.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return timetable.Session{}, ErrNotFound
	}
	return session, nil
}

// Check runs validation and conflict detection for a prospective session
// without mutating the store. excludeID names the session being edited.
func (s *SessionStore) Check(input timetable.SessionInput, excludeID string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := buildSession(excludeID, input)
	if err != nil {
		return err
	}
	if ids := scheduler.Conflicts(session, s.snapshotLocked(), excludeID); len(ids) > 0 {
		return &ConflictError{ConflictingIDs: ids}
	}
	return nil
}

// ListByDay returns the sessions of one day ordered by start time.
func (s *SessionStore) ListByDay(day timetable.Day) []timetable.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return scheduler.OnDay(s.snapshotLocked(), day)
}

// ListAll returns every session ordered by day, then start time.
func (s *SessionStore) ListAll() []timetable.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return scheduler.SortByDayAndStart(s.snapshotLocked())
}

// Len reports the number of stored sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Current returns the session in progress at now.
func (s *SessionStore) Current(now time.Time) mo.Option[timetable.Session] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return scheduler.CurrentSession(s.snapshotLocked(), now)
}

// Next returns the next session to start after now.
func (s *SessionStore) Next(now time.Time) mo.Option[timetable.Session] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return scheduler.NextSession(s.snapshotLocked(), now)
}

// NextOccurrence returns the dated occurrence of the next session.
func (s *SessionStore) NextOccurrence(now time.Time) mo.Option[recurrence.Occurrence] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return scheduler.NextOccurrence(s.snapshotLocked(), now)
}

// Resolution is the current and next session as seen at one instant.
type Resolution struct {
	Current        mo.Option[timetable.Session]
	Next           mo.Option[timetable.Session]
	NextOccurrence mo.Option[recurrence.Occurrence]
}

// Resolve evaluates current and next in one critical section so both answers
// describe the same timetable.
func (s *SessionStore) Resolve(now time.Time) Resolution {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.snapshotLocked()
	return Resolution{
		Current:        scheduler.CurrentSession(sessions, now),
		Next:           scheduler.NextSession(sessions, now),
		NextOccurrence: scheduler.NextOccurrence(sessions, now),
	}
}

// Statistics recomputes the weekly statistics from the current sessions.
func (s *SessionStore) Statistics() scheduler.Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return scheduler.ComputeStatistics(s.snapshotLocked())
}

// DueReminders returns today's sessions whose reminder window contains now.
func (s *SessionStore) DueReminders(now time.Time, lead time.Duration) []timetable.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return scheduler.DueReminders(s.snapshotLocked(), now, lead)
}

// restore puts a previous version of a session back, or removes it when prev
// is absent. It undoes a mutation whose write-through failed. A previous
// version that would now overlap another session is not restored and the
// conflict is returned.
func (s *SessionStore) restore(id string, prev mo.Option[timetable.Session]) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := prev.Get()
	if !ok {
		delete(s.sessions, id)
		return nil
	}
	if ids := scheduler.Conflicts(session, s.snapshotLocked(), id); len(ids) > 0 {
		return &ConflictError{ConflictingIDs: ids}
	}
	s.sessions[id] = session
	return nil
}

func (s *SessionStore) snapshotLocked() []timetable.Session {
	out := make([]timetable.Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		out = append(out, session)
	}
	return out
}

func buildSession(id string, input timetable.SessionInput) (timetable.Session, error) {
	input = normalizeInput(input)

	vErr := &ValidationError{}
	vErr.merge(timetable.ValidateInput(input))
	if vErr.HasErrors() {
		return timetable.Session{}, vErr
	}

	session, err := input.Session(id)
	if err != nil {
		vErr.add("time", err.Error())
		return timetable.Session{}, vErr
	}
	if session.Start >= session.End {
		return timetable.Session{}, &InvalidIntervalError{Start: session.Start, End: session.End}
	}
	return session, nil
}

func normalizeInput(input timetable.SessionInput) timetable.SessionInput {
	input.Start = strings.TrimSpace(input.Start)
	input.End = strings.TrimSpace(input.End)
	input.Subject = strings.TrimSpace(input.Subject)
	input.ClassName = strings.TrimSpace(input.ClassName)
	input.Room = strings.TrimSpace(input.Room)
	return input
}
