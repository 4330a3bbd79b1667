package main

import (
	"context"
	"fmt"
	"time"

	"github.com/example/class-timetable/internal/persistence"
	"github.com/example/class-timetable/internal/timetable"
)

type sessionRepositoryAdapter struct {
	repo    persistence.SessionRepository
	ownerID string
	now     func() time.Time
}

func newSessionRepositoryAdapter(repo persistence.SessionRepository, ownerID string, now func() time.Time) *sessionRepositoryAdapter {
	if now == nil {
		now = time.Now
	}
	return &sessionRepositoryAdapter{repo: repo, ownerID: ownerID, now: now}
}

func (a *sessionRepositoryAdapter) CreateSession(ctx context.Context, session timetable.Session) error {
	stamp := a.now().UTC()
	return a.repo.CreateSession(ctx, toPersistenceSession(session, a.ownerID, stamp))
}

func (a *sessionRepositoryAdapter) UpdateSession(ctx context.Context, session timetable.Session) error {
	stamp := a.now().UTC()
	return a.repo.UpdateSession(ctx, toPersistenceSession(session, a.ownerID, stamp))
}

func (a *sessionRepositoryAdapter) DeleteSession(ctx context.Context, id string) error {
	return a.repo.DeleteSession(ctx, a.ownerID, id)
}

func (a *sessionRepositoryAdapter) ListSessions(ctx context.Context) ([]timetable.Session, error) {
	models, err := a.repo.ListSessions(ctx, a.ownerID)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	sessions := make([]timetable.Session, 0, len(models))
	for _, model := range models {
		session, err := toTimetableSession(model)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

type settingsRepositoryAdapter struct {
	repo    persistence.SettingsRepository
	ownerID string
	now     func() time.Time
}

func newSettingsRepositoryAdapter(repo persistence.SettingsRepository, ownerID string, now func() time.Time) *settingsRepositoryAdapter {
	if now == nil {
		now = time.Now
	}
	return &settingsRepositoryAdapter{repo: repo, ownerID: ownerID, now: now}
}

func (a *settingsRepositoryAdapter) GetReminderSettings(ctx context.Context) (timetable.ReminderSettings, error) {
	stored, err := a.repo.GetReminderSettings(ctx, a.ownerID)
	if err != nil {
		return timetable.ReminderSettings{}, err
	}
	return timetable.ReminderSettings{Enabled: stored.Enabled, LeadMinutes: stored.LeadMinutes}, nil
}

func (a *settingsRepositoryAdapter) SaveReminderSettings(ctx context.Context, settings timetable.ReminderSettings) error {
	return a.repo.UpsertReminderSettings(ctx, persistence.ReminderSettings{
		OwnerID:     a.ownerID,
		Enabled:     settings.Enabled,
		LeadMinutes: settings.LeadMinutes,
		UpdatedAt:   a.now().UTC(),
	})
}

func toPersistenceSession(session timetable.Session, ownerID string, stamp time.Time) persistence.Session {
	return persistence.Session{
		ID:           session.ID,
		OwnerID:      ownerID,
		Day:          int(session.Day),
		StartTime:    session.Start.String(),
		EndTime:      session.End.String(),
		Subject:      session.Subject,
		ClassName:    session.ClassName,
		Room:         session.Room,
		Participants: session.Participants,
		Type:         string(session.Type),
		CreatedAt:    stamp,
		UpdatedAt:    stamp,
	}
}

func toTimetableSession(model persistence.Session) (timetable.Session, error) {
	start, err := timetable.ParseTimeOfDay(model.StartTime)
	if err != nil {
		return timetable.Session{}, fmt.Errorf("session %s: start: %w", model.ID, err)
	}
	end, err := timetable.ParseTimeOfDay(model.EndTime)
	if err != nil {
		return timetable.Session{}, fmt.Errorf("session %s: end: %w", model.ID, err)
	}
	return timetable.Session{
		ID:           model.ID,
		Day:          timetable.Day(model.Day),
		Start:        start,
		End:          end,
		Subject:      model.Subject,
		ClassName:    model.ClassName,
		Room:         model.Room,
		Participants: model.Participants,
		Type:         timetable.SessionType(model.Type),
	}, nil
}
