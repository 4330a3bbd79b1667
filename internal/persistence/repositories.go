package persistence

import "context"

// SessionRepository stores timetable sessions partitioned by owner.
type SessionRepository interface {
	CreateSession(ctx context.Context, session Session) error
	UpdateSession(ctx context.Context, session Session) error
	GetSession(ctx context.Context, ownerID, id string) (Session, error)
	ListSessions(ctx context.Context, ownerID string) ([]Session, error)
	DeleteSession(ctx context.Context, ownerID, id string) error
}

// SettingsRepository stores reminder settings, one row per owner.
type SettingsRepository interface {
	GetReminderSettings(ctx context.Context, ownerID string) (ReminderSettings, error)
	UpsertReminderSettings(ctx context.Context, settings ReminderSettings) error
}
