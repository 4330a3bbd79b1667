package sqlite

import (
	"context"
	"fmt"

	"github.com/example/class-timetable/internal/persistence"
)

// GetReminderSettings returns the owner's settings or persistence.ErrNotFound.
func (s *Storage) GetReminderSettings(ctx context.Context, ownerID string) (persistence.ReminderSettings, error) {
	var (
		settings  persistence.ReminderSettings
		enabled   int
		updatedAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT owner_id, enabled, lead_minutes, updated_at FROM reminder_settings WHERE owner_id = ?`, ownerID,
	).Scan(&settings.OwnerID, &enabled, &settings.LeadMinutes, &updatedAt)
	if err != nil {
		return persistence.ReminderSettings{}, mapError(err)
	}
	settings.Enabled = enabled != 0
	if settings.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.ReminderSettings{}, err
	}
	return settings, nil
}

// UpsertReminderSettings inserts or replaces the owner's settings.
func (s *Storage) UpsertReminderSettings(ctx context.Context, settings persistence.ReminderSettings) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reminder_settings (owner_id, enabled, lead_minutes, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(owner_id) DO UPDATE SET
			enabled      = excluded.enabled,
			lead_minutes = excluded.lead_minutes,
			updated_at   = excluded.updated_at`,
		settings.OwnerID, boolToInt(settings.Enabled), settings.LeadMinutes, formatTime(settings.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite: upsert reminder settings: %w", mapError(err))
	}
	return nil
}
