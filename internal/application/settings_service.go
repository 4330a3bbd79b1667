package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/example/class-timetable/internal/timetable"
)

// SettingsRepository persists reminder settings. GetReminderSettings returns
// ErrNotFound (or persistence.ErrNotFound) when nothing has been saved yet.
type SettingsRepository interface {
	GetReminderSettings(ctx context.Context) (timetable.ReminderSettings, error)
	SaveReminderSettings(ctx context.Context, settings timetable.ReminderSettings) error
}

// SettingsPatch carries a partial settings change. Nil fields keep their
// current value.
type SettingsPatch struct {
	Enabled     *bool `json:"enabled"`
	LeadMinutes *int  `json:"lead_minutes"`
}

// SettingsService holds the active reminder settings. Readers always see a
// complete settings value; updates are persisted before they become visible.
type SettingsService struct {
	mu       sync.RWMutex
	current  timetable.ReminderSettings
	updateMu sync.Mutex
	repo     SettingsRepository
	logger   *slog.Logger
}

// NewSettingsService constructs a service starting from the default settings.
func NewSettingsService(repo SettingsRepository) *SettingsService {
	return NewSettingsServiceWithLogger(repo, nil)
}

// NewSettingsServiceWithLogger constructs a service with a specified logger.
func NewSettingsServiceWithLogger(repo SettingsRepository, logger *slog.Logger) *SettingsService {
	return &SettingsService{
		current: timetable.DefaultReminderSettings(),
		repo:    repo,
		logger:  defaultLogger(logger),
	}
}

func (s *SettingsService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "SettingsService", operation, attrs...)
}

// Load reads persisted settings. Missing or invalid stored settings fall back
// to the defaults.
func (s *SettingsService) Load(ctx context.Context) error {
	if s == nil {
		return fmt.Errorf("SettingsService is nil")
	}
	if s.repo == nil {
		return nil
	}
	logger := s.loggerWith(ctx, "Load")

	stored, err := s.repo.GetReminderSettings(ctx)
	if err != nil {
		if errors.Is(mapRepoError(err), ErrNotFound) {
			logger.InfoContext(ctx, "no reminder settings stored, using defaults")
			return nil
		}
		return fmt.Errorf("get reminder settings: %w", err)
	}
	if fields := timetable.ValidateSettings(stored); len(fields) > 0 {
		logger.WarnContext(ctx, "stored reminder settings are invalid, using defaults", "lead_minutes", stored.LeadMinutes)
		return nil
	}

	s.mu.Lock()
	s.current = stored
	s.mu.Unlock()
	logger.InfoContext(ctx, "reminder settings loaded", "enabled", stored.Enabled, "lead_minutes", stored.LeadMinutes)
	return nil
}

// Current returns the active settings.
func (s *SettingsService) Current() timetable.ReminderSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update applies a patch, validates the result and persists it. The active
// settings change only after the repository accepted them.
func (s *SettingsService) Update(ctx context.Context, patch SettingsPatch) (settings timetable.ReminderSettings, err error) {
	if s == nil {
		err = fmt.Errorf("SettingsService is nil")
		return
	}

	s.updateMu.Lock()
	defer s.updateMu.Unlock()

	logger := s.loggerWith(ctx, "Update")
	defer func() {
		if err != nil {
			logger.WarnContext(ctx, "failed to update reminder settings", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "reminder settings updated", "enabled", settings.Enabled, "lead_minutes", settings.LeadMinutes)
	}()

	settings = s.Current()
	if patch.Enabled != nil {
		settings.Enabled = *patch.Enabled
	}
	if patch.LeadMinutes != nil {
		settings.LeadMinutes = *patch.LeadMinutes
	}

	if fields := timetable.ValidateSettings(settings); len(fields) > 0 {
		vErr := &ValidationError{}
		vErr.merge(fields)
		settings, err = timetable.ReminderSettings{}, vErr
		return
	}

	if s.repo != nil {
		if err = s.repo.SaveReminderSettings(ctx, settings); err != nil {
			settings, err = timetable.ReminderSettings{}, fmt.Errorf("save reminder settings: %w", err)
			return
		}
	}

	s.mu.Lock()
	s.current = settings
	s.mu.Unlock()
	return
}
