package config

import (
	"os"
	"testing"
	"time"

	"github.com/example/class-timetable/internal/application"
)

var allKeys = []string{
	"TIMETABLE_HTTP_PORT",
	"TIMETABLE_SQLITE_DSN",
	"TIMETABLE_OWNER_ID",
	"TIMETABLE_LOG_LEVEL",
	"TIMETABLE_REMINDER_INTERVAL",
	"TIMETABLE_LOCATION",
	"TIMETABLE_TELEGRAM_TOKEN",
	"TIMETABLE_TELEGRAM_CHAT_ID",
}

// clearEnv unsets every variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range allKeys {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("failed to unset %s: %v", key, err)
		}
	}
}

func TestLoader_ParseEnvironment(t *testing.T) {

	t.Run("applies defaults when variables are missing", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("TIMETABLE_OWNER_ID", "staff-7")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 8080 {
			t.Fatalf("expected default HTTP port 8080, got %d", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != "file:timetable.db" {
			t.Fatalf("unexpected default DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.OwnerID != "staff-7" {
			t.Fatalf("expected owner id staff-7, got %q", cfg.OwnerID)
		}
		if cfg.ReminderInterval != 30*time.Second {
			t.Fatalf("expected default reminder interval 30s, got %s", cfg.ReminderInterval)
		}
		if cfg.Zone != time.Local {
			t.Fatalf("expected local zone, got %v", cfg.Zone)
		}
		if cfg.TelegramEnabled() {
			t.Fatalf("telegram should be disabled by default")
		}
	})

	t.Run("errors when required values are missing", func(t *testing.T) {
		clearEnv(t)

		_, err := Load()
		if err == nil {
			t.Fatalf("expected error when required values are missing")
		}
		expected := "必須の環境変数が設定されていません: TIMETABLE_OWNER_ID"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})

	t.Run("parses every field", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("TIMETABLE_OWNER_ID", "staff-7")
		t.Setenv("TIMETABLE_HTTP_PORT", "9090")
		t.Setenv("TIMETABLE_SQLITE_DSN", "file:/tmp/timetable.db")
		t.Setenv("TIMETABLE_LOG_LEVEL", "debug")
		t.Setenv("TIMETABLE_REMINDER_INTERVAL", "1m")
		t.Setenv("TIMETABLE_LOCATION", "Europe/Berlin")
		t.Setenv("TIMETABLE_TELEGRAM_TOKEN", "123:abc")
		t.Setenv("TIMETABLE_TELEGRAM_CHAT_ID", "-100200")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 9090 {
			t.Fatalf("expected HTTP port 9090, got %d", cfg.HTTPPort)
		}
		if cfg.ReminderInterval != time.Minute {
			t.Fatalf("expected reminder interval 1m, got %s", cfg.ReminderInterval)
		}
		if cfg.Zone == nil || cfg.Zone.String() != "Europe/Berlin" {
			t.Fatalf("unexpected zone %v", cfg.Zone)
		}
		if !cfg.TelegramEnabled() || cfg.TelegramChatID != -100200 {
			t.Fatalf("expected telegram chat -100200, got %+v", cfg)
		}
	})

	t.Run("aggregates invalid values", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("TIMETABLE_OWNER_ID", "staff-7")
		t.Setenv("TIMETABLE_HTTP_PORT", "0")
		t.Setenv("TIMETABLE_LOG_LEVEL", "loud")
		t.Setenv("TIMETABLE_REMINDER_INTERVAL", "90s")
		t.Setenv("TIMETABLE_LOCATION", "Mars/Olympus")
		t.Setenv("TIMETABLE_TELEGRAM_TOKEN", "123:abc")

		_, err := Load()
		if err == nil {
			t.Fatalf("expected error for invalid values")
		}
		expected := "環境変数の値が不正です: TIMETABLE_HTTP_PORT, TIMETABLE_LOG_LEVEL, TIMETABLE_REMINDER_INTERVAL, TIMETABLE_LOCATION, TIMETABLE_TELEGRAM_TOKEN, TIMETABLE_TELEGRAM_CHAT_ID"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})

	t.Run("reports unparsable values", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("TIMETABLE_OWNER_ID", "staff-7")
		t.Setenv("TIMETABLE_REMINDER_INTERVAL", "soon")

		_, err := Load()
		if err == nil {
			t.Fatalf("expected error for unparsable duration")
		}
		expected := "環境変数の値が不正です: TIMETABLE_REMINDER_INTERVAL"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})

	t.Run("reminder interval shares the scheduler bound", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("TIMETABLE_OWNER_ID", "staff-7")
		t.Setenv("TIMETABLE_REMINDER_INTERVAL", application.MaxReminderInterval.String())

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error at the bound: %v", err)
		}
		if cfg.ReminderInterval != application.MaxReminderInterval {
			t.Fatalf("expected %s, got %s", application.MaxReminderInterval, cfg.ReminderInterval)
		}

		t.Setenv("TIMETABLE_REMINDER_INTERVAL", (application.MaxReminderInterval + time.Second).String())
		if _, err := Load(); err == nil || err.Error() != "環境変数の値が不正です: TIMETABLE_REMINDER_INTERVAL" {
			t.Fatalf("expected the interval above the bound to be rejected, got %v", err)
		}
	})
}
