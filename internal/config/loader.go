package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/kelseyhightower/envconfig"

	"github.com/example/class-timetable/internal/application"
	"github.com/example/class-timetable/internal/logging"
)

// Prefix is prepended to every environment variable read by Load.
const Prefix = "TIMETABLE"

// Config captures environment driven configuration values for the timetable service.
type Config struct {
	HTTPPort         int           `envconfig:"HTTP_PORT" default:"8080"`
	SQLiteDSN        string        `envconfig:"SQLITE_DSN" default:"file:timetable.db"`
	OwnerID          string        `envconfig:"OWNER_ID"`
	LogLevel         string        `envconfig:"LOG_LEVEL" default:"info"`
	ReminderInterval time.Duration `envconfig:"REMINDER_INTERVAL" default:"30s"`
	Location         string        `envconfig:"LOCATION" default:"Local"`
	TelegramToken    string        `envconfig:"TELEGRAM_TOKEN"`
	TelegramChatID   int64         `envconfig:"TELEGRAM_CHAT_ID"`

	// Zone is the loaded Location.
	Zone *time.Location `ignored:"true"`
}

// TelegramEnabled reports whether Telegram delivery is configured.
func (c Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}

// Load parses configuration values from the current process environment.
//
// Defaults apply to optional fields. Missing required values are reported
// before invalid ones, each as a single error naming every offending variable.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		var parseErr *envconfig.ParseError
		if errors.As(err, &parseErr) {
			return Config{}, fmt.Errorf("環境変数の値が不正です: %s", parseErr.KeyName)
		}
		return Config{}, err
	}

	cfg.SQLiteDSN = strings.TrimSpace(cfg.SQLiteDSN)
	cfg.OwnerID = strings.TrimSpace(cfg.OwnerID)
	cfg.TelegramToken = strings.TrimSpace(cfg.TelegramToken)

	missing := make([]string, 0, 2)
	invalid := make([]string, 0, 4)

	if cfg.OwnerID == "" {
		missing = append(missing, key("OWNER_ID"))
	}
	if cfg.SQLiteDSN == "" {
		missing = append(missing, key("SQLITE_DSN"))
	}
	if cfg.HTTPPort <= 0 || cfg.HTTPPort > 65535 {
		invalid = append(invalid, key("HTTP_PORT"))
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		invalid = append(invalid, key("LOG_LEVEL"))
	}
	if cfg.ReminderInterval <= 0 || cfg.ReminderInterval > application.MaxReminderInterval {
		invalid = append(invalid, key("REMINDER_INTERVAL"))
	}
	if loc, err := time.LoadLocation(strings.TrimSpace(cfg.Location)); err != nil {
		invalid = append(invalid, key("LOCATION"))
	} else {
		cfg.Zone = loc
	}
	if (cfg.TelegramToken == "") != (cfg.TelegramChatID == 0) {
		invalid = append(invalid, key("TELEGRAM_TOKEN"), key("TELEGRAM_CHAT_ID"))
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("必須の環境変数が設定されていません: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("環境変数の値が不正です: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

func key(name string) string {
	return Prefix + "_" + name
}
