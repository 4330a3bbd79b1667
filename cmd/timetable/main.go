package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/example/class-timetable/internal/application"
	"github.com/example/class-timetable/internal/config"
	httptransport "github.com/example/class-timetable/internal/http"
	"github.com/example/class-timetable/internal/logging"
	"github.com/example/class-timetable/internal/notify"
	"github.com/example/class-timetable/internal/persistence/sqlite"
	"github.com/example/class-timetable/internal/recurrence"
)

func main() {
	bootstrap := logging.New(os.Stdout, slog.LevelInfo, "timetable")
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		bootstrap.Warn("failed to read .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		bootstrap.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	level, _ := logging.ParseLevel(cfg.LogLevel)
	logger := logging.New(os.Stdout, level, "timetable")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer a.close()

	if err := a.scheduler.Start(ctx); err != nil {
		logger.Error("failed to start reminder scheduler", "error", err)
		os.Exit(1)
	}
	defer a.scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("timetable API listening", "addr", server.Addr, "location", cfg.Zone.String())
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

type app struct {
	storage   *sqlite.Storage
	timetable *application.TimetableService
	settings  *application.SettingsService
	scheduler *application.ReminderScheduler
	handler   http.Handler
}

func (a *app) close() {
	if a.storage != nil {
		_ = a.storage.Close()
	}
}

// newApp opens storage, restores the persisted timetable and settings and
// wires the HTTP handler. The scheduler is returned stopped.
func newApp(ctx context.Context, cfg config.Config, logger *slog.Logger) (*app, error) {
	zone := cfg.Zone
	if zone == nil {
		zone = time.Local
	}
	now := func() time.Time { return time.Now().In(zone) }

	storage, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	if err := storage.Migrate(ctx); err != nil {
		_ = storage.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	store := application.NewSessionStore(uuid.NewString)
	engine := recurrence.NewEngine(zone)
	sessionRepo := newSessionRepositoryAdapter(storage, cfg.OwnerID, now)
	settingsRepo := newSettingsRepositoryAdapter(storage, cfg.OwnerID, now)

	timetableService := application.NewTimetableServiceWithLogger(store, sessionRepo, engine, now, logger)
	settingsService := application.NewSettingsServiceWithLogger(settingsRepo, logger)
	if err := timetableService.Load(ctx); err != nil {
		_ = storage.Close()
		return nil, fmt.Errorf("load timetable: %w", err)
	}
	if err := settingsService.Load(ctx); err != nil {
		_ = storage.Close()
		return nil, fmt.Errorf("load reminder settings: %w", err)
	}

	sinks := notify.Fanout{notify.NewLogNotifier(logger)}
	if cfg.TelegramEnabled() {
		telegram, err := notify.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			_ = storage.Close()
			return nil, fmt.Errorf("telegram notifier: %w", err)
		}
		sinks = append(sinks, telegram)
	}

	scheduler, err := application.NewReminderScheduler(store, settingsService, sinks, application.ReminderSchedulerConfig{
		Interval: cfg.ReminderInterval,
		Now:      now,
		Logger:   logger,
	})
	if err != nil {
		_ = storage.Close()
		return nil, err
	}

	handler := httptransport.NewRouter(httptransport.RouterConfig{
		Sessions:  httptransport.NewSessionHandler(timetableService, logger),
		Timetable: httptransport.NewTimetableHandler(timetableService, logger),
		Settings:  httptransport.NewSettingsHandler(settingsService, logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
			httptransport.Recoverer(logger),
		},
	})

	return &app{
		storage:   storage,
		timetable: timetableService,
		settings:  settingsService,
		scheduler: scheduler,
		handler:   handler,
	}, nil
}
