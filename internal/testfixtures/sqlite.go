package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/class-timetable/internal/persistence"
	"github.com/example/class-timetable/internal/persistence/sqlite"
)

// SQLiteHarness provides repository access backed by a temporary SQLite
// database for integration-style tests.
type SQLiteHarness struct {
	Storage  *sqlite.Storage
	Sessions persistence.SessionRepository
	Settings persistence.SettingsRepository

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness opens and migrates a database file in a temporary
// directory. The harness is closed automatically when the test ends.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "timetable.db")
	storage, err := sqlite.Open(path)
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}
	if err := storage.Migrate(context.Background()); err != nil {
		_ = storage.Close()
		tb.Fatalf("failed to migrate storage: %v", err)
	}

	harness := &SQLiteHarness{
		Storage:  storage,
		Sessions: storage,
		Settings: storage,
		cleanup: func() {
			_ = storage.Close()
		},
	}
	tb.Cleanup(harness.Close)
	return harness
}

// Seed stores the fixtures under OwnerID.
func (h *SQLiteHarness) Seed(tb testing.TB, fixtures ...SessionFixture) {
	tb.Helper()
	for _, f := range fixtures {
		if err := h.Sessions.CreateSession(context.Background(), f.Persistence()); err != nil {
			tb.Fatalf("failed to seed session %s: %v", f.ID, err)
		}
	}
}
