package persistence_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/class-timetable/internal/persistence"
	"github.com/example/class-timetable/internal/testfixtures"
	"github.com/example/class-timetable/internal/timetable"
)

func TestSessionRepository(t *testing.T) {
	t.Parallel()

	t.Run("round trips the sample week", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		harness := testfixtures.NewSQLiteHarness(t)
		week := testfixtures.SampleWeek()
		harness.Seed(t, week...)

		stored, err := harness.Sessions.ListSessions(ctx, testfixtures.OwnerID)
		if err != nil {
			t.Fatalf("ListSessions failed: %v", err)
		}
		if len(stored) != len(week) {
			t.Fatalf("expected %d sessions, got %d", len(week), len(stored))
		}
		for i := 1; i < len(stored); i++ {
			prev, cur := stored[i-1], stored[i]
			if prev.Day > cur.Day || (prev.Day == cur.Day && prev.StartTime > cur.StartTime) {
				t.Fatalf("sessions not ordered by day and start: %v then %v", prev, cur)
			}
		}
	})

	t.Run("reports missing sessions", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		harness := testfixtures.NewSQLiteHarness(t)

		if _, err := harness.Sessions.GetSession(ctx, testfixtures.OwnerID, "missing"); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if err := harness.Sessions.DeleteSession(ctx, testfixtures.OwnerID, "missing"); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected ErrNotFound on delete, got %v", err)
		}
		row := testfixtures.NewSessionFixture().Persistence()
		if err := harness.Sessions.UpdateSession(ctx, row); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected ErrNotFound on update, got %v", err)
		}
	})

	t.Run("rejects duplicates", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		harness := testfixtures.NewSQLiteHarness(t)
		fixture := testfixtures.NewSessionFixture(testfixtures.WithSlot(timetable.Friday, "10:00", "11:00"))
		harness.Seed(t, fixture)

		if err := harness.Sessions.CreateSession(ctx, fixture.Persistence()); !errors.Is(err, persistence.ErrDuplicate) {
			t.Fatalf("expected ErrDuplicate, got %v", err)
		}
	})
}

func TestSettingsRepository(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	harness := testfixtures.NewSQLiteHarness(t)

	if _, err := harness.Settings.GetReminderSettings(ctx, testfixtures.OwnerID); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound before first save, got %v", err)
	}

	saved := persistence.ReminderSettings{
		OwnerID:     testfixtures.OwnerID,
		Enabled:     true,
		LeadMinutes: 10,
		UpdatedAt:   testfixtures.ReferenceMonday().Add(time.Hour),
	}
	if err := harness.Settings.UpsertReminderSettings(ctx, saved); err != nil {
		t.Fatalf("UpsertReminderSettings failed: %v", err)
	}

	got, err := harness.Settings.GetReminderSettings(ctx, testfixtures.OwnerID)
	if err != nil {
		t.Fatalf("GetReminderSettings failed: %v", err)
	}
	if !got.Enabled || got.LeadMinutes != 10 || !got.UpdatedAt.Equal(saved.UpdatedAt) {
		t.Fatalf("unexpected settings %+v", got)
	}
}
