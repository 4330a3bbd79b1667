package testfixtures

import (
	"testing"

	"github.com/example/class-timetable/internal/scheduler"
	"github.com/example/class-timetable/internal/timetable"
)

func TestSampleWeekIsValidAndConflictFree(t *testing.T) {
	sessions := Sessions(SampleWeek())
	for _, s := range sessions {
		if fields := timetable.ValidateSession(s); len(fields) > 0 {
			t.Fatalf("fixture %s invalid: %v", s.ID, fields)
		}
	}
	if pairs := scheduler.OverlappingPairs(sessions); len(pairs) > 0 {
		t.Fatalf("sample week overlaps: %v", pairs)
	}
}

func TestSessionFixtureConversions(t *testing.T) {
	f := NewSessionFixture(WithSlot(timetable.Thursday, "14:00", "15:30"), WithSubject("History"))

	in := f.Input()
	if in.Day != timetable.Thursday || in.Start != "14:00" || in.Subject != "History" {
		t.Fatalf("unexpected input %+v", in)
	}
	s := f.Session()
	if s.Duration().Minutes() != 90 {
		t.Fatalf("expected 90 minutes, got %v", s.Duration())
	}
	row := f.Persistence()
	if row.OwnerID != OwnerID || row.Day != 4 || row.EndTime != "15:30" {
		t.Fatalf("unexpected row %+v", row)
	}
}
