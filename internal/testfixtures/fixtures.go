package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/class-timetable/internal/persistence"
	"github.com/example/class-timetable/internal/timetable"
)

// OwnerID is the owner used by persistence fixtures.
const OwnerID = "owner-1"

var sessionCounter uint64

// referenceMonday is the Monday of the week all fixtures live in.
var referenceMonday = time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)

// ReferenceMonday returns midnight of the reference week's Monday.
func ReferenceMonday() time.Time {
	return referenceMonday
}

// At returns the instant at clock ("HH:MM") on the given school day of the
// reference week.
func At(day timetable.Day, clock string) time.Time {
	return timetable.MustParseTimeOfDay(clock).On(referenceMonday.AddDate(0, 0, int(day)-1))
}

// Sunday returns the instant at clock on the Sunday closing the reference week.
func Sunday(clock string) time.Time {
	return timetable.MustParseTimeOfDay(clock).On(referenceMonday.AddDate(0, 0, 6))
}

// SessionFixture is a deterministic session that can be materialised as an
// input, a domain value or a persistence row.
type SessionFixture struct {
	ID           string
	Day          timetable.Day
	Start        string
	End          string
	Subject      string
	ClassName    string
	Room         string
	Participants int
	Type         timetable.SessionType
}

// SessionOption configures the generated session fixture.
type SessionOption func(*SessionFixture)

// NewSessionFixture returns a Monday 09:00-10:00 lecture with a unique id.
func NewSessionFixture(opts ...SessionOption) SessionFixture {
	idx := atomic.AddUint64(&sessionCounter, 1)
	fixture := SessionFixture{
		ID:           fmt.Sprintf("fixture-%03d", idx),
		Day:          timetable.Monday,
		Start:        "09:00",
		End:          "10:00",
		Subject:      "Mathematics",
		ClassName:    "10A",
		Room:         "101",
		Participants: 25,
		Type:         timetable.SessionLecture,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithSessionID overrides the identifier.
func WithSessionID(id string) SessionOption {
	return func(f *SessionFixture) { f.ID = id }
}

// WithSlot places the session on a day and time range.
func WithSlot(day timetable.Day, start, end string) SessionOption {
	return func(f *SessionFixture) {
		f.Day, f.Start, f.End = day, start, end
	}
}

// WithSubject overrides the subject.
func WithSubject(subject string) SessionOption {
	return func(f *SessionFixture) { f.Subject = subject }
}

// WithClass overrides the class name and room.
func WithClass(className, room string) SessionOption {
	return func(f *SessionFixture) { f.ClassName, f.Room = className, room }
}

// WithParticipants overrides the participant count.
func WithParticipants(n int) SessionOption {
	return func(f *SessionFixture) { f.Participants = n }
}

// WithType overrides the session type.
func WithType(t timetable.SessionType) SessionOption {
	return func(f *SessionFixture) { f.Type = t }
}

// Input converts the fixture into a create/update input.
func (f SessionFixture) Input() timetable.SessionInput {
	return timetable.SessionInput{
		Day:          f.Day,
		Start:        f.Start,
		End:          f.End,
		Subject:      f.Subject,
		ClassName:    f.ClassName,
		Room:         f.Room,
		Participants: f.Participants,
		Type:         f.Type,
	}
}

// Session converts the fixture into a domain session.
func (f SessionFixture) Session() timetable.Session {
	return timetable.Session{
		ID:           f.ID,
		Day:          f.Day,
		Start:        timetable.MustParseTimeOfDay(f.Start),
		End:          timetable.MustParseTimeOfDay(f.End),
		Subject:      f.Subject,
		ClassName:    f.ClassName,
		Room:         f.Room,
		Participants: f.Participants,
		Type:         f.Type,
	}
}

// Persistence converts the fixture into a stored row owned by OwnerID.
func (f SessionFixture) Persistence() persistence.Session {
	return persistence.Session{
		ID:           f.ID,
		OwnerID:      OwnerID,
		Day:          int(f.Day),
		StartTime:    f.Start,
		EndTime:      f.End,
		Subject:      f.Subject,
		ClassName:    f.ClassName,
		Room:         f.Room,
		Participants: f.Participants,
		Type:         string(f.Type),
		CreatedAt:    referenceMonday,
		UpdatedAt:    referenceMonday,
	}
}

// SampleWeek returns a small conflict-free timetable: two back-to-back
// Monday classes, a Wednesday practical and a Saturday exam.
func SampleWeek() []SessionFixture {
	return []SessionFixture{
		NewSessionFixture(WithSessionID("mon-math"), WithSlot(timetable.Monday, "08:00", "09:00"),
			WithSubject("Mathematics"), WithParticipants(30)),
		NewSessionFixture(WithSessionID("mon-phys"), WithSlot(timetable.Monday, "09:00", "10:30"),
			WithSubject("Physics"), WithClass("10B", "Lab 1"), WithParticipants(20)),
		NewSessionFixture(WithSessionID("wed-chem"), WithSlot(timetable.Wednesday, "13:00", "15:00"),
			WithSubject("Chemistry"), WithType(timetable.SessionPractical), WithParticipants(10)),
		NewSessionFixture(WithSessionID("sat-exam"), WithSlot(timetable.Saturday, "10:00", "12:00"),
			WithSubject("Mathematics"), WithType(timetable.SessionExam), WithParticipants(40)),
	}
}

// Sessions materialises fixtures as domain sessions.
func Sessions(fixtures []SessionFixture) []timetable.Session {
	out := make([]timetable.Session, 0, len(fixtures))
	for _, f := range fixtures {
		out = append(out, f.Session())
	}
	return out
}
