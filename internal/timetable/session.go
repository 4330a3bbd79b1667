// Package timetable holds the domain model of a recurring school week: days,
// wall-clock times, class sessions and reminder settings.
package timetable

import (
	"fmt"
	"time"
)

// SessionType classifies a session. It is informational only.
type SessionType string

const (
	SessionLecture   SessionType = "lecture"
	SessionPractical SessionType = "practical"
	SessionTutorial  SessionType = "tutorial"
	SessionExam      SessionType = "exam"
)

// SessionTypes lists the accepted session types.
func SessionTypes() []SessionType {
	return []SessionType{SessionLecture, SessionPractical, SessionTutorial, SessionExam}
}

// Valid reports whether t is one of the known session types.
func (t SessionType) Valid() bool {
	switch t {
	case SessionLecture, SessionPractical, SessionTutorial, SessionExam:
		return true
	}
	return false
}

// Session is one weekly class occurrence owned by an instructor or a class.
type Session struct {
	ID           string
	Day          Day
	Start        TimeOfDay
	End          TimeOfDay
	Subject      string
	ClassName    string
	Room         string
	Participants int
	Type         SessionType
}

// Duration is always derived from the time bounds.
func (s Session) Duration() time.Duration {
	return (s.End - s.Start).Offset()
}

// Span renders the session bounds as "HH:MM-HH:MM".
func (s Session) Span() string {
	return fmt.Sprintf("%s-%s", s.Start, s.End)
}

// SessionInput carries caller supplied fields for creating or replacing a
// session. Times are "HH:MM" strings as entered in a form.
type SessionInput struct {
	Day          Day         `json:"day" validate:"min=1,max=6"`
	Start        string      `json:"start" validate:"required,clock"`
	End          string      `json:"end" validate:"required,clock"`
	Subject      string      `json:"subject" validate:"required,max=120"`
	ClassName    string      `json:"class_name" validate:"max=120"`
	Room         string      `json:"room" validate:"max=60"`
	Participants int         `json:"participants" validate:"gte=0,lte=10000"`
	Type         SessionType `json:"type" validate:"omitempty,oneof=lecture practical tutorial exam"`
}

// InputFrom converts an existing session back into an input, e.g. to apply a
// partial change on top of it.
func InputFrom(s Session) SessionInput {
	return SessionInput{
		Day:          s.Day,
		Start:        s.Start.String(),
		End:          s.End.String(),
		Subject:      s.Subject,
		ClassName:    s.ClassName,
		Room:         s.Room,
		Participants: s.Participants,
		Type:         s.Type,
	}
}

// Session parses the input into a session with the given id. It does not
// check the start/end ordering; callers report that separately.
func (in SessionInput) Session(id string) (Session, error) {
	start, err := ParseTimeOfDay(in.Start)
	if err != nil {
		return Session{}, fmt.Errorf("start: %w", err)
	}
	end, err := ParseTimeOfDay(in.End)
	if err != nil {
		return Session{}, fmt.Errorf("end: %w", err)
	}
	typ := in.Type
	if typ == "" {
		typ = SessionLecture
	}
	return Session{
		ID:           id,
		Day:          in.Day,
		Start:        start,
		End:          end,
		Subject:      in.Subject,
		ClassName:    in.ClassName,
		Room:         in.Room,
		Participants: in.Participants,
		Type:         typ,
	}, nil
}

// LeadMinuteOptions are the reminder lead times a user may pick.
var LeadMinuteOptions = []int{5, 10, 15, 30}

// ReminderSettings controls reminder dispatch for one user.
type ReminderSettings struct {
	Enabled     bool `json:"enabled"`
	LeadMinutes int  `json:"lead_minutes" validate:"oneof=5 10 15 30"`
}

// DefaultReminderSettings is used when nothing has been persisted yet.
func DefaultReminderSettings() ReminderSettings {
	return ReminderSettings{Enabled: true, LeadMinutes: 15}
}

// Lead returns the lead time as a duration.
func (r ReminderSettings) Lead() time.Duration {
	return time.Duration(r.LeadMinutes) * time.Minute
}
