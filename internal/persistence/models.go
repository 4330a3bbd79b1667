package persistence

import "time"

// Session is a weekly timetable entry as stored. Times are "HH:MM" wall-clock
// strings; the duration is never stored.
type Session struct {
	ID           string
	OwnerID      string
	Day          int
	StartTime    string
	EndTime      string
	Subject      string
	ClassName    string
	Room         string
	Participants int
	Type         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ReminderSettings is the persisted reminder configuration of one owner.
type ReminderSettings struct {
	OwnerID     string
	Enabled     bool
	LeadMinutes int
	UpdatedAt   time.Time
}
