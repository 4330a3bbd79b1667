package scheduler

import (
	"time"

	"github.com/example/class-timetable/internal/timetable"
)

// DueReminders returns today's sessions whose reminder window contains now:
// start - lead <= now < start. A window that has already reached the session
// start is closed; late reminders are never produced.
func DueReminders(sessions []timetable.Session, now time.Time, lead time.Duration) []timetable.Session {
	today, ok := timetable.DayOf(now)
	if !ok || lead <= 0 {
		return nil
	}
	elapsed := timetable.Elapsed(now)

	var due []timetable.Session
	for _, s := range OnDay(sessions, today) {
		start := s.Start.Offset()
		if start-lead <= elapsed && elapsed < start {
			due = append(due, s)
		}
	}
	return due
}

// MinutesUntil rounds the time from now to the session start up to whole
// minutes, as shown in reminder text.
func MinutesUntil(s timetable.Session, now time.Time) int {
	remaining := s.Start.Offset() - timetable.Elapsed(now)
	if remaining <= 0 {
		return 0
	}
	return int((remaining + time.Minute - 1) / time.Minute)
}
