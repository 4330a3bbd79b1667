package scheduler

import (
	"time"

	"github.com/samber/mo"

	"github.com/example/class-timetable/internal/recurrence"
	"github.com/example/class-timetable/internal/timetable"
)

// maxDaySteps bounds the forward search for the next session: six steps from
// any weekday reach the same weekday of the following week.
const maxDaySteps = timetable.DaysPerWeek

// CurrentSession returns the session in progress at now, if any. A session is
// in progress when start <= now < end on today's school day.
func CurrentSession(sessions []timetable.Session, now time.Time) mo.Option[timetable.Session] {
	today, ok := timetable.DayOf(now)
	if !ok {
		return mo.None[timetable.Session]()
	}
	elapsed := timetable.Elapsed(now)
	for _, s := range OnDay(sessions, today) {
		if s.Start.Offset() <= elapsed && elapsed < s.End.Offset() {
			return mo.Some(s)
		}
	}
	return mo.None[timetable.Session]()
}

// NextSession returns the next session to start after now.
func NextSession(sessions []timetable.Session, now time.Time) mo.Option[timetable.Session] {
	occ, ok := NextOccurrence(sessions, now).Get()
	if !ok {
		return mo.None[timetable.Session]()
	}
	for _, s := range sessions {
		if s.ID == occ.SessionID {
			return mo.Some(s)
		}
	}
	return mo.None[timetable.Session]()
}

// NextOccurrence returns the dated occurrence of the next session to start
// after now. Later sessions today win; otherwise the search walks forward one
// school day at a time, wrapping Saturday to Monday, for at most six steps.
// The session in progress at now is never returned.
func NextOccurrence(sessions []timetable.Session, now time.Time) mo.Option[recurrence.Occurrence] {
	if len(sessions) == 0 {
		return mo.None[recurrence.Occurrence]()
	}

	var currentID string
	if current, ok := CurrentSession(sessions, now).Get(); ok {
		currentID = current.ID
	}

	if today, ok := timetable.DayOf(now); ok {
		elapsed := timetable.Elapsed(now)
		for _, s := range OnDay(sessions, today) {
			if s.Start.Offset() > elapsed {
				return mo.Some(recurrence.At(s, now))
			}
		}
	}

	weekday := now.Weekday()
	ahead := 0
	for step := 0; step < maxDaySteps; step++ {
		weekday, ahead = (weekday+1)%7, ahead+1
		if weekday == time.Sunday {
			weekday, ahead = time.Monday, ahead+1
		}
		for _, s := range OnDay(sessions, timetable.Day(weekday)) {
			if s.ID == currentID {
				continue
			}
			return mo.Some(recurrence.At(s, now.AddDate(0, 0, ahead)))
		}
	}
	return mo.None[recurrence.Occurrence]()
}
