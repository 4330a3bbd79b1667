// Package recurrence maps weekly sessions onto calendar-dated occurrences.
package recurrence

import (
	"errors"
	"sort"
	"time"

	"github.com/example/class-timetable/internal/timetable"
)

// DateLayout is the calendar date format used in occurrence keys.
const DateLayout = "2006-01-02"

// maxWindowDays bounds Expand so a bad range cannot allocate without limit.
const maxWindowDays = 366

// ErrInvalidWindow indicates the requested range is empty or reversed.
var ErrInvalidWindow = errors.New("recurrence: window end must be after start")

// ErrWindowTooLarge indicates the requested range exceeds maxWindowDays.
var ErrWindowTooLarge = errors.New("recurrence: window exceeds one year")

// Occurrence is a calendar-dated instance of a weekly session.
type Occurrence struct {
	SessionID string
	Date      string
	Start     time.Time
	End       time.Time
}

// DateKey formats t's calendar date.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// At builds the occurrence of s on the calendar date of date. The date's
// weekday is not checked.
func At(s timetable.Session, date time.Time) Occurrence {
	return Occurrence{
		SessionID: s.ID,
		Date:      DateKey(date),
		Start:     s.Start.On(date),
		End:       s.End.On(date),
	}
}

// Engine expands sessions in a fixed location.
type Engine struct {
	location *time.Location
}

// NewEngine returns an Engine for loc. A nil loc means time.Local.
func NewEngine(loc *time.Location) *Engine {
	if loc == nil {
		loc = time.Local
	}
	return &Engine{location: loc}
}

// Location returns the engine's location.
func (e *Engine) Location() *time.Location {
	if e == nil || e.location == nil {
		return time.Local
	}
	return e.location
}

// FirstOnOrAfter returns the first occurrence of s whose date is on or after
// the calendar date of t.
func (e *Engine) FirstOnOrAfter(s timetable.Session, t time.Time) Occurrence {
	day := timetable.StartOfDay(t.In(e.Location()))
	offset := (int(s.Day.Weekday()) - int(day.Weekday()) + 7) % 7
	return At(s, day.AddDate(0, 0, offset))
}

// Expand lists every occurrence overlapping [from, to), ordered by start.
func (e *Engine) Expand(sessions []timetable.Session, from, to time.Time) ([]Occurrence, error) {
	if !to.After(from) {
		return nil, ErrInvalidWindow
	}
	loc := e.Location()
	from = from.In(loc)
	to = to.In(loc)

	byWeekday := make(map[time.Weekday][]timetable.Session, timetable.DaysPerWeek)
	for _, s := range sessions {
		byWeekday[s.Day.Weekday()] = append(byWeekday[s.Day.Weekday()], s)
	}

	occurrences := make([]Occurrence, 0)
	day := timetable.StartOfDay(from)
	for i := 0; day.Before(to); i++ {
		if i > maxWindowDays {
			return nil, ErrWindowTooLarge
		}
		for _, s := range byWeekday[day.Weekday()] {
			occ := At(s, day)
			if occ.End.After(from) && occ.Start.Before(to) {
				occurrences = append(occurrences, occ)
			}
		}
		day = day.AddDate(0, 0, 1)
	}

	sort.SliceStable(occurrences, func(i, j int) bool {
		if occurrences[i].Start.Equal(occurrences[j].Start) {
			return occurrences[i].SessionID < occurrences[j].SessionID
		}
		return occurrences[i].Start.Before(occurrences[j].Start)
	})
	return occurrences, nil
}

// WeekOf returns the Monday-start week containing t.
func (e *Engine) WeekOf(t time.Time) (time.Time, time.Time) {
	start := timetable.StartOfDay(t.In(e.Location()))
	offset := (int(start.Weekday()) + 6) % 7
	start = start.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 7)
}
