// Package export renders the timetable for other programs: an iCalendar feed
// with one weekly recurring event per session, and a JSON statistics report.
package export

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/emersion/go-ical"
	"github.com/teambition/rrule-go"

	"github.com/example/class-timetable/internal/recurrence"
	"github.com/example/class-timetable/internal/timetable"
)

// ProductID identifies the generator in exported calendars.
const ProductID = "-//class-timetable//Weekly Timetable//EN"

// UIDDomain is appended to session ids to form globally unique event UIDs.
const UIDDomain = "class-timetable"

var byDay = map[timetable.Day]rrule.Weekday{
	timetable.Monday:    rrule.MO,
	timetable.Tuesday:   rrule.TU,
	timetable.Wednesday: rrule.WE,
	timetable.Thursday:  rrule.TH,
	timetable.Friday:    rrule.FR,
	timetable.Saturday:  rrule.SA,
}

// CalendarOptions controls the exported calendar.
type CalendarOptions struct {
	// Name is written as the calendar display name when set.
	Name string
	// From anchors each event's DTSTART on the first occurrence on or after it.
	From time.Time
	// Stamp is written as DTSTAMP on every event.
	Stamp time.Time
}

// WeeklyRule returns the RRULE value repeating a session every week on its day.
func WeeklyRule(day timetable.Day) (string, error) {
	wd, ok := byDay[day]
	if !ok {
		return "", fmt.Errorf("export: no weekly rule for %s", day)
	}
	opt := rrule.ROption{
		Freq:      rrule.WEEKLY,
		Byweekday: []rrule.Weekday{wd},
	}
	return opt.RRuleString(), nil
}

// Calendar builds a VCALENDAR with one recurring VEVENT per session.
func Calendar(engine *recurrence.Engine, sessions []timetable.Session, opts CalendarOptions) (*ical.Calendar, error) {
	if engine == nil {
		engine = recurrence.NewEngine(nil)
	}
	if opts.Stamp.IsZero() {
		opts.Stamp = time.Now()
	}
	if opts.From.IsZero() {
		opts.From = opts.Stamp
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, ProductID)
	if opts.Name != "" {
		cal.Props.SetText(ical.PropName, opts.Name)
	}

	for _, s := range sessions {
		event, err := sessionEvent(engine, s, opts)
		if err != nil {
			return nil, err
		}
		cal.Children = append(cal.Children, event.Component)
	}
	return cal, nil
}

func sessionEvent(engine *recurrence.Engine, s timetable.Session, opts CalendarOptions) (*ical.Event, error) {
	rule, err := WeeklyRule(s.Day)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", s.ID, err)
	}
	first := engine.FirstOnOrAfter(s, opts.From)

	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, s.ID+"@"+UIDDomain)
	event.Props.SetDateTime(ical.PropDateTimeStamp, opts.Stamp.UTC())
	event.Props.SetDateTime(ical.PropDateTimeStart, first.Start)
	event.Props.SetDateTime(ical.PropDateTimeEnd, first.End)
	event.Props.SetText(ical.PropSummary, s.Subject)
	if s.Room != "" {
		event.Props.SetText(ical.PropLocation, s.Room)
	}
	event.Props.SetText(ical.PropDescription, describe(s))
	event.Props.SetText(ical.PropCategories, string(s.Type))

	// RRULE values are not TEXT and must not be escaped.
	rrProp := ical.NewProp(ical.PropRecurrenceRule)
	rrProp.Value = rule
	event.Props.Set(rrProp)

	return event, nil
}

func describe(s timetable.Session) string {
	var buf bytes.Buffer
	if s.ClassName != "" {
		buf.WriteString("Class: " + s.ClassName + "\n")
	}
	buf.WriteString("Type: " + string(s.Type) + "\n")
	buf.WriteString("Participants: " + strconv.Itoa(s.Participants))
	return buf.String()
}

// WriteICS encodes the calendar as text/calendar.
func WriteICS(w io.Writer, cal *ical.Calendar) error {
	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}
	return nil
}
