package timetable

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Day identifies a school day within the recurring week. Monday is 1 and
// Saturday is 6; the week has no Sunday sessions.
type Day int

const (
	Monday Day = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// DaysPerWeek is the number of school days in the recurring week.
const DaysPerWeek = 6

// Days lists every school day in week order.
func Days() []Day {
	return []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}
}

// Valid reports whether d is one of Monday through Saturday.
func (d Day) Valid() bool {
	return d >= Monday && d <= Saturday
}

// Weekday converts d to the standard library weekday.
func (d Day) Weekday() time.Weekday {
	return time.Weekday(d)
}

func (d Day) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Day(%d)", int(d))
	}
	return d.Weekday().String()
}

// DayOf returns the school day t falls on. ok is false on Sundays.
func DayOf(t time.Time) (Day, bool) {
	wd := t.Weekday()
	if wd == time.Sunday {
		return 0, false
	}
	return Day(wd), true
}

// ParseDay accepts a day number ("1".."6") or an English weekday name.
func ParseDay(value string) (Day, error) {
	value = strings.TrimSpace(value)
	if n, err := strconv.Atoi(value); err == nil {
		d := Day(n)
		if !d.Valid() {
			return 0, fmt.Errorf("timetable: day %d out of range", n)
		}
		return d, nil
	}
	for _, d := range Days() {
		name := d.String()
		if strings.EqualFold(value, name) || strings.EqualFold(value, name[:3]) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("timetable: unknown day %q", value)
}

// TimeOfDay is a wall-clock time with minute precision, stored as minutes
// since midnight.
type TimeOfDay int

// MaxTimeOfDay is the last representable minute of a day (23:59).
const MaxTimeOfDay TimeOfDay = 24*60 - 1

// ErrInvalidTimeOfDay is returned for values that are not HH:MM within a day.
var ErrInvalidTimeOfDay = errors.New("timetable: time of day must be HH:MM between 00:00 and 23:59")

// Clock builds a TimeOfDay from hours and minutes.
func Clock(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// ParseTimeOfDay parses an "HH:MM" value.
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(value), ":")
	if !ok || len(hh) == 0 || len(hh) > 2 || len(mm) != 2 || !digits(hh) || !digits(mm) {
		return 0, ErrInvalidTimeOfDay
	}
	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 23 {
		return 0, ErrInvalidTimeOfDay
	}
	minute, err := strconv.Atoi(mm)
	if err != nil || minute < 0 || minute > 59 {
		return 0, ErrInvalidTimeOfDay
	}
	return Clock(hour, minute), nil
}

func digits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// MustParseTimeOfDay is ParseTimeOfDay for literals; it panics on bad input.
func MustParseTimeOfDay(value string) TimeOfDay {
	t, err := ParseTimeOfDay(value)
	if err != nil {
		panic(err)
	}
	return t
}

// Valid reports whether t falls within a single day.
func (t TimeOfDay) Valid() bool {
	return t >= 0 && t <= MaxTimeOfDay
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

// Offset is the duration from midnight to t.
func (t TimeOfDay) Offset() time.Duration {
	return time.Duration(t) * time.Minute
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Elapsed returns how far into its day t is, in t's own location.
func Elapsed(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(t.Nanosecond())
}

// StartOfDay returns midnight of t's calendar date in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// On places t on the calendar date of date, in date's location.
func (t TimeOfDay) On(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, date.Location())
}
