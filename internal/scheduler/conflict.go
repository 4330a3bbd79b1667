// Package scheduler contains the pure timetable algorithms: conflict
// detection, current/next resolution, reminder windows and statistics. Every
// function takes the instant it reasons about as a parameter.
package scheduler

import (
	"sort"

	"github.com/example/class-timetable/internal/timetable"
)

// Overlaps reports whether two sessions share a day and their half-open
// [start, end) intervals intersect. Back-to-back sessions do not overlap.
func Overlaps(a, b timetable.Session) bool {
	if a.Day != b.Day {
		return false
	}
	return a.Start < b.End && b.Start < a.End
}

// HasConflict reports whether candidate overlaps any session in existing,
// ignoring the session whose ID equals excludeID.
func HasConflict(candidate timetable.Session, existing []timetable.Session, excludeID string) bool {
	for _, other := range existing {
		if excludeID != "" && other.ID == excludeID {
			continue
		}
		if Overlaps(candidate, other) {
			return true
		}
	}
	return false
}

// Conflicts returns the sorted IDs of every session in existing that overlaps
// candidate, ignoring excludeID. It returns nil when there is no conflict.
func Conflicts(candidate timetable.Session, existing []timetable.Session, excludeID string) []string {
	var ids []string
	for _, other := range existing {
		if excludeID != "" && other.ID == excludeID {
			continue
		}
		if Overlaps(candidate, other) {
			ids = append(ids, other.ID)
		}
	}
	sort.Strings(ids)
	return ids
}

// OverlappingPairs lists every overlapping pair within sessions. A valid
// timetable yields none; loaders use it to reject inconsistent seed data.
func OverlappingPairs(sessions []timetable.Session) [][2]string {
	ordered := SortByDayAndStart(sessions)
	var pairs [][2]string
	for i := range ordered {
		for j := i + 1; j < len(ordered); j++ {
			if ordered[j].Day != ordered[i].Day || ordered[j].Start >= ordered[i].End {
				break
			}
			pairs = append(pairs, [2]string{ordered[i].ID, ordered[j].ID})
		}
	}
	return pairs
}

// SortByDayAndStart returns a copy of sessions ordered by day, start and ID.
func SortByDayAndStart(sessions []timetable.Session) []timetable.Session {
	out := make([]timetable.Session, len(sessions))
	copy(out, sessions)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Day != out[j].Day {
			return out[i].Day < out[j].Day
		}
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// OnDay returns the sessions held on day, ordered by start.
func OnDay(sessions []timetable.Session, day timetable.Day) []timetable.Session {
	out := make([]timetable.Session, 0)
	for _, s := range sessions {
		if s.Day == day {
			out = append(out, s)
		}
	}
	return SortByDayAndStart(out)
}
