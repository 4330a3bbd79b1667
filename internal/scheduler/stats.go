package scheduler

import (
	"math"
	"time"

	"github.com/example/class-timetable/internal/timetable"
)

// Statistics is a read model of a week's sessions.
type Statistics struct {
	TotalWeeklyHours    float64                       `json:"total_weekly_hours"`
	TotalSessions       int                           `json:"total_sessions"`
	DistinctSubjects    int                           `json:"distinct_subjects"`
	AverageParticipants float64                       `json:"average_participants"`
	ActiveDays          int                           `json:"active_days"`
	PerDay              []DayLoad                     `json:"per_day"`
	PerType             map[timetable.SessionType]int `json:"per_type"`
}

// DayLoad summarises one active day.
type DayLoad struct {
	Day      timetable.Day `json:"day"`
	Sessions int           `json:"sessions"`
	Hours    float64       `json:"hours"`
}

// ComputeStatistics aggregates sessions. It never divides by zero: an empty
// week yields zero averages.
func ComputeStatistics(sessions []timetable.Session) Statistics {
	stats := Statistics{
		TotalSessions: len(sessions),
		PerDay:        []DayLoad{},
		PerType:       make(map[timetable.SessionType]int),
	}

	var (
		total        time.Duration
		participants int
		subjects     = make(map[string]struct{})
		perDay       = make(map[timetable.Day]*DayLoad)
		perDayTotals = make(map[timetable.Day]time.Duration)
	)
	for _, s := range sessions {
		total += s.Duration()
		participants += s.Participants
		subjects[s.Subject] = struct{}{}
		stats.PerType[s.Type]++

		load, ok := perDay[s.Day]
		if !ok {
			load = &DayLoad{Day: s.Day}
			perDay[s.Day] = load
		}
		load.Sessions++
		perDayTotals[s.Day] += s.Duration()
	}

	stats.TotalWeeklyHours = roundHours(total)
	stats.DistinctSubjects = len(subjects)
	stats.ActiveDays = len(perDay)
	if stats.TotalSessions > 0 {
		stats.AverageParticipants = float64(participants) / float64(stats.TotalSessions)
	}
	for _, day := range timetable.Days() {
		if load, ok := perDay[day]; ok {
			load.Hours = roundHours(perDayTotals[day])
			stats.PerDay = append(stats.PerDay, *load)
		}
	}
	return stats
}

func roundHours(d time.Duration) float64 {
	return math.Round(d.Hours()*10) / 10
}
