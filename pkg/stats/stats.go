package stats

import (
	"time"

	"github.com/calendarplan/calendarplan/pkg/calendar"
)

// Priorities lists the priorities in report order.
var Priorities = []calendar.Priority{calendar.PriorityHigh, calendar.PriorityMedium, calendar.PriorityLow}

type PriorityStats struct {
	Priority  calendar.Priority
	Events    int
	Completed int
	Duration  time.Duration
}

type DailyStats struct {
	Date       time.Time
	Priorities []PriorityStats
	TotalTime  time.Duration
}

type StatsSummary struct {
	StartDate  time.Time
	EndDate    time.Time
	Days       []DailyStats
	Priorities []PriorityStats
	TotalTime  time.Duration
	Events     int
	Completed  int
}

func emptyPriorities() []PriorityStats {
	out := make([]PriorityStats, len(Priorities))
	for i, p := range Priorities {
		out[i] = PriorityStats{Priority: p}
	}
	return out
}

func priorityIndex(p calendar.Priority) int {
	for i, known := range Priorities {
		if known == p {
			return i
		}
	}
	// unknown priorities are reported as MEDIUM
	return 1
}
