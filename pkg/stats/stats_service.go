package stats

import (
	"time"

	"github.com/calendarplan/calendarplan/pkg/calendar"
	log "github.com/sirupsen/logrus"
)

// EventsReader is anything that can hand out a copy of the current collection.
type EventsReader interface {
	Events() []calendar.Event
}

type StatsService struct {
	events EventsReader
}

func NewStatsService(events EventsReader) *StatsService {
	return &StatsService{events: events}
}

// GetStats summarises scheduled time per day and priority for events starting
// in [from, to). Every day of the range is reported, including empty ones. An
// event counts towards the day it starts on.
func (s *StatsService) GetStats(from, to time.Time) StatsSummary {
	from = startOfDay(from)
	to = startOfDay(to)

	summary := StatsSummary{
		StartDate:  from,
		EndDate:    to,
		Days:       []DailyStats{},
		Priorities: emptyPriorities(),
	}
	dayIndex := map[time.Time]int{}
	for day := from; day.Before(to); day = day.AddDate(0, 0, 1) {
		dayIndex[day] = len(summary.Days)
		summary.Days = append(summary.Days, DailyStats{Date: day, Priorities: emptyPriorities()})
	}

	for _, e := range s.events.Events() {
		idx, ok := dayIndex[startOfDay(e.StartTime)]
		if !ok {
			continue
		}
		d := e.EndTime.Sub(e.StartTime)
		if d < 0 {
			d = 0
		}
		p := priorityIndex(e.Priority)

		day := &summary.Days[idx]
		add(&day.Priorities[p], d, e.IsCompleted)
		day.TotalTime += d

		add(&summary.Priorities[p], d, e.IsCompleted)
		summary.TotalTime += d
		summary.Events++
		if e.IsCompleted {
			summary.Completed++
		}
	}
	log.Tracef("Stats from %s to %s: %d events, %v scheduled", from.Format(time.DateOnly), to.Format(time.DateOnly), summary.Events, summary.TotalTime)
	return summary
}

func add(ps *PriorityStats, d time.Duration, completed bool) {
	ps.Events++
	ps.Duration += d
	if completed {
		ps.Completed++
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
