package stats

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
)

type StatsRenderer interface {
	RenderStats(stats StatsSummary) (string, error)
}

type CsvStatsRendererImpl struct {
}

func NewCsvStatsRenderer() *CsvStatsRendererImpl {
	return &CsvStatsRendererImpl{}
}

// RenderStats writes one row per day with the scheduled time of each priority,
// followed by the totals and the event counts.
func (t *CsvStatsRendererImpl) RenderStats(stats StatsSummary) (string, error) {
	header := make([]string, 0, len(Priorities)+2)
	header = append(header, "")
	for _, p := range Priorities {
		header = append(header, string(p))
	}
	header = append(header, "SUM")

	data := make([][]string, 0, len(stats.Days)+3)
	data = append(data, header)
	for _, day := range stats.Days {
		data = append(data, durationRow(day.Date.Format("02/01/2006"), day.Priorities, day.TotalTime))
	}
	data = append(data, durationRow("Total", stats.Priorities, stats.TotalTime))

	events := make([]string, 0, len(Priorities)+2)
	events = append(events, "Events")
	completed := make([]string, 0, len(Priorities)+2)
	completed = append(completed, "Completed")
	for _, ps := range stats.Priorities {
		events = append(events, strconv.Itoa(ps.Events))
		completed = append(completed, strconv.Itoa(ps.Completed))
	}
	events = append(events, strconv.Itoa(stats.Events))
	completed = append(completed, strconv.Itoa(stats.Completed))
	data = append(data, events, completed)

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	if err := writer.WriteAll(data); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}
	return b.String(), nil
}

func durationRow(label string, priorities []PriorityStats, total time.Duration) []string {
	row := make([]string, 0, len(priorities)+2)
	row = append(row, label)
	for _, ps := range priorities {
		row = append(row, durationToString(ps.Duration))
	}
	return append(row, durationToString(total))
}

func durationToString(duration time.Duration) string {
	hours := strconv.Itoa(int(duration.Hours()))
	if len(hours) == 1 {
		hours = "0" + hours
	}
	minutes := strconv.Itoa(int(duration.Minutes()) % 60)
	if len(minutes) == 1 {
		minutes = "0" + minutes
	}
	seconds := strconv.Itoa(int(duration.Seconds()) % 60)
	if len(seconds) == 1 {
		seconds = "0" + seconds
	}
	return hours + ":" + minutes + ":" + seconds
}
