package stats

import (
	"net/http"
	"time"

	"github.com/calendarplan/calendarplan/internal/rest"
	"github.com/calendarplan/calendarplan/pkg/calendar"
	log "github.com/sirupsen/logrus"
)

// defaultRange is used when the request names no toDate.
const defaultRange = 7 * 24 * time.Hour

type PriorityStatsDTO struct {
	Priority  string `json:"priority"`
	Events    int    `json:"events"`
	Completed int    `json:"completed"`
	Duration  int    `json:"duration"`
}

type DailyStatsDTO struct {
	Date       string             `json:"date"`
	Priorities []PriorityStatsDTO `json:"priorities"`
	TotalTime  int                `json:"totalTime"`
}

type StatsSummaryDTO struct {
	StartDate  string             `json:"startDate"`
	EndDate    string             `json:"endDate"`
	Days       []DailyStatsDTO    `json:"days"`
	Priorities []PriorityStatsDTO `json:"priorities"`
	TotalTime  int                `json:"totalTime"`
	Events     int                `json:"events"`
	Completed  int                `json:"completed"`
}

type StatsHandler struct {
	statsService     *StatsService
	csvStatsRenderer StatsRenderer
	coercer          calendar.Coercer
}

func NewStatsHandler(statsService *StatsService, csvStatsRenderer StatsRenderer, coercer calendar.Coercer) *StatsHandler {
	return &StatsHandler{statsService, csvStatsRenderer, coercer}
}

// GetStats godoc
// @Summary Scheduled time per day and priority
// @Description Durations are in seconds. Send "Accept: text/csv" for a spreadsheet-friendly rendering.
// @Tags Stats
// @Produce json
// @Produce text/csv
// @Param fromDate query string false "First day, YYYY-MM-DD (default today)"
// @Param toDate query string false "Day after the last one, YYYY-MM-DD (default a week after fromDate)"
// @Success 200 {object} StatsSummaryDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid date"
// @Router /api/stats [get]
func (handler *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	now := handler.coercer.Now()
	fromDate, ok := parseDate(w, r.URL.Query().Get("fromDate"), "fromDate", now)
	if !ok {
		return
	}
	toDate, ok := parseDate(w, r.URL.Query().Get("toDate"), "toDate", fromDate.Add(defaultRange))
	if !ok {
		return
	}
	if !toDate.After(fromDate) {
		rest.WriteError(w, http.StatusBadRequest, "Invalid date range", "toDate must be after fromDate")
		return
	}

	stats := handler.statsService.GetStats(fromDate, toDate)

	if r.Header.Get("Accept") == "text/csv" {
		csv, err := handler.csvStatsRenderer.RenderStats(stats)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(csv)); err != nil {
			log.Errorf("failed to write csv stats: %v", err)
		}
		return
	}
	rest.WriteJSON(w, http.StatusOK, convertToJsonResponse(stats))
}

func parseDate(w http.ResponseWriter, value, name string, fallback time.Time) (time.Time, bool) {
	if value == "" {
		return fallback, true
	}
	date, err := time.ParseInLocation(time.DateOnly, value, time.Local)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid "+name+" format", name+" must be in YYYY-MM-DD format")
		return time.Time{}, false
	}
	return date, true
}

func prioritiesToDTO(priorities []PriorityStats) []PriorityStatsDTO {
	out := make([]PriorityStatsDTO, 0, len(priorities))
	for _, ps := range priorities {
		out = append(out, PriorityStatsDTO{
			Priority:  string(ps.Priority),
			Events:    ps.Events,
			Completed: ps.Completed,
			Duration:  int(ps.Duration.Seconds()),
		})
	}
	return out
}

func convertToJsonResponse(stats StatsSummary) StatsSummaryDTO {
	days := make([]DailyStatsDTO, 0, len(stats.Days))
	for _, day := range stats.Days {
		days = append(days, DailyStatsDTO{
			Date:       day.Date.Format(time.DateOnly),
			Priorities: prioritiesToDTO(day.Priorities),
			TotalTime:  int(day.TotalTime.Seconds()),
		})
	}
	return StatsSummaryDTO{
		StartDate:  stats.StartDate.Format(time.DateOnly),
		EndDate:    stats.EndDate.Format(time.DateOnly),
		Days:       days,
		Priorities: prioritiesToDTO(stats.Priorities),
		TotalTime:  int(stats.TotalTime.Seconds()),
		Events:     stats.Events,
		Completed:  stats.Completed,
	}
}
