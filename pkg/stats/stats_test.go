package stats

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/calendarplan/calendarplan/internal/utils"
	"github.com/calendarplan/calendarplan/pkg/calendar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type eventsStub []calendar.Event

func (s eventsStub) Events() []calendar.Event {
	return calendar.Clone(s)
}

func at(day, hour, minute int) time.Time {
	return time.Date(2025, 4, day, hour, minute, 0, 0, time.Local)
}

var testEvents = eventsStub{
	{ID: "1", Title: "Standup", StartTime: at(21, 9, 0), EndTime: at(21, 9, 30), Priority: calendar.PriorityHigh, IsCompleted: true},
	{ID: "2", Title: "Review", StartTime: at(21, 14, 0), EndTime: at(21, 16, 0), Priority: calendar.PriorityMedium},
	{ID: "3", Title: "Gym", StartTime: at(23, 18, 0), EndTime: at(23, 19, 0), Priority: calendar.PriorityLow},
	{ID: "4", Title: "Backwards", StartTime: at(23, 20, 0), EndTime: at(23, 19, 0), Priority: "URGENT"},
	{ID: "5", Title: "Out of range", StartTime: at(28, 9, 0), EndTime: at(28, 10, 0), Priority: calendar.PriorityHigh},
}

func TestStatsService_GetStats(t *testing.T) {
	service := NewStatsService(testEvents)

	stats := service.GetStats(at(21, 10, 0), at(24, 0, 0))

	assert.Equal(t, at(21, 0, 0), stats.StartDate)
	require.Len(t, stats.Days, 3)
	assert.Equal(t, 150*time.Minute, stats.Days[0].TotalTime)
	assert.Equal(t, time.Duration(0), stats.Days[1].TotalTime)
	assert.Equal(t, time.Hour, stats.Days[2].TotalTime)
	assert.Equal(t, 4, stats.Events)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 210*time.Minute, stats.TotalTime)

	assert.Equal(t, []PriorityStats{
		{Priority: calendar.PriorityHigh, Events: 1, Completed: 1, Duration: 30 * time.Minute},
		{Priority: calendar.PriorityMedium, Events: 2, Duration: 2 * time.Hour},
		{Priority: calendar.PriorityLow, Events: 1, Duration: time.Hour},
	}, stats.Priorities)
}

func TestCsvStatsRendererImpl_RenderStats(t *testing.T) {
	stats := NewStatsService(testEvents).GetStats(at(21, 0, 0), at(23, 0, 0))

	got, err := NewCsvStatsRenderer().RenderStats(stats)

	require.NoError(t, err)
	want := ",HIGH,MEDIUM,LOW,SUM\n" +
		"21/04/2025,00:30:00,02:00:00,00:00:00,02:30:00\n" +
		"22/04/2025,00:00:00,00:00:00,00:00:00,00:00:00\n" +
		"Total,00:30:00,02:00:00,00:00:00,02:30:00\n" +
		"Events,1,1,0,2\n" +
		"Completed,1,0,0,1\n"
	assert.Equal(t, want, got)
}

func TestDurationToString(t *testing.T) {
	testCases := []struct {
		in   time.Duration
		want string
	}{
		{0, "00:00:00"},
		{90 * time.Second, "00:01:30"},
		{25*time.Hour + 5*time.Minute, "25:05:00"},
	}
	for _, tc := range testCases {
		t.Run(tc.want, func(t *testing.T) {
			assert.Equal(t, tc.want, durationToString(tc.in))
		})
	}
}

func setupHandler() *StatsHandler {
	coercer := calendar.NewCoercer(utils.NewMockClock(at(21, 12, 0)))
	return NewStatsHandler(NewStatsService(testEvents), NewCsvStatsRenderer(), coercer)
}

func TestStatsHandler_GetStats(t *testing.T) {
	handler := setupHandler()

	testCases := []struct {
		name   string
		query  string
		status int
		days   int
		events int
	}{
		{name: "default week from today", query: "", status: http.StatusOK, days: 7, events: 4},
		{name: "explicit range", query: "?fromDate=2025-04-23&toDate=2025-04-24", status: http.StatusOK, days: 1, events: 2},
		{name: "invalid fromDate", query: "?fromDate=tomorrow", status: http.StatusBadRequest},
		{name: "invalid toDate", query: "?toDate=2025/04/30", status: http.StatusBadRequest},
		{name: "empty range", query: "?fromDate=2025-04-23&toDate=2025-04-23", status: http.StatusBadRequest},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/stats"+tc.query, nil)
			w := httptest.NewRecorder()

			handler.GetStats(w, req)

			require.Equal(t, tc.status, w.Code)
			if tc.status != http.StatusOK {
				return
			}
			var got StatsSummaryDTO
			require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
			assert.Len(t, got.Days, tc.days)
			assert.Equal(t, tc.events, got.Events)
		})
	}
}

func TestStatsHandler_GetStats_Csv(t *testing.T) {
	handler := setupHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/stats?fromDate=2025-04-21&toDate=2025-04-22", nil)
	req.Header.Set("Accept", "text/csv")
	w := httptest.NewRecorder()

	handler.GetStats(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), ",HIGH,MEDIUM,LOW,SUM\n21/04/2025,"))
}
