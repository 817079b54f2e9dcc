package app

import (
	"github.com/calendarplan/calendarplan/internal/config"
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Assistant
	r.HandleFunc("/api/assistant/message", deps.AssistantHandler.SendMessage).Methods("POST")
	r.HandleFunc("/api/assistant/message", deps.AssistantHandler.GetMessages).Methods("GET")
	r.HandleFunc("/api/assistant/speech", deps.AssistantHandler.GetSpeechSettings).Methods("GET")

	// Timeline
	r.HandleFunc("/api/timeline/event", deps.TimelineHandler.GetEvents).Methods("GET")
	r.HandleFunc("/api/timeline/event", deps.TimelineHandler.CreateEvent).Methods("POST")
	r.HandleFunc("/api/timeline/event/{eventId}", deps.TimelineHandler.UpdateEvent).Methods("PUT")
	r.HandleFunc("/api/timeline/event/{eventId}", deps.TimelineHandler.DeleteEvent).Methods("DELETE")
	r.HandleFunc("/api/timeline/event/{eventId}/completed", deps.TimelineHandler.MarkCompleted).Methods("PATCH")
	r.HandleFunc("/api/timeline/reload", deps.TimelineHandler.Reload).Methods("POST")
	r.HandleFunc("/api/timeline/export.ics", deps.TimelineHandler.ExportICS).Methods("GET")

	// Both views merged
	r.HandleFunc("/api/calendar/event", deps.CalendarHandler.GetEvents).Methods("GET")

	// Stats
	r.HandleFunc("/api/stats", deps.StatsHandler.GetStats).Methods("GET")
}
