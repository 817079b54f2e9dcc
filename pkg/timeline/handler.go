package timeline

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/calendarplan/calendarplan/internal/rest"
	"github.com/calendarplan/calendarplan/pkg/calendar"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	timeline *Timeline
	coercer  calendar.Coercer
}

func NewHandler(timeline *Timeline, coercer calendar.Coercer) *Handler {
	return &Handler{timeline: timeline, coercer: coercer}
}

// GetEvents godoc
// @Summary List timeline events
// @Tags Timeline
// @Produce json
// @Param filter query string false "all, today, upcoming or past"
// @Success 200 {array} calendar.EventDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid filter"
// @Router /api/timeline/event [get]
func (h *Handler) GetEvents(w http.ResponseWriter, r *http.Request) {
	mode, err := calendar.ParseFilterMode(r.URL.Query().Get("filter"))
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid filter", "'filter' must be one of all, today, upcoming, past")
		return
	}
	rest.WriteJSON(w, http.StatusOK, calendar.ToDTOs(h.timeline.Filtered(mode)))
}

// CreateEvent godoc
// @Summary Add an event
// @Description Adds the event; an event with an existing id replaces it
// @Tags Timeline
// @Accept json
// @Produce json
// @Param event body calendar.EventDTO true "Event"
// @Success 201 {object} calendar.EventDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Router /api/timeline/event [post]
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var dto calendar.EventDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	event := h.timeline.Add(r.Context(), calendar.FromDTO(dto, h.coercer))
	rest.WriteJSON(w, http.StatusCreated, calendar.ToDTO(event))
}

// UpdateEvent godoc
// @Summary Replace an event
// @Description Replaces the event with the given id, adding it when missing
// @Tags Timeline
// @Accept json
// @Produce json
// @Param eventId path string true "Event ID"
// @Param event body calendar.EventDTO true "Event"
// @Success 200 {object} calendar.EventDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Router /api/timeline/event/{eventId} [put]
func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var dto calendar.EventDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	dto.Id = mux.Vars(r)["eventId"]
	event := h.timeline.Update(r.Context(), calendar.FromDTO(dto, h.coercer))
	rest.WriteJSON(w, http.StatusOK, calendar.ToDTO(event))
}

// DeleteEvent godoc
// @Summary Delete an event
// @Tags Timeline
// @Param eventId path string true "Event ID"
// @Success 204
// @Failure 404 {object} rest.ErrorResponse "Event not found"
// @Router /api/timeline/event/{eventId} [delete]
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["eventId"]
	if err := h.timeline.Delete(r.Context(), id); err != nil {
		writeTimelineError(w, id, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MarkCompleted godoc
// @Summary Mark an event as completed
// @Tags Timeline
// @Produce json
// @Param eventId path string true "Event ID"
// @Success 200 {object} calendar.EventDTO
// @Failure 404 {object} rest.ErrorResponse "Event not found"
// @Router /api/timeline/event/{eventId}/completed [patch]
func (h *Handler) MarkCompleted(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["eventId"]
	event, err := h.timeline.MarkCompleted(r.Context(), id)
	if err != nil {
		writeTimelineError(w, id, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, calendar.ToDTO(event))
}

// Reload godoc
// @Summary Reload the timeline from the store
// @Tags Timeline
// @Produce json
// @Success 200 {array} calendar.EventDTO
// @Failure 500 {object} rest.ErrorResponse "Store unreadable"
// @Router /api/timeline/reload [post]
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	events, err := h.timeline.Reload(r.Context())
	if err != nil {
		log.Errorf("Timeline reload failed: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Failed to reload events", err.Error())
		return
	}
	rest.WriteJSON(w, http.StatusOK, calendar.ToDTOs(events))
}

// ExportICS godoc
// @Summary Export the timeline as iCalendar
// @Tags Timeline
// @Produce text/calendar
// @Success 200 {string} string "iCalendar document"
// @Router /api/timeline/export.ics [get]
func (h *Handler) ExportICS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="calendarplan.ics"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(h.timeline.ExportICS())); err != nil {
		log.Errorf("failed to write calendar export: %v", err)
	}
}

func writeTimelineError(w http.ResponseWriter, id string, err error) {
	if errors.Is(err, ErrEventNotFound) {
		rest.WriteError(w, http.StatusNotFound, "Event not found", "no event with id "+id)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
