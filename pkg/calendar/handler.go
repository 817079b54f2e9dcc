package calendar

import (
	"net/http"

	"github.com/calendarplan/calendarplan/internal/rest"
	log "github.com/sirupsen/logrus"
)

// Handler serves the combined view of the assistant and timeline projections.
type Handler struct {
	primary   *Projection
	secondary *Projection
}

func NewHandler(primary, secondary *Projection) *Handler {
	return &Handler{primary: primary, secondary: secondary}
}

// GetEvents godoc
// @Summary List all known events
// @Description Union of the assistant and timeline views by id; the assistant copy wins
// @Tags Calendar
// @Produce json
// @Success 200 {array} EventDTO
// @Router /api/calendar/event [get]
func (h *Handler) GetEvents(w http.ResponseWriter, r *http.Request) {
	log.Debug("Listing merged calendar events")
	merged := Merge(h.primary.Events(), h.secondary.Events())
	rest.WriteJSON(w, http.StatusOK, ToDTOs(merged))
}
