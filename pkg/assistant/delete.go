package assistant

import (
	"fmt"
	"strings"

	"github.com/calendarplan/calendarplan/pkg/calendar"
	log "github.com/sirupsen/logrus"
)

const unknownDeleteTarget = "I couldn't find which event you want to delete. Could you specify the event name?"

// HandleUnstructuredDelete picks the first known event whose title appears in
// text as the DELETE target. Without a match the user is asked which event.
func HandleUnstructuredDelete(text string, known []calendar.Event) ParsedAction {
	lower := strings.ToLower(text)
	for _, e := range known {
		title := strings.TrimSpace(e.Title)
		if title == "" || !strings.Contains(lower, strings.ToLower(title)) {
			continue
		}
		log.Debugf("Found event to delete by title: %s", e.Title)
		target := e
		return ParsedAction{
			Narrative:      fmt.Sprintf("I'll delete the event '%s' for you.", e.Title),
			Kind:           KindDelete,
			Event:          &target,
			ReadyForCommit: true,
		}
	}
	return ParsedAction{Narrative: unknownDeleteTarget, Kind: KindNone}
}
