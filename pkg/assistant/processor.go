package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/calendarplan/calendarplan/pkg/calendar"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const confirmationTimeLayout = "Monday, January 2 at 3:04 PM"

// Outcome is the result of applying one action to a view.
type Outcome struct {
	// Events is the view's collection after the action.
	Events []calendar.Event
	// Changed is true when a new collection was committed.
	Changed bool
	// Missing is true when an EDIT or DELETE target was not found.
	Missing bool
	// Confirmation is shown after the narrative; empty when none is needed.
	Confirmation string
}

// Processor applies parsed actions to a projection.
type Processor struct {
	newID func() string
}

func NewProcessor() *Processor {
	return &Processor{newID: uuid.NewString}
}

// Apply mutates view according to action. The returned error is a persistence
// failure only: the view already holds the new collection and the outcome is
// complete.
func (p *Processor) Apply(ctx context.Context, action ParsedAction, view *calendar.Projection) (Outcome, error) {
	switch action.Kind {
	case KindAdd:
		return p.add(ctx, action, view)
	case KindEdit:
		return p.edit(ctx, action, view)
	case KindDelete:
		return p.delete(ctx, action, view)
	default:
		return Outcome{Events: view.Events()}, nil
	}
}

func (p *Processor) add(ctx context.Context, action ParsedAction, view *calendar.Projection) (Outcome, error) {
	events := view.Events()
	if !action.ReadyForCommit || action.Event == nil {
		return Outcome{Events: events}, nil
	}
	event := action.Event.WithDefaults()
	if strings.TrimSpace(event.ID) == "" {
		event.ID = p.newID()
	} else if _, taken := calendar.Find(events, event.ID); taken {
		// an ADD never overwrites; the model may echo an id from the prompt
		fresh := p.newID()
		log.Warnf("Added event reuses existing id %s, assigning %s", event.ID, fresh)
		event.ID = fresh
	}
	events = append(events, event)
	log.Infof("Adding event %s (%s) at %s", event.ID, event.Title, calendar.FormatDateTime(event.StartTime))

	out := Outcome{Events: events, Changed: true}
	if !containsAny(action.Narrative, "added", "created") {
		out.Confirmation = fmt.Sprintf("I've added '%s' to your calendar for %s.",
			event.Title, event.StartTime.Format(confirmationTimeLayout))
	}
	return out, view.Commit(ctx, events)
}

func (p *Processor) edit(ctx context.Context, action ParsedAction, view *calendar.Projection) (Outcome, error) {
	events := view.Events()
	if action.Event == nil {
		return Outcome{Events: events}, nil
	}
	updated := action.Event.WithDefaults()
	out := Outcome{Events: events}
	if !containsAny(action.Narrative, "updated", "edited", "changed") {
		out.Confirmation = fmt.Sprintf("Event '%s' has been updated", updated.Title)
	}

	replaced, found := calendar.Replace(events, updated)
	if !found {
		log.Warnf("Edit target %q (%s) not found, nothing changed", updated.ID, updated.Title)
		out.Missing = true
		return out, nil
	}
	out.Events, out.Changed = replaced, true
	log.Infof("Updating event %s (%s)", updated.ID, updated.Title)
	return out, view.Commit(ctx, replaced)
}

// delete works on the union of the view and the store, since either may hold
// events the other has not seen yet.
func (p *Processor) delete(ctx context.Context, action ParsedAction, view *calendar.Projection) (Outcome, error) {
	cached := view.Events()
	if action.Event == nil {
		return Outcome{Events: cached}, nil
	}
	persisted, err := view.Persisted(ctx)
	if err != nil {
		log.Warnf("Could not read persisted events before delete, using cached view: %v", err)
	}
	candidates := calendar.Merge(cached, persisted)

	title := action.Event.Title
	if stored, ok := calendar.Find(candidates, action.Event.ID); ok {
		title = stored.Title
	}
	out := Outcome{Events: cached}
	if !containsAny(action.Narrative, "deleted", "removed") {
		out.Confirmation = fmt.Sprintf("Event '%s' has been deleted from your calendar", title)
	}

	remaining, found := calendar.Remove(candidates, action.Event.ID)
	if !found {
		log.Warnf("Delete target %q (%s) not found in view or store, nothing changed", action.Event.ID, title)
		out.Missing = true
		return out, nil
	}
	out.Events, out.Changed = remaining, true
	log.Infof("Deleting event %s (%s)", action.Event.ID, title)
	return out, view.Commit(ctx, remaining)
}

func containsAny(text string, words ...string) bool {
	t := strings.ToLower(text)
	for _, w := range words {
		if strings.Contains(t, w) {
			return true
		}
	}
	return false
}
