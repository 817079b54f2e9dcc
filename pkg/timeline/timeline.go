package timeline

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/calendarplan/calendarplan/pkg/calendar"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var ErrEventNotFound = errors.New("event not found")

// Timeline is the backend of the timeline screen: direct edits on its own
// projection of the collection. Mutations are serialised. A failed write is
// logged and the projection keeps the change until the next reload.
type Timeline struct {
	view *calendar.Projection

	mu sync.Mutex
}

func NewTimeline(view *calendar.Projection) *Timeline {
	return &Timeline{view: view}
}

func (t *Timeline) Events() []calendar.Event {
	return t.view.Events()
}

// Filtered returns the events visible in mode right now.
func (t *Timeline) Filtered(mode calendar.FilterMode) []calendar.Event {
	return calendar.Filter(t.view.Events(), mode, t.view.Coercer().Now())
}

// Add appends event, generating an id when it has none. An event whose id is
// already present replaces the existing one.
func (t *Timeline) Add(ctx context.Context, event calendar.Event) calendar.Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.upsert(ctx, event)
}

// Update replaces the event with the same id, adding it when it is missing.
func (t *Timeline) Update(ctx context.Context, event calendar.Event) calendar.Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.upsert(ctx, event)
}

func (t *Timeline) upsert(ctx context.Context, event calendar.Event) calendar.Event {
	event = event.WithDefaults()
	if strings.TrimSpace(event.ID) == "" {
		event.ID = uuid.NewString()
	}

	events, found := calendar.Replace(t.view.Events(), event)
	if found {
		log.Debugf("Event with ID %s already exists, updating", event.ID)
	} else {
		log.Debugf("Adding event %s (%s)", event.ID, event.Title)
		events = append(events, event)
	}
	t.commit(ctx, events)
	return event
}

func (t *Timeline) Delete(ctx context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	events, found := calendar.Remove(t.view.Events(), id)
	if !found {
		log.Warnf("Cannot delete event: event with ID %s not found", id)
		return ErrEventNotFound
	}
	t.commit(ctx, events)
	log.Debugf("Deleted event %s", id)
	return nil
}

func (t *Timeline) MarkCompleted(ctx context.Context, id string) (calendar.Event, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	events := t.view.Events()
	event, ok := calendar.Find(events, id)
	if !ok {
		return calendar.Event{}, ErrEventNotFound
	}
	event.IsCompleted = true
	events, _ = calendar.Replace(events, event)
	t.commit(ctx, events)
	log.Debugf("Marked event as completed: %s", id)
	return event, nil
}

// Reload re-reads the store into the timeline view.
func (t *Timeline) Reload(ctx context.Context) ([]calendar.Event, error) {
	if err := t.view.Reload(ctx); err != nil {
		return nil, err
	}
	return t.view.Events(), nil
}

// ExportICS renders the whole timeline as an iCalendar document.
func (t *Timeline) ExportICS() string {
	return calendar.ExportICS(t.view.Events(), t.view.Coercer().Now())
}

func (t *Timeline) commit(ctx context.Context, events []calendar.Event) {
	if err := t.view.Commit(ctx, events); err != nil {
		log.Warnf("Timeline change kept in memory only: %v", err)
	}
}
