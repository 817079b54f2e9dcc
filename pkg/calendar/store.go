package calendar

import (
	"context"
	"errors"
	"fmt"

	"github.com/calendarplan/calendarplan/internal/event_bus"
	"github.com/calendarplan/calendarplan/pkg/blobstore"
	log "github.com/sirupsen/logrus"
)

// Store is the persisted event collection: one JSON blob under a fixed
// namespace and key. It owns the change notification that follows every write.
type Store struct {
	blobs     blobstore.Store
	namespace string
	key       string
	coercer   Coercer
	bus       *event_bus.EventBus
}

func NewStore(blobs blobstore.Store, namespace, key string, coercer Coercer, bus *event_bus.EventBus) *Store {
	return &Store{
		blobs:     blobs,
		namespace: namespace,
		key:       key,
		coercer:   coercer,
		bus:       bus,
	}
}

func (s *Store) Bus() *event_bus.EventBus {
	return s.bus
}

func (s *Store) Coercer() Coercer {
	return s.coercer
}

// Load reads the persisted collection. A missing blob is an empty collection.
func (s *Store) Load(ctx context.Context) ([]Event, error) {
	blob, err := s.blobs.Get(ctx, s.namespace, s.key)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return []Event{}, nil
		}
		return nil, fmt.Errorf("failed to load events: %w", err)
	}
	events, err := Decode(blob, s.coercer)
	if err != nil {
		log.Errorf("Error parsing persisted events: %v", err)
		return nil, err
	}
	return events, nil
}

// Save replaces the persisted collection and, once the write has completed,
// notifies subscribers. origin identifies the writer in the notification.
func (s *Store) Save(ctx context.Context, origin string, events []Event) error {
	blob, err := Encode(events)
	if err != nil {
		return err
	}
	if err := s.blobs.Put(ctx, s.namespace, s.key, blob); err != nil {
		return fmt.Errorf("failed to save events: %w", err)
	}
	log.Debugf("Saved %d events to %s/%s", len(events), s.namespace, s.key)

	if s.bus != nil {
		e := event_bus.NewEvent(context.WithoutCancel(ctx), event_bus.EventsChangedType, event_bus.EventsChanged{
			Origin: origin,
			Count:  len(events),
		})
		if err := s.bus.Publish(e); err != nil {
			log.Warnf("Events saved but change notification failed: %v", err)
		}
	}
	return nil
}
