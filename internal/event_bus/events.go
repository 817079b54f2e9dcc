package event_bus

// EventsChangedType is published after every successful write of the persisted
// event collection.
const EventsChangedType EventType = "calendar.events.changed"

// EventsChanged describes a completed write. Receivers reload from the store;
// the payload is informational only.
type EventsChanged struct {
	// Origin names the projection that committed the write.
	Origin string
	Count  int
}
