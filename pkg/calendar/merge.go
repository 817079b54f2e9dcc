package calendar

import "strings"

// Merge returns the union of a and b by id. For an id present in both, the
// first occurrence wins, so a's copy is kept. Order is a's events followed by
// b's events not already seen.
func Merge(a, b []Event) []Event {
	seen := make(map[string]struct{}, len(a)+len(b))
	merged := make([]Event, 0, len(a)+len(b))
	for _, list := range [][]Event{a, b} {
		for _, e := range list {
			if _, ok := seen[e.ID]; ok {
				continue
			}
			seen[e.ID] = struct{}{}
			merged = append(merged, e)
		}
	}
	return merged
}

// Clone returns a copy of events that shares no backing array with it.
func Clone(events []Event) []Event {
	out := make([]Event, len(events))
	copy(out, events)
	return out
}

// Find returns the event with the given id.
func Find(events []Event, id string) (Event, bool) {
	for _, e := range events {
		if e.ID == id {
			return e, true
		}
	}
	return Event{}, false
}

// FindByTitle returns the first event whose title equals title, ignoring case.
func FindByTitle(events []Event, title string) (Event, bool) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Event{}, false
	}
	for _, e := range events {
		if strings.EqualFold(e.Title, title) {
			return e, true
		}
	}
	return Event{}, false
}

// Replace returns a copy of events with the event sharing updated's id swapped
// for updated. found is false when no event has that id.
func Replace(events []Event, updated Event) (out []Event, found bool) {
	out = make([]Event, len(events))
	for i, e := range events {
		if e.ID == updated.ID {
			out[i] = updated
			found = true
		} else {
			out[i] = e
		}
	}
	return out, found
}

// Remove returns a copy of events without the event with the given id.
func Remove(events []Event, id string) (out []Event, found bool) {
	out = make([]Event, 0, len(events))
	for _, e := range events {
		if e.ID == id {
			found = true
			continue
		}
		out = append(out, e)
	}
	return out, found
}
