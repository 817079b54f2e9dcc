package calendar

import (
	"strings"
	"time"
)

type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// ParsePriority matches s case-insensitively against the known priorities.
func ParsePriority(s string) (Priority, bool) {
	switch p := Priority(strings.ToUpper(strings.TrimSpace(s))); p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return p, true
	}
	return "", false
}

// PriorityOrDefault returns the parsed priority, or MEDIUM when s is blank or unknown.
func PriorityOrDefault(s string) Priority {
	if p, ok := ParsePriority(s); ok {
		return p
	}
	return PriorityMedium
}

// UntitledTitle is the placeholder given to events without a usable title.
const UntitledTitle = "Untitled Event"

var sentinelTitles = map[string]struct{}{
	"untitled event":   {},
	"event":            {},
	"new event":        {},
	"to be determined": {},
	"tbd":              {},
}

// IsSentinelTitle reports whether title is blank or a "not decided yet" placeholder.
func IsSentinelTitle(title string) bool {
	t := strings.ToLower(strings.TrimSpace(title))
	if t == "" {
		return true
	}
	_, ok := sentinelTitles[t]
	return ok
}

// DefaultDuration is used for events whose end time is absent or malformed.
const DefaultDuration = time.Hour

// Event is a calendar entry. Times are wall-clock values without time zone
// semantics. Events are never changed in place: updates replace the whole value.
type Event struct {
	ID          string
	Title       string
	Description string
	Location    string
	StartTime   time.Time
	EndTime     time.Time
	Priority    Priority
	IsCompleted bool
}

// WithDefaults fills in the documented defaults for missing fields.
func (e Event) WithDefaults() Event {
	if strings.TrimSpace(e.Title) == "" {
		e.Title = UntitledTitle
	}
	e.Priority = PriorityOrDefault(string(e.Priority))
	if e.EndTime.IsZero() && !e.StartTime.IsZero() {
		e.EndTime = e.StartTime.Add(DefaultDuration)
	}
	return e
}
