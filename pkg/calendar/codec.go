package calendar

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

var ErrCorruptBlob = errors.New("persisted events are not a JSON array")

// record is the flat persisted shape of an Event.
type record struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Priority    string `json:"priority"`
	Location    string `json:"location"`
	IsCompleted bool   `json:"isCompleted"`
}

// Encode serialises events as a JSON array of records. Events without an id
// cannot be referenced later and are skipped.
func Encode(events []Event) (string, error) {
	records := make([]record, 0, len(events))
	for _, e := range events {
		if strings.TrimSpace(e.ID) == "" {
			log.Warnf("Skipping event with blank ID: %s", e.Title)
			continue
		}
		e = e.WithDefaults()
		records = append(records, record{
			ID:          e.ID,
			Title:       e.Title,
			Description: e.Description,
			StartTime:   FormatDateTime(e.StartTime),
			EndTime:     FormatDateTime(e.EndTime),
			Priority:    string(e.Priority),
			Location:    e.Location,
			IsCompleted: e.IsCompleted,
		})
	}
	b, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("failed to encode events: %w", err)
	}
	return string(b), nil
}

// Decode parses a blob written by Encode or by older writers using ISO-8601
// times. Fields are read leniently: a value of the wrong type falls back to
// its default instead of failing the record. A record that is not an object,
// or that has no id, is skipped.
func Decode(blob string, coercer Coercer) ([]Event, error) {
	blob = strings.TrimSpace(blob)
	if blob == "" {
		return []Event{}, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(blob), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptBlob, err)
	}

	events := make([]Event, 0, len(raw))
	for i, item := range raw {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(item, &fields); err != nil || fields == nil {
			log.Warnf("Skipping event %d: not an object", i)
			continue
		}
		id := optString(fields, "id")
		if strings.TrimSpace(id) == "" {
			log.Warnf("Skipping event %d with blank ID", i)
			continue
		}
		start := coercer.CoerceStart(optString(fields, "startTime"))
		events = append(events, Event{
			ID:          id,
			Title:       optString(fields, "title"),
			Description: optString(fields, "description"),
			Location:    optString(fields, "location"),
			StartTime:   start,
			EndTime:     coercer.CoerceEnd(optString(fields, "endTime"), start),
			Priority:    Priority(optString(fields, "priority")),
			IsCompleted: optBool(fields, "isCompleted"),
		}.WithDefaults())
	}
	log.Debugf("Decoded %d of %d persisted events", len(events), len(raw))
	return events, nil
}

// optString returns a string field, or the literal text of a number or
// boolean. Anything else reads as empty.
func optString(fields map[string]json.RawMessage, key string) string {
	value, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(value, &s); err == nil {
		return s
	}
	text := strings.TrimSpace(string(value))
	switch {
	case text == "true", text == "false":
		return text
	case text != "" && (text[0] == '-' || (text[0] >= '0' && text[0] <= '9')):
		return text
	}
	return ""
}

// optBool returns a boolean field, also accepting "true" or "false" as a
// string in any case. Anything else reads as false.
func optBool(fields map[string]json.RawMessage, key string) bool {
	value, ok := fields[key]
	if !ok {
		return false
	}
	var b bool
	if err := json.Unmarshal(value, &b); err == nil {
		return b
	}
	var s string
	if err := json.Unmarshal(value, &s); err == nil {
		return strings.EqualFold(strings.TrimSpace(s), "true")
	}
	return false
}
