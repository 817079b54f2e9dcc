package calendar

import (
	"strings"
	"time"

	"github.com/calendarplan/calendarplan/internal/utils"
	log "github.com/sirupsen/logrus"
)

// StoreLayout is the pattern used when writing date-times.
const StoreLayout = "2006-01-02 15:04"

// Layouts tried in order by ParseDateTime. Fractional seconds are accepted
// after any seconds field.
var layouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	StoreLayout,
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ParseDateTime parses raw with the first matching layout. Values carrying a
// zone offset keep their wall clock and drop the zone.
func ParseDateTime(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		t, err := time.ParseInLocation(layout, raw, time.Local)
		if err == nil {
			return wallClock(t), true
		}
	}
	return time.Time{}, false
}

func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.Local)
}

// FormatDateTime renders t with StoreLayout.
func FormatDateTime(t time.Time) string {
	return t.Format(StoreLayout)
}

// Coercer turns loosely formatted date-time strings into times, never failing:
// unparseable starts become now and unparseable ends become start plus one hour.
type Coercer struct {
	clock utils.Clock
}

func NewCoercer(clock utils.Clock) Coercer {
	if clock == nil {
		clock = utils.SystemClock{}
	}
	return Coercer{clock: clock}
}

func (c Coercer) Now() time.Time {
	return wallClock(c.clock.Now())
}

func (c Coercer) CoerceStart(raw string) time.Time {
	if t, ok := ParseDateTime(raw); ok {
		return t
	}
	if strings.TrimSpace(raw) != "" {
		log.Warnf("Failed to parse start time: %q, using current time", raw)
	}
	return c.Now()
}

func (c Coercer) CoerceEnd(raw string, start time.Time) time.Time {
	if t, ok := ParseDateTime(raw); ok {
		return t
	}
	if strings.TrimSpace(raw) != "" {
		log.Warnf("Failed to parse end time: %q, using start time + 1 hour", raw)
	}
	return start.Add(DefaultDuration)
}
