package calendar

import (
	"fmt"
	"strings"
	"time"
)

type FilterMode string

const (
	FilterAll      FilterMode = "ALL"
	FilterToday    FilterMode = "TODAY"
	FilterUpcoming FilterMode = "UPCOMING"
	FilterPast     FilterMode = "PAST"
)

// ParseFilterMode accepts the mode names case-insensitively; blank means ALL.
func ParseFilterMode(s string) (FilterMode, error) {
	switch m := FilterMode(strings.ToUpper(strings.TrimSpace(s))); m {
	case "":
		return FilterAll, nil
	case FilterAll, FilterToday, FilterUpcoming, FilterPast:
		return m, nil
	}
	return "", fmt.Errorf("unknown filter mode %q", s)
}

// Filter selects the events visible in mode at the given moment.
func Filter(events []Event, mode FilterMode, now time.Time) []Event {
	out := make([]Event, 0, len(events))
	for _, e := range events {
		if matches(e, mode, now) {
			out = append(out, e)
		}
	}
	return out
}

func matches(e Event, mode FilterMode, now time.Time) bool {
	switch mode {
	case FilterToday:
		y1, m1, d1 := e.StartTime.Date()
		y2, m2, d2 := now.Date()
		return y1 == y2 && m1 == m2 && d1 == d2
	case FilterUpcoming:
		return e.StartTime.After(now)
	case FilterPast:
		return e.EndTime.Before(now)
	default:
		return true
	}
}
