package assistant

import (
	"strings"

	"github.com/calendarplan/calendarplan/pkg/calendar"
)

type ActionKind string

const (
	KindAdd       ActionKind = "ADD"
	KindEdit      ActionKind = "EDIT"
	KindDelete    ActionKind = "DELETE"
	KindShow      ActionKind = "SHOW"
	KindSummarize ActionKind = "SUMMARIZE"
	KindNone      ActionKind = "NONE"
)

// ParseActionKind matches s case-insensitively against the kind names, with or
// without the _EVENT / _EVENTS suffix used in the prompt. Anything else is NONE.
func ParseActionKind(s string) ActionKind {
	name := strings.ToUpper(strings.TrimSpace(s))
	name = strings.TrimSuffix(name, "_EVENTS")
	name = strings.TrimSuffix(name, "_EVENT")
	switch k := ActionKind(name); k {
	case KindAdd, KindEdit, KindDelete, KindShow, KindSummarize:
		return k
	}
	return KindNone
}

// Mutates reports whether the kind carries an event payload.
func (k ActionKind) Mutates() bool {
	return k == KindAdd || k == KindEdit || k == KindDelete
}

// ShowsEvents reports whether the presentation layer should render the event list.
func (k ActionKind) ShowsEvents() bool {
	return k == KindShow || k == KindSummarize
}

// ParsedAction is the structured reading of one model reply.
type ParsedAction struct {
	Narrative      string
	Kind           ActionKind
	Event          *calendar.Event
	ReadyForCommit bool
}

var clarifyingPhrases = []string{
	"what should i call",
	"what would you like to call",
	"what time",
	"which day",
	"what day",
	"when should",
	"when would you",
	"could you tell me",
	"can you tell me",
	"could you specify",
	"please specify",
	"please provide",
	"what is the title",
	"what's the title",
	"how long",
}

// asksForDetails reports whether narrative is the assistant still gathering information.
func asksForDetails(narrative string) bool {
	n := strings.ToLower(narrative)
	for _, phrase := range clarifyingPhrases {
		if strings.Contains(n, phrase) {
			return true
		}
	}
	return false
}

// readyForCommit gates ADD payloads. timesResolved is true only when both raw
// times were present and parsed.
func readyForCommit(kind ActionKind, event *calendar.Event, timesResolved bool, narrative string) bool {
	if kind != KindAdd || event == nil {
		return false
	}
	if calendar.IsSentinelTitle(event.Title) {
		return false
	}
	return timesResolved && !asksForDetails(narrative)
}
