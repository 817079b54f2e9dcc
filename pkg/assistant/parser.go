package assistant

import (
	"strings"
	"unicode/utf8"

	"github.com/calendarplan/calendarplan/pkg/calendar"
	log "github.com/sirupsen/logrus"
)

const (
	maxNarrativeLength = 500
	defaultNarrative   = "I've processed your request."
)

// Parser turns raw model replies into actions. It never fails: unreadable
// replies become NONE actions carrying the reply text.
type Parser struct {
	extractor Extractor
	coercer   calendar.Coercer
}

func NewParser(extractor Extractor, coercer calendar.Coercer) *Parser {
	if extractor == nil {
		extractor = ChainExtractor{StrictExtractor{}, PatternExtractor{}}
	}
	return &Parser{extractor: extractor, coercer: coercer}
}

// Parse reads raw against the events currently known to the conversation.
// known is used to resolve EDIT/DELETE targets that lack an id.
func (p *Parser) Parse(raw string, known []calendar.Event) ParsedAction {
	ext, ok := p.extractor.TryExtractAction(raw)
	if !ok {
		if mentionsDelete(raw) {
			log.Debug("No JSON in reply but it mentions deleting, trying title match")
			return HandleUnstructuredDelete(raw, known)
		}
		return ParsedAction{Narrative: truncate(raw, maxNarrativeLength), Kind: KindNone}
	}

	narrative := ext.Response
	if !ext.HasResponse || strings.TrimSpace(narrative) == "" {
		narrative = defaultNarrative
	}
	action := ParsedAction{Narrative: narrative, Kind: ParseActionKind(ext.Action)}
	log.Debugf("Extracted action %s (raw %q)", action.Kind, ext.Action)

	if action.Kind.Mutates() && ext.EventData != nil {
		event, timesResolved := p.eventFrom(ext.EventData, action.Kind, known)
		action.Event = &event
		action.ReadyForCommit = readyForCommit(action.Kind, action.Event, timesResolved, narrative)
	}
	return action
}

// eventFrom applies the field defaults to an eventData payload. timesResolved
// reports whether both start and end were present and parseable.
func (p *Parser) eventFrom(fields Fields, kind ActionKind, known []calendar.Event) (calendar.Event, bool) {
	text := func(key string) string {
		v, _ := fields.Get(key)
		return strings.TrimSpace(v)
	}

	rawStart, rawEnd := text("startTime"), text("endTime")
	_, startOK := calendar.ParseDateTime(rawStart)
	_, endOK := calendar.ParseDateTime(rawEnd)
	start := p.coercer.CoerceStart(rawStart)

	rawPriority := text("priority")
	priority, ok := calendar.ParsePriority(rawPriority)
	if !ok {
		if rawPriority != "" {
			log.Warnf("Invalid priority: %q, using MEDIUM", rawPriority)
		}
		priority = calendar.PriorityMedium
	}

	event := calendar.Event{
		ID:          text("id"),
		Title:       text("title"),
		Description: text("description"),
		Location:    text("location"),
		StartTime:   start,
		EndTime:     p.coercer.CoerceEnd(rawEnd, start),
		Priority:    priority,
	}.WithDefaults()

	if event.ID == "" && (kind == KindEdit || kind == KindDelete) {
		if match, ok := calendar.FindByTitle(known, event.Title); ok {
			log.Debugf("Resolved %s target by title %q to %s", kind, event.Title, match.ID)
			event.ID = match.ID
		}
	}
	return event, startOK && endOK
}

var deleteKeywords = []string{"delete", "remove", "cancel"}

func mentionsDelete(text string) bool {
	t := strings.ToLower(text)
	for _, keyword := range deleteKeywords {
		if strings.Contains(t, keyword) {
			return true
		}
	}
	return false
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
