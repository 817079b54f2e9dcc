package assistant

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Fields holds the raw values of an eventData object. A key is present only
// when the reply carried a non-null value for it.
type Fields map[string]string

func (f Fields) Get(key string) (string, bool) {
	v, ok := f[key]
	return v, ok
}

// Extraction is the raw content of a structured reply, before any defaults.
type Extraction struct {
	Response    string
	HasResponse bool
	Action      string
	// EventData is nil when the reply had no eventData object.
	EventData Fields
}

// Extractor recovers a structured reply from free text. ok is false when the
// text holds nothing the extractor can read.
type Extractor interface {
	TryExtractAction(text string) (Extraction, bool)
}

var (
	fencedObject = regexp.MustCompile("```(?:json)?\\s*(\\{[\\s\\S]*\\})\\s*```")
	bareObject   = regexp.MustCompile(`\{[\s\S]*\}`)
)

// findObject locates the JSON object candidate in text: a fenced block first,
// then the widest brace-delimited span.
func findObject(text string) (string, bool) {
	if m := fencedObject.FindStringSubmatch(text); m != nil {
		return m[1], true
	}
	if m := bareObject.FindString(text); m != "" {
		return m, true
	}
	return "", false
}

// StrictExtractor decodes the candidate object with encoding/json and gives up
// on anything that is not valid JSON.
type StrictExtractor struct{}

func (StrictExtractor) TryExtractAction(text string) (Extraction, bool) {
	candidate, ok := findObject(text)
	if !ok {
		return Extraction{}, false
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(candidate), &doc); err != nil {
		log.Debugf("Strict extraction failed: %v", err)
		return Extraction{}, false
	}

	var ext Extraction
	if v, ok := scalar(doc["response"]); ok {
		ext.Response, ext.HasResponse = v, true
	}
	ext.Action, _ = scalar(doc["action"])
	if data, ok := doc["eventData"].(map[string]any); ok {
		ext.EventData = Fields{}
		for key, value := range data {
			if v, ok := scalar(value); ok {
				ext.EventData[key] = v
			}
		}
	}
	return ext, true
}

// scalar renders a decoded JSON value as text. null, objects and arrays are absent.
func scalar(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case bool:
		return strconv.FormatBool(t), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	default:
		return "", false
	}
}

var eventDataObject = regexp.MustCompile(`"eventData"\s*:\s*(\{[^}]*\})`)

var eventFields = []string{"id", "title", "description", "startTime", "endTime", "location", "priority"}

// fieldPatterns match "key": "quoted value" or "key": bare-token.
var fieldPatterns = func() map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp)
	for _, key := range append([]string{"response", "action"}, eventFields...) {
		patterns[key] = regexp.MustCompile(fmt.Sprintf(`"%s"\s*:\s*(?:"((?:[^"\\]|\\.)*)"|([^,}\s]+))`, key))
	}
	return patterns
}()

// PatternExtractor pulls individual fields out of the candidate object with
// regular expressions, so truncated or slightly broken JSON still yields
// whatever fields are readable.
type PatternExtractor struct{}

func (PatternExtractor) TryExtractAction(text string) (Extraction, bool) {
	candidate, ok := findObject(text)
	if !ok {
		return Extraction{}, false
	}
	var ext Extraction
	ext.Response, ext.HasResponse = patternValue(candidate, "response")
	ext.Action, _ = patternValue(candidate, "action")

	if m := eventDataObject.FindStringSubmatch(candidate); m != nil {
		ext.EventData = Fields{}
		for _, key := range eventFields {
			if v, ok := patternValue(m[1], key); ok {
				ext.EventData[key] = v
			}
		}
	}
	return ext, true
}

// patternValue reads key as a quoted string, or as a bare token. A bare null is absent.
func patternValue(text, key string) (string, bool) {
	m := fieldPatterns[key].FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	if m[2] != "" {
		if m[2] == "null" {
			return "", false
		}
		return strings.Trim(m[2], `"`), true
	}
	if unquoted, err := strconv.Unquote(`"` + m[1] + `"`); err == nil {
		return unquoted, true
	}
	return m[1], true
}

// ChainExtractor returns the result of the first extractor that succeeds.
type ChainExtractor []Extractor

func (c ChainExtractor) TryExtractAction(text string) (Extraction, bool) {
	for _, extractor := range c {
		if ext, ok := extractor.TryExtractAction(text); ok {
			return ext, true
		}
	}
	return Extraction{}, false
}

// NewExtractor builds the extractor named by mode: strict, pattern or chain.
func NewExtractor(mode string) (Extractor, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "chain":
		return ChainExtractor{StrictExtractor{}, PatternExtractor{}}, nil
	case "strict":
		return StrictExtractor{}, nil
	case "pattern":
		return PatternExtractor{}, nil
	}
	return nil, fmt.Errorf("unknown parser mode %q", mode)
}
