package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractors(t *testing.T) {
	testCases := []struct {
		name       string
		extractor  Extractor
		text       string
		ok         bool
		response   string
		action     string
		eventData  Fields
		noResponse bool
	}{
		{
			name:      "strict reads valid json",
			extractor: StrictExtractor{},
			text:      `{"response": "Say \"hi\"", "action": "ADD_EVENT", "eventData": {"id": null, "title": "Call", "priority": "LOW"}}`,
			ok:        true,
			response:  `Say "hi"`,
			action:    "ADD_EVENT",
			eventData: Fields{"title": "Call", "priority": "LOW"},
		},
		{
			name:      "strict rejects broken json",
			extractor: StrictExtractor{},
			text:      `{"response": "x", "action": ADD}`,
			ok:        false,
		},
		{
			name:      "pattern reads escaped quotes and bare tokens",
			extractor: PatternExtractor{},
			text:      `{"response": "Say \"hi\"", "action": ADD, "eventData": {"id": null, "title": "Call", "priority": LOW}`,
			ok:        true,
			response:  `Say "hi"`,
			action:    "ADD",
			eventData: Fields{"title": "Call", "priority": "LOW"},
		},
		{
			name:       "pattern without fields",
			extractor:  PatternExtractor{},
			text:       `{ nothing useful }`,
			ok:         true,
			noResponse: true,
		},
		{
			name:      "no object at all",
			extractor: ChainExtractor{StrictExtractor{}, PatternExtractor{}},
			text:      "no braces here",
			ok:        false,
		},
		{
			name:      "fenced block wins over surrounding braces",
			extractor: ChainExtractor{StrictExtractor{}, PatternExtractor{}},
			text:      "{prefix}\n```json\n{\"response\": \"fenced\", \"action\": \"NONE\"}\n```",
			ok:        true,
			response:  "fenced",
			action:    "NONE",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ext, ok := tc.extractor.TryExtractAction(tc.text)

			require.Equal(t, tc.ok, ok)
			if !ok {
				return
			}
			assert.Equal(t, !tc.noResponse, ext.HasResponse)
			assert.Equal(t, tc.response, ext.Response)
			assert.Equal(t, tc.action, ext.Action)
			assert.Equal(t, tc.eventData, ext.EventData)
		})
	}
}

func TestNewExtractor(t *testing.T) {
	for _, mode := range []string{"", "chain", "STRICT", "pattern"} {
		_, err := NewExtractor(mode)
		assert.NoError(t, err, mode)
	}
	_, err := NewExtractor("llm")
	assert.Error(t, err)
}
