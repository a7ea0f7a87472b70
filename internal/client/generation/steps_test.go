package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractSteps(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{name: "embedded object", text: "blah " + stepsJSON + " blah", want: 5},
		{name: "markdown fence", text: "```json\n" + stepsJSON + "\n```", want: 5},
		{name: "malformed", text: `{"steps":[{"title":"a",}`, want: 0},
		{name: "short plan", text: `{"steps":[{"title":"a","description":"b"}]}`, want: 0},
		{name: "no braces", text: "no json here", want: 0},
		{name: "reversed braces", text: "} nothing {", want: 0},
		{name: "empty", text: "", want: 0},
		{name: "missing titles", text: `{"steps":[{},{},{},{},{}]}`, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, ExtractSteps(tt.text), tt.want)
		})
	}
}

func TestCheckKey(t *testing.T) {
	tests := map[string]error{
		testKey:                            nil,
		"":                                 ErrMissingKey,
		"   ":                              ErrMissingKey,
		"PLACEHOLDER_API_KEY":              ErrMissingKey,
		"your-api-key":                     ErrMissingKey,
		"xxxxxxxxxxxxxxxxxxx":              ErrMissingKey,
		"short":                            ErrMalformedKey,
		"AIza has spaces in it !!!!!!!!!!": ErrMalformedKey,
	}
	for key, want := range tests {
		err := CheckKey(key)
		if want == nil {
			assert.NoError(t, err, key)
			continue
		}
		assert.ErrorIs(t, err, want, key)
	}
}
