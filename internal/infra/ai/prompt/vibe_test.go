package prompt

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain object", `{"a":1}`, `{"a":1}`},
		{"fenced json", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fences", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"prose around object", "Sure! Here you go: {\"a\":1} Hope that helps.", `{"a":1}`},
		{"nested braces", `prefix {"a":{"b":2}} suffix`, `{"a":{"b":2}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestExtractJSONNoObject(t *testing.T) {
	_, err := ExtractJSON("the model refused to answer")
	assert.Error(t, err)

	_, err = ExtractJSON("} backwards {")
	assert.Error(t, err)
}

func TestPrepareChatTextScrubsEncryptionNotice(t *testing.T) {
	in := "hey\nMessages and calls are end-to-end encrypted.\nyo"
	out := PrepareChatText(in)
	assert.NotContains(t, out, "encrypted")
	assert.Contains(t, out, "hey")
	assert.Contains(t, out, "yo")
}

func TestPrepareChatTextKeepsMostRecent(t *testing.T) {
	var b strings.Builder
	b.WriteString("OLDEST LINE\n")
	line := strings.Repeat("x", 99) + "\n"
	for b.Len() < MaxChatBytes+1000 {
		b.WriteString(line)
	}
	b.WriteString("NEWEST LINE")

	out := PrepareChatText(b.String())
	assert.LessOrEqual(t, len(out), MaxChatBytes)
	assert.NotContains(t, out, "OLDEST LINE")
	assert.Contains(t, out, "NEWEST LINE")
}

func TestGetUserPromptEmbedsText(t *testing.T) {
	p := GetUserPrompt("alice: hi\nbob: hi back")
	assert.Contains(t, p, "alice: hi")
	assert.Contains(t, p, "vibeHeadline")
	assert.Contains(t, p, "songRecommendations")

	// The prompt itself must be a template the model can echo JSON from.
	_, err := ExtractJSON(p)
	assert.NoError(t, err)
}

func TestPayloadDecodesModelNumbers(t *testing.T) {
	// Models emit floats where the schema says integers.
	raw := `{"sentimentScore": 71.4, "dominanceScore": 60.0, "sentimentTrend": [10.5, 90]}`
	var p Payload
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	assert.Equal(t, 71, clamp(p.SentimentScore))
}
