package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChatStatsAttributesBySenderPrefix(t *testing.T) {
	text := `Alice: hey, are we still on for tonight?
Bob: yeah
Alice: cool, 8pm works?
Bob: k
Alice: ...ok then`

	s := chatStats(text)

	assert.Equal(t, 5, s.TotalMessages)
	assert.Equal(t, 3, s.YouCount)
	assert.Equal(t, 2, s.ThemCount)
	assert.Greater(t, s.YouAvgLength, s.ThemAvgLength)
}

func TestChatStatsTimestampPrefix(t *testing.T) {
	text := `[12:01] Alice: morning
[12:05] Bob: hi
[12:06] Alice: slept well?
[14:30] Bob: yes`

	s := chatStats(text)
	assert.Equal(t, 4, s.TotalMessages)
	assert.Equal(t, 2, s.YouCount)
	assert.Equal(t, 2, s.ThemCount)
}

func TestChatStatsFallbackSplit(t *testing.T) {
	text := "just some pasted text\nwith no sender prefixes\nat all\nreally"

	s := chatStats(text)
	assert.Equal(t, 4, s.TotalMessages)
	assert.Equal(t, 2, s.YouCount)
	assert.Equal(t, 2, s.ThemCount)
	assert.Equal(t, s.TotalMessages, s.YouCount+s.ThemCount)
}

func TestChatStatsIgnoresBlankLines(t *testing.T) {
	s := chatStats("a: hi\n\n\nb: yo\n   \n")
	assert.Equal(t, 2, s.TotalMessages)
}

func TestChatStatsEmpty(t *testing.T) {
	s := chatStats("")
	assert.Zero(t, s.TotalMessages)
	assert.Zero(t, s.YouCount)
	assert.Zero(t, s.ThemCount)
}

func TestChatStatsDeterministic(t *testing.T) {
	text := "Alice: one\nBob: two\nAlice: three"
	first := chatStats(text)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, chatStats(text))
	}
}
