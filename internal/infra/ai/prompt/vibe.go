package prompt

import (
	"fmt"
	"regexp"
	"strings"
)

// MaxChatBytes is the prompt ceiling. When the transcript is larger we keep
// the tail: the most recent messages carry the current vibe.
const MaxChatBytes = 500_000

var encryptionNoticeRe = regexp.MustCompile(`(?im)^.*end-to-end encrypted.*$`)

// GetSystemPrompt sets the persona and the strict-JSON contract.
func GetSystemPrompt() string {
	return `You are an "Internet Vibe Checker" analyzing a chat log between two people. Your tone is ROAST-HEAVY, Gen Z, brutally honest.
You must produce one valid JSON object only (no markdown, no commentary, no code fences) following the schema given by the user.
Be deterministic: if the input is similar, the output should be similar.
Make the redFlags funny but grounded in the text. Do NOT use emojis inside string arrays (the UI adds them).`
}

// GetUserPrompt embeds the (already truncated) chat text plus the schema the
// response must follow.
func GetUserPrompt(chatText string) string {
	return fmt.Sprintf(`Analyze this chat log (or snippet) between two people.

Input Text:
"""
%s
"""

Return a valid JSON object with the following fields (do NOT use code blocks):
{
  "vibeHeadline": "A short, punchy, roasted summary of the relationship dynamic",
  "roast": "A 1-2 sentence VIOLENT roast of why they are cooked",
  "sentimentLabel": "One of: Lovey-dovey, Cold, Toxic, Friendly, Professional, Flirty, Neutral",
  "sentimentScore": 50,
  "sentimentTrend": [50, 60, 40, 55, 45, 50, 60, 40, 55, 45],
  "participants": ["Name 1", "Name 2"],
  "dominanceScore": 50,
  "redFlags": ["flag 1", "flag 2", "flag 3"],
  "redFlagOverview": "A short sentence summarizing the overall red flag energy. Max 12 words.",
  "greenFlags": ["flag 1", "flag 2"],
  "greenFlagOverview": "A short sentence summarizing the overall green flag energy. Max 12 words.",
  "effortBalance": "A verdict on who is trying harder",
  "movieAnalogy": "If this chat was a movie, what would it be? Max 1 sentence. Be creative: Bollywood, indie, obscure 90s rom-coms, horror.",
  "attachmentStyle": "A specific, funny Gen-Z label for their attachment style. Be extremely specific and roasted.",
  "replyTimeGap": "E.g. 'You reply fast, they hibernate'",
  "turningPoint": {"message": "Quote the message where vibes changed", "explanation": "Why it changed"},
  "nextSteps": ["Action 1", "Action 2", "Action 3"],
  "rpgCards": [
    {"name": "Name 1", "role": "A creative RPG-style class title", "level": 42, "oneLiner": "A roast about their specific behavior", "stats": {"yapLevel": 50, "simpScore": 50, "cringeFactor": 50, "chaosMeasure": 50}},
    {"name": "Name 2", "role": "Creative RPG title", "level": 42, "oneLiner": "Roast", "stats": {"yapLevel": 50, "simpScore": 50, "cringeFactor": 50, "chaosMeasure": 50}}
  ],
  "songRecommendations": [
    {"title": "Song Title", "artist": "Artist Name", "reason": "1 sentence explanation of why this fits"},
    {"title": "...", "artist": "...", "reason": "..."},
    {"title": "...", "artist": "...", "reason": "..."}
  ]
}

Rules:
- sentimentScore, sentimentTrend values, dominanceScore and all card stats are integers 0-100.
- sentimentTrend has exactly 10 values describing the emotional arc from start to finish.
- dominanceScore is how much "Name 1" dominated the conversation.
- rpgCards levels are integers 1-99.
- If participant names are unknown use "You" and "Them".`, chatText)
}

// PrepareChatText scrubs messenger boilerplate and truncates to the byte
// ceiling, keeping the most recent content.
func PrepareChatText(text string) string {
	text = encryptionNoticeRe.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)
	if len(text) <= MaxChatBytes {
		return text
	}
	cut := text[len(text)-MaxChatBytes:]
	// Drop the partial first line left by the byte cut.
	if i := strings.IndexByte(cut, '\n'); i >= 0 && i < len(cut)-1 {
		cut = cut[i+1:]
	}
	return cut
}

// ExtractJSON pulls the JSON object out of a model response, tolerating code
// fences and extraneous prose around it.
func ExtractJSON(raw string) ([]byte, error) {
	s := strings.ReplaceAll(raw, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	s = strings.TrimSpace(s)

	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end < start {
		return nil, fmt.Errorf("no JSON object in model response")
	}
	return []byte(s[start : end+1]), nil
}
