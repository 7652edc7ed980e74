package openai

import (
	"regexp"
	"strings"

	"github.com/readtheroom/readtheroom/internal/domain/analysis"
)

// Matches "Name: message" lines, with an optional "[timestamp]" prefix as
// exported by WhatsApp and friends.
var senderRe = regexp.MustCompile(`^\s*(?:\[[^\]]*\]\s*)?([^:\[\]]{1,24}):\s+(.+)$`)

// chatStats computes the per-party message breakdown locally; LLMs are bad at
// counting. Attribution is heuristic: lines with a "Name:" prefix are grouped
// by sender and the two most frequent senders become the parties. Transcripts
// without sender prefixes fall back to an alternating-line split.
func chatStats(text string) analysis.Stats {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	total := len(lines)
	if total == 0 {
		return analysis.Stats{}
	}

	type senderInfo struct {
		count int
		chars int
		first int
	}
	senders := map[string]*senderInfo{}
	attributed := 0
	for i, l := range lines {
		m := senderRe.FindStringSubmatch(l)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		info := senders[name]
		if info == nil {
			info = &senderInfo{first: i}
			senders[name] = info
		}
		info.count++
		info.chars += len(m[2])
		attributed++
	}

	// Need a clear two-party structure for attribution to mean anything.
	if len(senders) < 2 || attributed*2 < total {
		return alternatingSplit(lines)
	}

	var you, them *senderInfo
	for _, info := range senders {
		switch {
		case you == nil || info.count > you.count || (info.count == you.count && info.first < you.first):
			you, them = info, you
		case them == nil || info.count > them.count || (info.count == them.count && info.first < them.first):
			them = info
		}
	}
	// First speaker is "you".
	if them.first < you.first {
		you, them = them, you
	}

	return analysis.Stats{
		TotalMessages: total,
		YouCount:      you.count,
		ThemCount:     total - you.count,
		YouAvgLength:  you.chars / you.count,
		ThemAvgLength: them.chars / them.count,
	}
}

func alternatingSplit(lines []string) analysis.Stats {
	total := len(lines)
	youCount := (total + 1) / 2
	themCount := total - youCount

	var youChars, themChars int
	for i, l := range lines {
		if i%2 == 0 {
			youChars += len(l)
		} else {
			themChars += len(l)
		}
	}

	s := analysis.Stats{
		TotalMessages: total,
		YouCount:      youCount,
		ThemCount:     themCount,
	}
	if youCount > 0 {
		s.YouAvgLength = youChars / youCount
	}
	if themCount > 0 {
		s.ThemAvgLength = themChars / themCount
	}
	return s
}
