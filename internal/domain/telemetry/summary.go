package telemetry

import (
	"strings"
	"unicode"
)

// Summary is a derived, non-persisted view over the whole event history.
type Summary struct {
	TotalSessions        int            `json:"totalSessions"`
	ReturnRate           float64        `json:"returnRate"` // 0..1
	AvgDwellTime         int            `json:"avgDwellTime"`
	MostOpenedProjects   []ProjectCount `json:"mostOpenedProjects"`
	EngagementHotspots   []PathCount    `json:"engagementHotspots"`
	ConversationKeywords []WordCount    `json:"conversationKeywords"`
	PlaysCalled          []TopicCount   `json:"playsCalled"`
}

// ProjectCount pairs a case-study id with its open count.
type ProjectCount struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

// PathCount pairs a page path with its interaction count.
type PathCount struct {
	Path  string `json:"path"`
	Count int    `json:"count"`
}

// WordCount pairs a conversation keyword with its frequency.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// TopicCount pairs a play-call topic with its frequency.
type TopicCount struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

var stopWords = map[string]bool{
	"the": true, "and": true, "that": true, "with": true, "from": true,
	"this": true, "have": true, "your": true, "about": true, "what": true,
	"when": true, "where": true, "who": true, "how": true, "why": true,
	"are": true, "for": true, "you": true, "they": true, "their": true,
	"our": true, "into": true, "over": true, "like": true, "just": true,
	"does": true, "can": true, "will": true,
}

const maxKeywordsPerMessage = 8

// Keywordize extracts anonymized keywords from free chat text: lowercase,
// strip everything but letters and digits, split on whitespace, then drop
// short tokens, stop words, anything with "@", and purely numeric tokens.
// At most 8 tokens are taken per message.
func Keywordize(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, text)

	var words []string
	for _, w := range strings.Fields(cleaned) {
		if len([]rune(w)) <= 3 {
			continue
		}
		if stopWords[w] {
			continue
		}
		if strings.Contains(w, "@") {
			continue
		}
		if isNumeric(w) {
			continue
		}
		words = append(words, w)
		if len(words) >= maxKeywordsPerMessage {
			break
		}
	}
	return words
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(s) > 0
}
