package simulator

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	maxReplyLength = 140
	ellipsis       = "..."
)

var amountPattern = regexp.MustCompile(`₹?\s*(\d[\d,]*(?:\.\d+)?)`)

// extractAmount returns the first number in s with thousands separators removed
func extractAmount(s string) string {
	m := amountPattern.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return strings.ReplaceAll(m[1], ",", "")
}

// truncate cuts s to at most limit runes, marking the cut with an ellipsis
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	keep := limit - utf8.RuneCountInString(ellipsis)
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:keep])) + ellipsis
}

func hasTerminalPunctuation(s string) bool {
	return strings.HasSuffix(s, ".") || strings.HasSuffix(s, "?") || strings.HasSuffix(s, "!")
}

// finalizeReply enforces the reply shape: single spaced, bounded, punctuated
func finalizeReply(s string) string {
	s = strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
	if s == "" {
		s = genericClarification
	}
	s = truncate(s, maxReplyLength)
	if hasTerminalPunctuation(s) {
		return s
	}
	if utf8.RuneCountInString(s) >= maxReplyLength {
		runes := []rune(s)
		s = strings.TrimSpace(string(runes[:maxReplyLength-1]))
	}
	return s + "?"
}

// snippet quotes a customer message, shortening anything over 60 runes
func snippet(s string) string {
	const limit, keep = 60, 57
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:keep]) + ellipsis
}
