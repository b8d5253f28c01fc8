package simulator

import (
	"regexp"
	"strings"
)

// memoryDepth is how many recent customer messages are remembered
const memoryDepth = 6

var (
	nonWordPattern    = regexp.MustCompile(`[^a-z0-9\s?]+`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

var tagVocabulary = []string{
	"emi", "document", "apply", "timeline", "budget", "fee",
	"compare", "example", "next step", "clarify", "income",
}

var tagPatterns = func() map[string]*regexp.Regexp {
	out := make(map[string]*regexp.Regexp, len(tagVocabulary))
	for _, tag := range tagVocabulary {
		out[tag] = regexp.MustCompile(`\b` + regexp.QuoteMeta(tag))
	}
	return out
}()

// normalize lowercases, strips punctuation other than '?' and collapses whitespace
func normalize(s string) string {
	s = strings.ToLower(s)
	s = nonWordPattern.ReplaceAllString(s, " ")
	s = whitespacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// topicTags returns the vocabulary topics mentioned in normalized text
func topicTags(normalized string) map[string]struct{} {
	tags := make(map[string]struct{})
	for _, tag := range tagVocabulary {
		if tagPatterns[tag].MatchString(normalized) {
			tags[tag] = struct{}{}
		}
	}
	return tags
}

type memoryEntry struct {
	normalized string
	tags       map[string]struct{}
}

type repetitionMemory []memoryEntry

// newRepetitionMemory remembers up to memoryDepth of the most recent customer messages
func newRepetitionMemory(customerMessages []string) repetitionMemory {
	start := 0
	if len(customerMessages) > memoryDepth {
		start = len(customerMessages) - memoryDepth
	}
	mem := make(repetitionMemory, 0, memoryDepth)
	for _, msg := range customerMessages[start:] {
		n := normalize(msg)
		if n == "" {
			continue
		}
		mem = append(mem, memoryEntry{normalized: n, tags: topicTags(n)})
	}
	return mem
}

// seen reports whether candidate repeats a remembered message verbatim or by topic
func (m repetitionMemory) seen(candidate string) bool {
	n := normalize(candidate)
	if n == "" {
		return false
	}
	tags := topicTags(n)
	for _, entry := range m {
		if entry.normalized == n {
			return true
		}
		for tag := range tags {
			if _, ok := entry.tags[tag]; ok {
				return true
			}
		}
	}
	return false
}
