package simulator

import (
	"regexp"
	"strings"

	"github.com/johnquangdev/loan-agent-trainer/internal/domain/entities"
)

// Markers shared by the coaching prompt and the prompt parser
const (
	CoachRole         = "You are an expert sales coach"
	ScoringHeading    = "Scoring Formula"
	ConversationLabel = "CONVERSATION:"
	ContextLabel      = "CONTEXT:"
	ScenarioLabel     = "Scenario:"
	AgentSpeaker      = "Loan Agent:"
	CustomerSpeaker   = "Customer:"
)

var (
	conversationBlock = regexp.MustCompile(`(?is)CONVERSATION:\s*(.*?)\s*CONTEXT:`)
	scenarioLine      = regexp.MustCompile(`(?im)^\s*Scenario:\s*(\S.*?)\s*$`)
	agentLine         = regexp.MustCompile(`(?i)^Loan Agent:\s*`)
	customerLine      = regexp.MustCompile(`(?i)^Customer:\s*`)
)

// FormatTranscript renders messages as speaker-prefixed lines, one message per line.
// System turns are omitted.
func FormatTranscript(t entities.Transcript) string {
	lines := make([]string, 0, len(t))
	for _, m := range t {
		content := strings.TrimSpace(whitespacePattern.ReplaceAllString(m.Content, " "))
		switch m.Sender {
		case entities.SenderAgent:
			lines = append(lines, AgentSpeaker+" "+content)
		case entities.SenderCustomer:
			lines = append(lines, CustomerSpeaker+" "+content)
		}
	}
	return strings.Join(lines, "\n")
}

// IsAnalysisPrompt reports whether text is a coaching request rather than a chat turn
func IsAnalysisPrompt(text string) bool {
	return strings.Contains(text, CoachRole) || strings.Contains(text, ScoringHeading)
}

// ParseAnalysisPrompt recovers the transcript and scenario label from a coaching prompt.
// Without a CONVERSATION block the whole text is scanned for speaker lines.
func ParseAnalysisPrompt(text string) (entities.Transcript, string) {
	block := text
	if m := conversationBlock.FindStringSubmatch(text); m != nil {
		block = m[1]
	}

	var t entities.Transcript
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case agentLine.MatchString(line):
			t = append(t, entities.Message{Sender: entities.SenderAgent, Content: strings.TrimSpace(agentLine.ReplaceAllString(line, ""))})
		case customerLine.MatchString(line):
			t = append(t, entities.Message{Sender: entities.SenderCustomer, Content: strings.TrimSpace(customerLine.ReplaceAllString(line, ""))})
		}
	}

	scenario := ""
	if idx := strings.Index(text, ContextLabel); idx >= 0 {
		if m := scenarioLine.FindStringSubmatch(text[idx:]); m != nil {
			scenario = m[1]
		}
	}
	return t, scenario
}
