package simulator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/johnquangdev/loan-agent-trainer/internal/domain/entities"
	"github.com/johnquangdev/loan-agent-trainer/pkg/ai"
)

// ModelName is reported as the model of every simulated completion
const ModelName = "local-simulator"

// Simulator answers chat completions without calling an external model
type Simulator struct {
	logger *zap.Logger
}

var _ ai.Completer = (*Simulator)(nil)

// New creates a simulator; logger may be nil
func New(logger *zap.Logger) *Simulator {
	return &Simulator{logger: logger}
}

// CompleteChat routes coaching prompts to the analysis generator and
// everything else to the reply generator. It only fails if ctx is done.
func (s *Simulator) CompleteChat(ctx context.Context, req ai.ChatRequest) (*ai.ChatResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	combined := make([]string, 0, len(req.Messages))
	for _, m := range req.Messages {
		combined = append(combined, m.Content)
	}
	text := strings.Join(combined, "\n")

	if IsAnalysisPrompt(text) {
		transcript, label := ParseAnalysisPrompt(text)
		key := ScenarioKeyFor(entities.Scenario(label))
		if key == entities.KeyGeneral {
			key = ClassifyScenario(label, FormatTranscript(transcript))
		}
		report := GenerateAnalysis(transcript, key)
		body, err := json.Marshal(report)
		if err != nil {
			return nil, fmt.Errorf("failed to encode analysis: %w", err)
		}
		if s.logger != nil {
			s.logger.Debug("🧮 Simulated analysis",
				zap.String("scenario", string(key)),
				zap.Int("agent_turns", countSender(transcript, entities.SenderAgent)),
				zap.Int("overall_score", report.OverallScore))
		}
		return &ai.ChatResponse{Content: string(body), Model: ModelName}, nil
	}

	reply := GenerateReply(toTranscript(req.Messages))
	if s.logger != nil {
		s.logger.Debug("💬 Simulated customer reply", zap.Int("history", len(req.Messages)), zap.String("reply", reply))
	}
	return &ai.ChatResponse{Content: reply, Model: ModelName}, nil
}

func toTranscript(msgs []ai.ChatMessage) entities.Transcript {
	t := make(entities.Transcript, 0, len(msgs))
	for _, m := range msgs {
		var sender entities.Sender
		switch m.Role {
		case ai.RoleUser:
			sender = entities.SenderAgent
		case ai.RoleAssistant:
			sender = entities.SenderCustomer
		default:
			sender = entities.SenderSystem
		}
		t = append(t, entities.Message{Sender: sender, Content: m.Content})
	}
	return t
}

func countSender(t entities.Transcript, sender entities.Sender) int {
	n := 0
	for _, m := range t {
		if m.Sender == sender {
			n++
		}
	}
	return n
}
