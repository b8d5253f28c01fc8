package conversation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/johnquangdev/loan-agent-trainer/internal/domain/entities"
	"github.com/johnquangdev/loan-agent-trainer/internal/domain/repositories"
	usecaseErrors "github.com/johnquangdev/loan-agent-trainer/internal/usecase/errors"
	"github.com/johnquangdev/loan-agent-trainer/pkg/ai"
)

const (
	// MinAnalyzableMessages is the smallest transcript that can be analyzed
	MinAnalyzableMessages = 3

	DefaultPageSize = 10
	MaxPageSize     = 100

	analysisTemperature = 0.3
	analysisMaxTokens   = 1000

	connectionFallbackReply = "I'm sorry, I'm having some technical difficulties right now. Could you please repeat that or try again in a moment?"
	genericFallbackReply    = "I'm not sure I understand. Could you please explain that in a different way?"
)

// Service defines the interface for the conversation use case
type Service interface {
	// Start opens a temporary conversation seeded with the customer's opening line
	Start(ctx context.Context, input StartInput) (*entities.Conversation, error)

	// SendMessage appends the agent's message and the simulated customer's reply
	SendMessage(ctx context.Context, input SendMessageInput) (*SendMessageOutput, error)

	// End completes the conversation and discards the user's other drafts
	End(ctx context.Context, conversationID, userID uuid.UUID) (*EndOutput, error)

	// Analyze scores the conversation and stores the feedback
	Analyze(ctx context.Context, input AnalyzeInput) (*AnalyzeOutput, error)

	// History lists completed conversations, newest first
	History(ctx context.Context, userID uuid.UUID, page, limit int) (*HistoryOutput, error)

	// HighestScore returns the best overall score, or nil when nothing is scored
	HighestScore(ctx context.Context, userID uuid.UUID) (*int, error)

	// LastScore returns the most recent overall score, or nil when nothing is scored
	LastScore(ctx context.Context, userID uuid.UUID) (*LastScoreOutput, error)
}

// StartInput is the input for Start
type StartInput struct {
	UserID         uuid.UUID
	Scenario       entities.Scenario
	Difficulty     entities.Difficulty
	AdditionalInfo string
}

// SendMessageInput is the input for SendMessage
type SendMessageInput struct {
	ConversationID uuid.UUID
	UserID         uuid.UUID
	Content        string
	Difficulty     entities.Difficulty
	AdditionalInfo string
}

// SessionInfo summarizes a conversation after a turn
type SessionInfo struct {
	MessageCount int
	Scenario     entities.Scenario
}

// SendMessageOutput is the result of SendMessage
type SendMessageOutput struct {
	AgentMessage    entities.Message
	CustomerMessage entities.Message
	SessionInfo     SessionInfo
}

// EndOutput is the result of End
type EndOutput struct {
	ConversationID uuid.UUID
	CanAnalyze     bool
}

// AnalyzeInput is the input for Analyze.
// Messages, when present, replace the stored transcript.
type AnalyzeInput struct {
	ConversationID uuid.UUID
	UserID         uuid.UUID
	Messages       entities.Transcript
}

// SessionStats describes the analyzed session
type SessionStats struct {
	Duration     time.Duration
	MessageCount int
	Scenario     entities.Scenario
}

// AnalyzeOutput is the result of Analyze. Feedback is nil when the provider failed
// or its answer could not be parsed.
type AnalyzeOutput struct {
	Analysis     string
	Feedback     *entities.Feedback
	SessionStats SessionStats
}

// HistoryOutput is one page of completed conversations
type HistoryOutput struct {
	Conversations []*entities.Conversation
	Total         int64
	Page          int
	Pages         int
	HasMore       bool
}

// LastScoreOutput is the latest scored conversation's result
type LastScoreOutput struct {
	Score       int
	CompletedAt *time.Time
}

// Options tunes the customer persona and sampling
type Options struct {
	Prompts     Prompts
	Temperature float64
	MaxTokens   int
}

// ConversationService handles conversation business logic
type ConversationService struct {
	repo      repositories.ConversationRepository
	completer ai.Completer
	opts      Options
	now       func() time.Time
	logger    *zap.Logger
}

var _ Service = (*ConversationService)(nil)

// NewConversationService creates a new conversation service
func NewConversationService(
	repo repositories.ConversationRepository,
	completer ai.Completer,
	opts Options,
	logger *zap.Logger,
) *ConversationService {
	opts.Prompts = opts.Prompts.withDefaults()
	return &ConversationService{
		repo:      repo,
		completer: completer,
		opts:      opts,
		now:       time.Now,
		logger:    logger,
	}
}

// Start opens a temporary conversation seeded with the customer's opening line
func (s *ConversationService) Start(ctx context.Context, input StartInput) (*entities.Conversation, error) {
	if !input.Scenario.IsValid() {
		return nil, usecaseErrors.ErrInvalidScenario
	}
	if input.Difficulty != "" && !input.Difficulty.IsValid() {
		return nil, usecaseErrors.ErrInvalidDifficulty
	}

	conversation := entities.NewConversation(input.UserID, input.Scenario)
	if err := s.repo.Create(ctx, conversation); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("💬 Conversation started",
			zap.String("conversation_id", conversation.ID.String()),
			zap.String("user_id", input.UserID.String()),
			zap.String("scenario", string(input.Scenario)),
		)
	}
	return conversation, nil
}

// load fetches a conversation and checks that userID owns it
func (s *ConversationService) load(ctx context.Context, conversationID, userID uuid.UUID) (*entities.Conversation, error) {
	conversation, err := s.repo.FindByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, entities.ErrConversationNotFound) {
			return nil, usecaseErrors.ErrConversationNotFound
		}
		return nil, err
	}
	if conversation.UserID != userID {
		return nil, usecaseErrors.ErrConversationAccess
	}
	return conversation, nil
}

// SendMessage appends the agent's message and the simulated customer's reply
func (s *ConversationService) SendMessage(ctx context.Context, input SendMessageInput) (*SendMessageOutput, error) {
	if strings.TrimSpace(input.Content) == "" {
		return nil, usecaseErrors.ErrEmptyMessage
	}
	difficulty := input.Difficulty
	if difficulty == "" {
		difficulty = entities.DifficultyEasy
	}
	if !difficulty.IsValid() {
		return nil, usecaseErrors.ErrInvalidDifficulty
	}

	conversation, err := s.load(ctx, input.ConversationID, input.UserID)
	if err != nil {
		return nil, err
	}
	if conversation.IsCompleted {
		return nil, usecaseErrors.ErrConversationEnded
	}

	agentMessage := entities.NewMessage(entities.SenderAgent, input.Content)
	conversation.Append(agentMessage)

	reply := s.customerReply(ctx, conversation, difficulty, input.AdditionalInfo)
	customerMessage := entities.NewMessage(entities.SenderCustomer, reply)
	conversation.Append(customerMessage)

	if err := s.repo.Update(ctx, conversation); err != nil {
		return nil, err
	}

	return &SendMessageOutput{
		AgentMessage:    agentMessage,
		CustomerMessage: customerMessage,
		SessionInfo: SessionInfo{
			MessageCount: len(conversation.Messages) - 1,
			Scenario:     conversation.Scenario,
		},
	}, nil
}

// customerReply asks the completer for the customer's next line.
// The last message of the conversation must be the agent's new message.
func (s *ConversationService) customerReply(ctx context.Context, conversation *entities.Conversation, difficulty entities.Difficulty, additionalInfo string) string {
	transcript := conversation.Transcript()
	latest := transcript[len(transcript)-1]
	recent := transcript[max(0, len(transcript)-1-HistoryWindow) : len(transcript)-1]

	messages := make([]ai.ChatMessage, 0, len(recent)+2)
	messages = append(messages, ai.ChatMessage{
		Role:    ai.RoleSystem,
		Content: s.opts.Prompts.systemPrompt(difficulty, conversation.Scenario, additionalInfo, recent),
	})
	for _, m := range recent {
		switch m.Sender {
		case entities.SenderAgent:
			messages = append(messages, ai.ChatMessage{Role: ai.RoleUser, Content: m.Content})
		case entities.SenderCustomer:
			messages = append(messages, ai.ChatMessage{Role: ai.RoleAssistant, Content: m.Content})
		}
	}
	messages = append(messages, ai.ChatMessage{Role: ai.RoleUser, Content: latest.Content})

	resp, err := s.completer.CompleteChat(ctx, ai.ChatRequest{
		Messages:    messages,
		Temperature: s.opts.Temperature,
		MaxTokens:   s.opts.MaxTokens,
	})
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("⚠️ Customer reply failed, using fallback",
				zap.String("conversation_id", conversation.ID.String()),
				zap.Error(err),
			)
		}
		if ai.IsConnectionRefused(err) {
			return connectionFallbackReply
		}
		return genericFallbackReply
	}

	reply := stripThink(resp.Content)
	if reply == "" {
		return genericFallbackReply
	}
	return reply
}

// End completes the conversation and discards the user's other drafts
func (s *ConversationService) End(ctx context.Context, conversationID, userID uuid.UUID) (*EndOutput, error) {
	conversation, err := s.load(ctx, conversationID, userID)
	if err != nil {
		return nil, err
	}

	conversation.Complete(s.now().UTC())
	if err := s.repo.Update(ctx, conversation); err != nil {
		return nil, err
	}

	deleted, err := s.repo.DeleteTemporary(ctx, userID, conversation.ID)
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("✅ Conversation ended",
			zap.String("conversation_id", conversation.ID.String()),
			zap.Int("messages", len(conversation.Messages)),
			zap.Int64("temporary_deleted", deleted),
		)
	}

	return &EndOutput{
		ConversationID: conversation.ID,
		CanAnalyze:     len(conversation.Messages) > 2,
	}, nil
}

// Analyze scores the conversation and stores the feedback
func (s *ConversationService) Analyze(ctx context.Context, input AnalyzeInput) (*AnalyzeOutput, error) {
	conversation, err := s.load(ctx, input.ConversationID, input.UserID)
	if err != nil {
		return nil, err
	}

	if len(input.Messages) > 0 {
		replaced := make(entities.Transcript, 0, len(input.Messages))
		for _, m := range input.Messages {
			if m.Sender == entities.SenderAgent || m.Sender == entities.SenderCustomer {
				replaced = append(replaced, m)
			}
		}
		conversation.Messages = datatypes.JSONSlice[entities.Message](replaced)
	}
	if len(conversation.Messages) < MinAnalyzableMessages {
		return nil, usecaseErrors.ErrNotEnoughMessages
	}

	now := s.now()
	stats := SessionStats{
		Duration:     conversation.Duration(now),
		MessageCount: len(conversation.Messages) - 1,
		Scenario:     conversation.Scenario,
	}

	resp, err := s.completer.CompleteChat(ctx, ai.ChatRequest{
		Messages: []ai.ChatMessage{
			{Role: ai.RoleSystem, Content: coachSystemMessage},
			{Role: ai.RoleUser, Content: analysisPrompt(conversation.Transcript(), conversation.Scenario)},
		},
		Temperature: analysisTemperature,
		MaxTokens:   analysisMaxTokens,
	})
	if err != nil {
		if s.logger != nil {
			s.logger.Error("❌ Analysis failed, returning summary",
				zap.String("conversation_id", conversation.ID.String()),
				zap.Error(err),
			)
		}
		return &AnalyzeOutput{
			Analysis:     fallbackAnalysis(stats),
			SessionStats: stats,
		}, nil
	}

	analysis := stripThink(resp.Content)
	out := &AnalyzeOutput{Analysis: analysis, SessionStats: stats}

	report, err := parseAnalysis(analysis)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("⚠️ Analysis response was not valid JSON",
				zap.String("conversation_id", conversation.ID.String()),
				zap.Error(err),
			)
		}
	} else {
		feedback := entities.NewFeedback(report)
		conversation.SetFeedback(feedback)
		out.Feedback = &feedback
	}

	if err := s.repo.Update(ctx, conversation); err != nil {
		return nil, err
	}

	if s.logger != nil && out.Feedback != nil {
		s.logger.Info("📊 Conversation analyzed",
			zap.String("conversation_id", conversation.ID.String()),
			zap.Int("overall_score", out.Feedback.Score[0]),
		)
	}
	return out, nil
}

func fallbackAnalysis(stats SessionStats) string {
	return fmt.Sprintf(`Analysis temporarily unavailable due to technical issues.

*Conversation Summary:*
- Scenario: %s
- Messages exchanged: %d
- Duration: %d minutes

*General Feedback:*
Based on the conversation length and scenario, you've engaged in a meaningful practice session. Continue practicing to improve your loan agent skills.

Please try the analysis feature again when the AI service is available.`,
		stats.Scenario, stats.MessageCount, int(math.Round(stats.Duration.Minutes())))
}

// History lists completed conversations, newest first
func (s *ConversationService) History(ctx context.Context, userID uuid.UUID, page, limit int) (*HistoryOutput, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	offset := (page - 1) * limit

	conversations, total, err := s.repo.ListCompleted(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	return &HistoryOutput{
		Conversations: conversations,
		Total:         total,
		Page:          page,
		Pages:         int(math.Ceil(float64(total) / float64(limit))),
		HasMore:       int64(offset+len(conversations)) < total,
	}, nil
}

// HighestScore returns the best overall score, or nil when nothing is scored
func (s *ConversationService) HighestScore(ctx context.Context, userID uuid.UUID) (*int, error) {
	conversation, err := s.repo.FindHighestScored(ctx, userID)
	if err != nil {
		if errors.Is(err, entities.ErrConversationNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return conversation.OverallScore, nil
}

// LastScore returns the most recent overall score, or nil when nothing is scored
func (s *ConversationService) LastScore(ctx context.Context, userID uuid.UUID) (*LastScoreOutput, error) {
	conversation, err := s.repo.FindLastScored(ctx, userID)
	if err != nil {
		if errors.Is(err, entities.ErrConversationNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if conversation.OverallScore == nil {
		return nil, nil
	}
	return &LastScoreOutput{
		Score:       *conversation.OverallScore,
		CompletedAt: conversation.CompletedAt,
	}, nil
}
