package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Sender identifies who authored a message.
// SenderSystem marks instructions passed to a model and is never persisted.
type Sender string

const (
	SenderAgent    Sender = "agent"
	SenderCustomer Sender = "ai"
	SenderSystem   Sender = "system"
)

// Message is a single conversation turn
type Message struct {
	Sender    Sender    `json:"sender"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage creates a message stamped with the current time
func NewMessage(sender Sender, content string) Message {
	return Message{
		Sender:    sender,
		Content:   strings.TrimSpace(content),
		Timestamp: time.Now().UTC(),
	}
}

// Transcript is the ordered list of messages of one conversation
type Transcript []Message

// Conversation is one training session between an agent and the simulated customer
type Conversation struct {
	ID           uuid.UUID                    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID       uuid.UUID                    `json:"user_id" gorm:"type:uuid;not null;index"`
	Scenario     Scenario                     `json:"scenario" gorm:"type:varchar(50);not null"`
	Messages     datatypes.JSONSlice[Message] `json:"messages" gorm:"type:jsonb;not null"`
	Feedback     datatypes.JSONType[Feedback] `json:"feedback" gorm:"type:jsonb"`
	OverallScore *int                         `json:"overall_score,omitempty" gorm:"index"`
	IsCompleted  bool                         `json:"is_completed" gorm:"default:false;not null"`
	IsTemporary  bool                         `json:"is_temporary" gorm:"default:true;not null"`
	CreatedAt    time.Time                    `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time                    `json:"updated_at" gorm:"autoUpdateTime"`
	CompletedAt  *time.Time                   `json:"completed_at,omitempty"`
}

// NewConversation starts a temporary conversation seeded with the scenario's opening customer line
func NewConversation(userID uuid.UUID, scenario Scenario) *Conversation {
	now := time.Now().UTC()
	return &Conversation{
		ID:          uuid.New(),
		UserID:      userID,
		Scenario:    scenario,
		Messages:    datatypes.JSONSlice[Message]{NewMessage(SenderCustomer, scenario.OpeningLine())},
		IsTemporary: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Append adds a message to the end of the conversation
func (c *Conversation) Append(m Message) {
	c.Messages = append(c.Messages, m)
}

// Transcript returns a copy of the messages
func (c *Conversation) Transcript() Transcript {
	out := make(Transcript, len(c.Messages))
	copy(out, c.Messages)
	return out
}

// Complete marks the conversation as finished and permanent
func (c *Conversation) Complete(now time.Time) {
	c.IsCompleted = true
	c.IsTemporary = false
	c.CompletedAt = &now
}

// SetFeedback stores the evaluation and mirrors the overall score for querying
func (c *Conversation) SetFeedback(fb Feedback) {
	c.Feedback = datatypes.NewJSONType(fb)
	if len(fb.Score) > 0 {
		overall := fb.Score[0]
		c.OverallScore = &overall
	}
}

// Duration is the time between creation and completion, or now if still open
func (c *Conversation) Duration(now time.Time) time.Duration {
	if c.CompletedAt != nil {
		return c.CompletedAt.Sub(c.CreatedAt)
	}
	return now.Sub(c.CreatedAt)
}

// Feedback is the stored evaluation of a conversation.
// Score is [overall, sales, technical, compliance].
type Feedback struct {
	Score               []int               `json:"score"`
	Comments            string              `json:"comments"`
	Suggestions         []string            `json:"suggestions"`
	AreasForImprovement []string            `json:"areasForImprovement"`
	DetailedSuggestions DetailedSuggestions `json:"detailedSuggestions"`
}

// NewFeedback flattens an analysis report into stored feedback
func NewFeedback(r *AnalysisReport) Feedback {
	pm := r.PerformanceMetrics
	return Feedback{
		Score: []int{
			clampScore(r.OverallScore),
			clampScore(pm.SalesEffectiveness.Score),
			clampScore(pm.TechnicalProficiency.Score),
			clampScore(pm.ComplianceEthics.Score),
		},
		Comments:            r.Comments,
		Suggestions:         nonNil(r.Suggestions),
		AreasForImprovement: nonNil(r.AreasForImprovement),
		DetailedSuggestions: DetailedSuggestions{
			ConversationFlow:   nonNil(pm.DetailedSuggestions.ConversationFlow),
			ProductKnowledge:   nonNil(pm.DetailedSuggestions.ProductKnowledge),
			CommunicationStyle: nonNil(pm.DetailedSuggestions.CommunicationStyle),
		},
	}
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
