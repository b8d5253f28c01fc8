package conversation

import (
	"time"

	"github.com/johnquangdev/loan-agent-trainer/internal/adapter/dto/common"
)

// MessageResponse is one conversation turn
type MessageResponse struct {
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionInfo summarizes the conversation so far
type SessionInfo struct {
	Scenario     string `json:"scenario"`
	MessageCount int    `json:"messageCount"`
}

// StartResponse is returned when a conversation is opened
type StartResponse struct {
	ConversationID string            `json:"conversationId"`
	Messages       []MessageResponse `json:"messages"`
	SessionInfo    SessionInfo       `json:"sessionInfo"`
}

// SendMessageResponse carries the agent message and the customer's reply
type SendMessageResponse struct {
	Messages    []MessageResponse `json:"messages"`
	SessionInfo SessionInfo       `json:"sessionInfo"`
}

// EndResponse is returned when a conversation is completed
type EndResponse struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversationId"`
	CanAnalyze     bool   `json:"canAnalyze"`
}

// FeedbackResponse is the stored evaluation. Score is [overall, sales, technical, compliance].
type FeedbackResponse struct {
	Score               []int                       `json:"score"`
	Comments            string                      `json:"comments"`
	Suggestions         []string                    `json:"suggestions"`
	AreasForImprovement []string                    `json:"areasForImprovement"`
	DetailedSuggestions DetailedSuggestionsResponse `json:"detailedSuggestions"`
}

// DetailedSuggestionsResponse holds coaching text per area
type DetailedSuggestionsResponse struct {
	ConversationFlow   []string `json:"conversationFlow"`
	ProductKnowledge   []string `json:"productKnowledge"`
	CommunicationStyle []string `json:"communicationStyle"`
}

// SessionStats describes the analyzed session; Duration is in milliseconds
type SessionStats struct {
	Duration     int64  `json:"duration"`
	MessageCount int    `json:"messageCount"`
	Scenario     string `json:"scenario"`
}

// AnalyzeResponse is the coaching result
type AnalyzeResponse struct {
	Analysis     string            `json:"analysis"`
	Feedback     *FeedbackResponse `json:"feedback,omitempty"`
	SessionStats SessionStats      `json:"sessionStats"`
}

// HistoryItem is one completed conversation in the history listing
type HistoryItem struct {
	ID          string     `json:"id"`
	Scenario    string     `json:"scenario"`
	IsCompleted bool       `json:"isCompleted"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Score       []int      `json:"score,omitempty"`
}

// HistoryResponse is one page of history
type HistoryResponse struct {
	Conversations []HistoryItem             `json:"conversations"`
	Pagination    common.PaginationResponse `json:"pagination"`
}

// HighestScoreResponse carries the best overall score, null when none exist
type HighestScoreResponse struct {
	HighestScore *int   `json:"highestScore"`
	Message      string `json:"message,omitempty"`
}

// LastScoreResponse carries the latest overall score, null when none exist
type LastScoreResponse struct {
	LastScore   *int       `json:"lastScore"`
	CompletedAt *time.Time `json:"completedAt"`
	Message     string     `json:"message,omitempty"`
}
