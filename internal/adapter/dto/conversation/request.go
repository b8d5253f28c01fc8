package conversation

import "time"

// StartRequest represents the request to start a training conversation
type StartRequest struct {
	Scenario       string `json:"scenario" validate:"required,scenario"`
	Difficulty     string `json:"difficulty,omitempty" validate:"omitempty,difficulty"`
	AdditionalInfo string `json:"additionalInfo,omitempty" validate:"max=2000"`
}

// SendMessageRequest represents the agent's next message
type SendMessageRequest struct {
	Content        string `json:"content" validate:"required,max=4000"`
	Difficulty     string `json:"difficulty,omitempty" validate:"omitempty,difficulty"`
	AdditionalInfo string `json:"additionalInfo,omitempty" validate:"max=2000"`
}

// MessageInput is a client-side copy of a conversation message
type MessageInput struct {
	Sender    string    `json:"sender" validate:"required,oneof=agent ai system"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// AnalyzeRequest optionally carries the client's transcript
type AnalyzeRequest struct {
	Messages []MessageInput `json:"messages,omitempty" validate:"omitempty,dive"`
}
