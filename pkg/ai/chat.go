package ai

import "context"

// Chat roles accepted by CompleteChat
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn sent to a chat model
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is a provider-agnostic chat completion request.
// Zero Temperature or MaxTokens means the provider default.
type ChatRequest struct {
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

// ChatResponse carries the assistant content of a completion
type ChatResponse struct {
	Content string `json:"content"`
	Model   string `json:"model"`
}

// Completer produces the next assistant message for a chat
type Completer interface {
	CompleteChat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}
