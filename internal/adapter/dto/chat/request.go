package chat

// Message is one chat turn in OpenAI format
type Message struct {
	Role    string `json:"role" validate:"required,oneof=system user assistant"`
	Content string `json:"content"`
}

// CompletionRequest is an OpenAI-style chat completion request
type CompletionRequest struct {
	Model       string    `json:"model,omitempty"`
	Messages    []Message `json:"messages" validate:"required,min=1,dive"`
	Temperature float64   `json:"temperature,omitempty" validate:"min=0,max=2"`
	MaxTokens   int       `json:"max_tokens,omitempty" validate:"min=0"`
}
