package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"go.uber.org/zap"

	"github.com/johnquangdev/loan-agent-trainer/pkg/config"
)

const (
	DefaultGroqBaseURL = "https://api.groq.com/openai/v1"
	DefaultModel       = "llama3-8b-8192"
)

// ErrEmptyCompletion is returned when the provider answers without choices
var ErrEmptyCompletion = errors.New("empty response from groq")

// GroqClient talks to Groq's OpenAI-compatible chat completion endpoint
type GroqClient struct {
	client      openai.Client
	model       string
	temperature float64
	maxTokens   int
	timeout     time.Duration
	maxElapsed  time.Duration
	logger      *zap.Logger
}

var _ Completer = (*GroqClient)(nil)

// NewGroqClient creates a Groq client from the LLM config section
func NewGroqClient(cfg config.LLMConfig, logger *zap.Logger) *GroqClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultGroqBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &GroqClient{
		client: openai.NewClient(
			option.WithAPIKey(cfg.APIKey),
			option.WithBaseURL(baseURL),
			// retries are driven by backoff below
			option.WithMaxRetries(0),
		),
		model:       model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		timeout:     timeout,
		maxElapsed:  2 * timeout,
		logger:      logger,
	}
}

// CompleteChat sends the messages and returns the first choice's content
func (g *GroqClient) CompleteChat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(g.model),
		Messages: toOpenAIMessages(req.Messages),
	}
	temperature := req.Temperature
	if temperature == 0 {
		temperature = g.temperature
	}
	if temperature > 0 {
		params.Temperature = openai.Float(temperature)
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = g.maxTokens
	}
	if maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(maxTokens))
	}

	var result *openai.ChatCompletion
	operation := func() error {
		callCtx, cancel := context.WithTimeout(ctx, g.timeout)
		defer cancel()

		resp, err := g.client.Chat.Completions.New(callCtx, params)
		if err != nil {
			if isRetryable(err) {
				if g.logger != nil {
					g.logger.Warn("⚠️ Groq request failed, retrying", zap.Error(err))
				}
				return err
			}
			return backoff.Permanent(err)
		}
		result = resp
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 5 * time.Second
	bo.MaxElapsedTime = g.maxElapsed

	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		return nil, fmt.Errorf("failed to complete chat: %w", err)
	}
	if len(result.Choices) == 0 {
		return nil, ErrEmptyCompletion
	}

	model := result.Model
	if model == "" {
		model = g.model
	}
	return &ChatResponse{Content: result.Choices[0].Message.Content, Model: model}, nil
}

func toOpenAIMessages(msgs []ChatMessage) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}

// isRetryable is true for rate limits, server errors and transport failures
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= http.StatusInternalServerError
	}
	return !strings.Contains(err.Error(), "status code")
}

// IsConnectionRefused reports whether err means the provider could not be reached at all
func IsConnectionRefused(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "connection refused")
}
