package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/loan-agent-trainer/errors"
	chatDTO "github.com/johnquangdev/loan-agent-trainer/internal/adapter/dto/chat"
	"github.com/johnquangdev/loan-agent-trainer/pkg/ai"
)

// Chat exposes the configured completer as an OpenAI-style endpoint
type Chat struct {
	completer ai.Completer
	logger    *zap.Logger
}

// NewChat creates a new chat handler
func NewChat(completer ai.Completer, logger *zap.Logger) *Chat {
	return &Chat{completer: completer, logger: logger}
}

// Completions handles POST /llm/chat/completions
// @Summary      Chat completion
// @Description  Runs the configured model (the local simulator by default) on an OpenAI-style message list
// @Tags         LLM
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      chatDTO.CompletionRequest  true  "Messages"
// @Success      200      {object}  chatDTO.CompletionResponse
// @Failure      400      {object}  map[string]interface{}  "Invalid messages"
// @Failure      503      {object}  map[string]interface{}  "Model unavailable"
// @Router       /llm/chat/completions [post]
func (h *Chat) Completions(c echo.Context) error {
	var req chatDTO.CompletionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	messages := make([]ai.ChatMessage, len(req.Messages))
	for i, m := range req.Messages {
		messages[i] = ai.ChatMessage{Role: m.Role, Content: m.Content}
	}

	resp, err := h.completer.CompleteChat(c.Request().Context(), ai.ChatRequest{
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		if h.logger != nil {
			h.logger.Error("❌ Chat completion failed", zap.Error(err))
		}
		return HandleError(h.logger, c, errors.ErrAIServiceUnavailable("chat completion"))
	}

	return HandleSuccess(h.logger, c, &chatDTO.CompletionResponse{
		ID:      "chatcmpl-" + uuid.NewString(),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   resp.Model,
		Choices: []chatDTO.Choice{{
			Index:        0,
			Message:      chatDTO.Message{Role: ai.RoleAssistant, Content: resp.Content},
			FinishReason: "stop",
		}},
	})
}
