package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	conversationDTO "github.com/johnquangdev/loan-agent-trainer/internal/adapter/dto/conversation"
	"github.com/johnquangdev/loan-agent-trainer/internal/adapter/presenter"
	"github.com/johnquangdev/loan-agent-trainer/internal/domain/entities"
	"github.com/johnquangdev/loan-agent-trainer/internal/usecase/conversation"
)

const noScoresMessage = "No completed conversations with scores found."

// Conversation handles training conversation HTTP requests
type Conversation struct {
	svc    conversation.Service
	logger *zap.Logger
}

// NewConversation creates a new conversation handler
func NewConversation(svc conversation.Service, logger *zap.Logger) *Conversation {
	return &Conversation{svc: svc, logger: logger}
}

// Start handles POST /conversations/start
// @Summary      Start a conversation
// @Description  Opens a practice conversation; the simulated customer speaks first
// @Tags         Conversations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      conversationDTO.StartRequest  true  "Scenario and persona"
// @Success      201      {object}  conversationDTO.StartResponse
// @Failure      400      {object}  map[string]interface{}  "Invalid scenario"
// @Failure      401      {object}  map[string]interface{}  "User not authenticated"
// @Router       /conversations/start [post]
func (h *Conversation) Start(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req conversationDTO.StartRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	started, err := h.svc.Start(c.Request().Context(), conversation.StartInput{
		UserID:         user.ID,
		Scenario:       entities.Scenario(req.Scenario),
		Difficulty:     entities.Difficulty(req.Difficulty),
		AdditionalInfo: req.AdditionalInfo,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccessStatus(h.logger, c, http.StatusCreated, presenter.ToStartResponse(started))
}

// SendMessage handles POST /conversations/:id/message
// @Summary      Send an agent message
// @Description  Appends the agent's message and returns it with the customer's reply
// @Tags         Conversations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                              true  "Conversation ID (UUID)"
// @Param        request  body      conversationDTO.SendMessageRequest  true  "Agent message"
// @Success      200      {object}  conversationDTO.SendMessageResponse
// @Failure      400      {object}  map[string]interface{}  "Empty message or conversation ended"
// @Failure      403      {object}  map[string]interface{}  "Not your conversation"
// @Failure      404      {object}  map[string]interface{}  "Conversation not found"
// @Router       /conversations/{id}/message [post]
func (h *Conversation) SendMessage(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req conversationDTO.SendMessageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	difficulty := entities.Difficulty(req.Difficulty)
	if difficulty == "" {
		difficulty = user.Difficulty
	}

	out, err := h.svc.SendMessage(c.Request().Context(), conversation.SendMessageInput{
		ConversationID: id,
		UserID:         user.ID,
		Content:        req.Content,
		Difficulty:     difficulty,
		AdditionalInfo: req.AdditionalInfo,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToSendMessageResponse(out))
}

// End handles POST /conversations/:id/end
// @Summary      End a conversation
// @Tags         Conversations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Conversation ID (UUID)"
// @Success      200  {object}  conversationDTO.EndResponse
// @Failure      404  {object}  map[string]interface{}  "Conversation not found"
// @Router       /conversations/{id}/end [post]
func (h *Conversation) End(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	out, err := h.svc.End(c.Request().Context(), id, user.ID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, &conversationDTO.EndResponse{
		Message:        "Conversation ended successfully",
		ConversationID: out.ConversationID.String(),
		CanAnalyze:     out.CanAnalyze,
	})
}

// Analyze handles POST /conversations/:id/analyze
// @Summary      Analyze a conversation
// @Description  Scores the conversation and stores the feedback. Messages in the body replace the stored transcript.
// @Tags         Conversations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                          true   "Conversation ID (UUID)"
// @Param        request  body      conversationDTO.AnalyzeRequest  false  "Optional transcript"
// @Success      200      {object}  conversationDTO.AnalyzeResponse
// @Failure      400      {object}  map[string]interface{}  "Not enough conversation data"
// @Failure      404      {object}  map[string]interface{}  "Conversation not found"
// @Router       /conversations/{id}/analyze [post]
func (h *Conversation) Analyze(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req conversationDTO.AnalyzeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	var messages entities.Transcript
	for _, m := range req.Messages {
		messages = append(messages, entities.Message{
			Sender:    entities.Sender(m.Sender),
			Content:   m.Content,
			Timestamp: m.Timestamp,
		})
	}

	out, err := h.svc.Analyze(c.Request().Context(), conversation.AnalyzeInput{
		ConversationID: id,
		UserID:         user.ID,
		Messages:       messages,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToAnalyzeResponse(out))
}

// History handles GET /conversations/history
// @Summary      Conversation history
// @Description  Lists completed conversations, newest first
// @Tags         Conversations
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Page size (default 10, max 100)"
// @Success      200    {object}  conversationDTO.HistoryResponse
// @Router       /conversations/history [get]
func (h *Conversation) History(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	page := intQuery(c, "page", 1)
	limit := intQuery(c, "limit", conversation.DefaultPageSize)

	out, err := h.svc.History(c.Request().Context(), user.ID, page, limit)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToHistoryResponse(out))
}

// HighestScore handles GET /conversations/highest-score
// @Summary      Highest score
// @Tags         Conversations
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  conversationDTO.HighestScoreResponse
// @Router       /conversations/highest-score [get]
func (h *Conversation) HighestScore(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	score, err := h.svc.HighestScore(c.Request().Context(), user.ID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	resp := &conversationDTO.HighestScoreResponse{HighestScore: score}
	if score == nil {
		resp.Message = noScoresMessage
	}
	return HandleSuccess(h.logger, c, resp)
}

// LastScore handles GET /conversations/last-score
// @Summary      Last score
// @Tags         Conversations
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  conversationDTO.LastScoreResponse
// @Router       /conversations/last-score [get]
func (h *Conversation) LastScore(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	last, err := h.svc.LastScore(c.Request().Context(), user.ID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	if last == nil {
		return HandleSuccess(h.logger, c, &conversationDTO.LastScoreResponse{Message: noScoresMessage})
	}
	return HandleSuccess(h.logger, c, &conversationDTO.LastScoreResponse{
		LastScore:   &last.Score,
		CompletedAt: last.CompletedAt,
	})
}
