package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	appErrors "github.com/johnquangdev/loan-agent-trainer/errors"
	"github.com/johnquangdev/loan-agent-trainer/internal/domain/entities"
	"github.com/johnquangdev/loan-agent-trainer/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/loan-agent-trainer/internal/usecase/auth"
	"github.com/johnquangdev/loan-agent-trainer/internal/usecase/conversation"
	usecaseErrors "github.com/johnquangdev/loan-agent-trainer/internal/usecase/errors"
	"github.com/johnquangdev/loan-agent-trainer/internal/usecase/streak"
	"github.com/johnquangdev/loan-agent-trainer/pkg/ai"
	pkgvalidator "github.com/johnquangdev/loan-agent-trainer/pkg/validator"
)

type fakeAuth struct {
	out      *auth.AuthOutput
	err      error
	register auth.RegisterInput
}

func (f *fakeAuth) Register(ctx context.Context, input auth.RegisterInput) (*auth.AuthOutput, error) {
	f.register = input
	return f.out, f.err
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) (*auth.AuthOutput, error) {
	return f.out, f.err
}

func (f *fakeAuth) Me(ctx context.Context, userID uuid.UUID) (*entities.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.out.User, nil
}

func (f *fakeAuth) ValidateSession(ctx context.Context, token string) (*entities.User, error) {
	return nil, usecaseErrors.ErrTokenInvalid
}

type fakeConversations struct {
	err     error
	sent    conversation.SendMessageInput
	history struct{ page, limit int }
	highest *int
	last    *conversation.LastScoreOutput
}

func (f *fakeConversations) Start(ctx context.Context, input conversation.StartInput) (*entities.Conversation, error) {
	if f.err != nil {
		return nil, f.err
	}
	return entities.NewConversation(input.UserID, input.Scenario), nil
}

func (f *fakeConversations) SendMessage(ctx context.Context, input conversation.SendMessageInput) (*conversation.SendMessageOutput, error) {
	f.sent = input
	if f.err != nil {
		return nil, f.err
	}
	return &conversation.SendMessageOutput{
		AgentMessage:    entities.NewMessage(entities.SenderAgent, input.Content),
		CustomerMessage: entities.NewMessage(entities.SenderCustomer, "Tell me more."),
		SessionInfo:     conversation.SessionInfo{MessageCount: 3, Scenario: entities.ScenarioIncome},
	}, nil
}

func (f *fakeConversations) End(ctx context.Context, conversationID, userID uuid.UUID) (*conversation.EndOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &conversation.EndOutput{ConversationID: conversationID, CanAnalyze: true}, nil
}

func (f *fakeConversations) Analyze(ctx context.Context, input conversation.AnalyzeInput) (*conversation.AnalyzeOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &conversation.AnalyzeOutput{Analysis: "ok"}, nil
}

func (f *fakeConversations) History(ctx context.Context, userID uuid.UUID, page, limit int) (*conversation.HistoryOutput, error) {
	f.history.page, f.history.limit = page, limit
	return &conversation.HistoryOutput{Page: page}, f.err
}

func (f *fakeConversations) HighestScore(ctx context.Context, userID uuid.UUID) (*int, error) {
	return f.highest, f.err
}

func (f *fakeConversations) LastScore(ctx context.Context, userID uuid.UUID) (*conversation.LastScoreOutput, error) {
	return f.last, f.err
}

type fakeStreaks struct {
	err   error
	score *int
}

func (f *fakeStreaks) UpdateStreak(ctx context.Context, userID uuid.UUID, todayScore *int) (*streak.UpdateOutput, error) {
	f.score = todayScore
	if f.err != nil {
		return nil, f.err
	}
	return &streak.UpdateOutput{CurrentStreak: 2, Message: "Streak updated"}, nil
}

func (f *fakeStreaks) GetStreak(ctx context.Context, userID uuid.UUID) (*streak.GetOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &streak.GetOutput{CurrentStreak: 2}, nil
}

type fakeCompleter struct {
	resp *ai.ChatResponse
	err  error
}

func (f fakeCompleter) CompleteChat(ctx context.Context, req ai.ChatRequest) (*ai.ChatResponse, error) {
	return f.resp, f.err
}

// envelope is the union of the success and error bodies
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Info    string          `json:"info"`
	Data    json.RawMessage `json:"data"`
}

func newContext(method, path, body string, user *entities.User) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = pkgvalidator.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if user != nil {
		c.Set(middleware.UserKey, user)
		c.Set(middleware.UserIDKey, user.ID)
	}
	return c, rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid json body %q: %v", rec.Body.String(), err)
	}
	return env
}

func agent() *entities.User {
	return entities.NewUser("asha", "asha@bank.com", "hash")
}

func TestAuthRegister(t *testing.T) {
	user := agent()
	svc := &fakeAuth{out: &auth.AuthOutput{User: user, AccessToken: "tok", ExpiresIn: 3600}}
	h := NewAuth(svc, nil)

	c, rec := newContext(http.MethodPost, "/v1/auth/register",
		`{"username":"asha","email":"asha@bank.com","password":"secret1"}`, nil)
	if err := h.Register(c); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if svc.register.Username != "asha" || svc.register.Password != "secret1" {
		t.Fatalf("input not forwarded: %+v", svc.register)
	}

	env := decode(t, rec)
	var data struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("invalid data: %v", err)
	}
	if env.Code != int(appErrors.ErrorCode_HTTP_OK) || data.AccessToken != "tok" || data.TokenType != "Bearer" {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestAuthRegisterErrors(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{"missing fields", `{"email":"a@b.com"}`, nil, http.StatusBadRequest},
		{"malformed", `{`, nil, http.StatusBadRequest},
		{"email taken", `{"username":"a","email":"a@b.com","password":"secret1"}`, usecaseErrors.ErrEmailAlreadyUsed, http.StatusBadRequest},
		{"weak password", `{"username":"a","email":"a@b.com","password":"x"}`, usecaseErrors.ErrWeakPassword, http.StatusBadRequest},
		{"store failure", `{"username":"a","email":"a@b.com","password":"secret1"}`, errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewAuth(&fakeAuth{err: tc.err}, nil)
			c, rec := newContext(http.MethodPost, "/v1/auth/register", tc.body, nil)
			if err := h.Register(c); err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestAuthInternalErrorHidesCause(t *testing.T) {
	h := NewAuth(&fakeAuth{err: errors.New("pq: connection refused")}, nil)
	c, rec := newContext(http.MethodPost, "/v1/auth/login", `{"email":"a@b.com","password":"secret1"}`, nil)
	if err := h.Login(c); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	env := decode(t, rec)
	if rec.Code != http.StatusInternalServerError || strings.Contains(env.Info, "pq") {
		t.Fatalf("internal cause leaked: %s", rec.Body.String())
	}
}

func TestAuthMeRequiresUser(t *testing.T) {
	h := NewAuth(&fakeAuth{}, nil)
	c, rec := newContext(http.MethodGet, "/v1/auth/me", "", nil)
	if err := h.Me(c); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestConversationSendMessageUsesProfileDifficulty(t *testing.T) {
	user := agent()
	user.Difficulty = entities.DifficultyHard
	svc := &fakeConversations{}
	h := NewConversation(svc, nil)

	id := uuid.New()
	c, rec := newContext(http.MethodPost, "/", `{"content":"Hello, I can help with a home loan."}`, user)
	c.SetParamNames("id")
	c.SetParamValues(id.String())

	if err := h.SendMessage(c); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.sent.Difficulty != entities.DifficultyHard {
		t.Fatalf("expected profile difficulty, got %q", svc.sent.Difficulty)
	}
	if svc.sent.ConversationID != id || svc.sent.UserID != user.ID {
		t.Fatalf("ids not forwarded: %+v", svc.sent)
	}
}

func TestConversationErrorStatuses(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   appErrors.ErrorCode
	}{
		{usecaseErrors.ErrConversationNotFound, http.StatusNotFound, appErrors.ErrorCode_CONVERSATION_NOT_FOUND},
		{usecaseErrors.ErrConversationAccess, http.StatusForbidden, appErrors.ErrorCode_CONVERSATION_ACCESS_DENIED},
		{usecaseErrors.ErrConversationEnded, http.StatusBadRequest, appErrors.ErrorCode_CONVERSATION_ENDED},
		{usecaseErrors.ErrNotEnoughMessages, http.StatusBadRequest, appErrors.ErrorCode_CONVERSATION_NOT_ENOUGH_MSG},
	}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			h := NewConversation(&fakeConversations{err: fmt.Errorf("wrapped: %w", tc.err)}, nil)
			c, rec := newContext(http.MethodPost, "/", `{}`, agent())
			c.SetParamNames("id")
			c.SetParamValues(uuid.NewString())

			if err := h.Analyze(c); err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			env := decode(t, rec)
			if rec.Code != tc.status || env.Code != int(tc.code) {
				t.Fatalf("expected %d/%d, got %d/%d", tc.status, tc.code, rec.Code, env.Code)
			}
		})
	}
}

func TestConversationInvalidID(t *testing.T) {
	h := NewConversation(&fakeConversations{}, nil)
	c, rec := newContext(http.MethodPost, "/", "", agent())
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	if err := h.End(c); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestConversationStartRejectsUnknownScenario(t *testing.T) {
	h := NewConversation(&fakeConversations{}, nil)
	c, rec := newContext(http.MethodPost, "/", `{"scenario":"car_loan"}`, agent())
	if err := h.Start(c); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestConversationHistoryQuery(t *testing.T) {
	svc := &fakeConversations{}
	h := NewConversation(svc, nil)

	c, _ := newContext(http.MethodGet, "/v1/conversations/history?page=3&limit=abc", "", agent())
	if err := h.History(c); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if svc.history.page != 3 || svc.history.limit != conversation.DefaultPageSize {
		t.Fatalf("unexpected paging %+v", svc.history)
	}
}

func TestConversationScoresWithoutData(t *testing.T) {
	h := NewConversation(&fakeConversations{}, nil)

	c, rec := newContext(http.MethodGet, "/", "", agent())
	if err := h.HighestScore(c); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if !strings.Contains(rec.Body.String(), noScoresMessage) {
		t.Fatalf("expected no-scores message, got %s", rec.Body.String())
	}

	c, rec = newContext(http.MethodGet, "/", "", agent())
	if err := h.LastScore(c); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if !strings.Contains(rec.Body.String(), noScoresMessage) {
		t.Fatalf("expected no-scores message, got %s", rec.Body.String())
	}
}

func TestConversationLastScore(t *testing.T) {
	done := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)
	h := NewConversation(&fakeConversations{last: &conversation.LastScoreOutput{Score: 81, CompletedAt: &done}}, nil)

	c, rec := newContext(http.MethodGet, "/", "", agent())
	if err := h.LastScore(c); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if !strings.Contains(rec.Body.String(), "81") {
		t.Fatalf("expected score in body, got %s", rec.Body.String())
	}
}

func TestStreakUpdate(t *testing.T) {
	user := agent()
	svc := &fakeStreaks{}
	h := NewStreak(svc, nil)

	c, rec := newContext(http.MethodPost, "/", `{"todayScore":72}`, user)
	c.SetParamNames("userId")
	c.SetParamValues(user.ID.String())

	if err := h.Update(c); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.score == nil || *svc.score != 72 {
		t.Fatalf("score not forwarded")
	}
}

func TestStreakUpdatePassiveCheck(t *testing.T) {
	user := agent()
	svc := &fakeStreaks{}
	h := NewStreak(svc, nil)

	c, _ := newContext(http.MethodPost, "/", `{}`, user)
	c.SetParamNames("userId")
	c.SetParamValues(user.ID.String())

	if err := h.Update(c); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if svc.score != nil {
		t.Fatalf("expected nil score for passive check")
	}
}

func TestStreakUpdateRejections(t *testing.T) {
	user := agent()
	cases := []struct {
		name   string
		target string
		body   string
		err    error
		status int
	}{
		{"other user", uuid.NewString(), `{"todayScore":50}`, nil, http.StatusForbidden},
		{"score too high", user.ID.String(), `{"todayScore":101}`, nil, http.StatusBadRequest},
		{"busy", user.ID.String(), `{"todayScore":50}`, usecaseErrors.ErrStreakBusy, http.StatusConflict},
		{"missing user", user.ID.String(), `{}`, usecaseErrors.ErrUserNotFound, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewStreak(&fakeStreaks{err: tc.err}, nil)
			c, rec := newContext(http.MethodPost, "/", tc.body, user)
			c.SetParamNames("userId")
			c.SetParamValues(tc.target)

			if err := h.Update(c); err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestStreakGetAsAdmin(t *testing.T) {
	admin := agent()
	admin.Role = entities.RoleAdmin
	h := NewStreak(&fakeStreaks{}, nil)

	c, rec := newContext(http.MethodGet, "/", "", admin)
	c.SetParamNames("userId")
	c.SetParamValues(uuid.NewString())

	if err := h.Get(c); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("admin should read any streak, got %d", rec.Code)
	}
}

func TestChatCompletions(t *testing.T) {
	h := NewChat(fakeCompleter{resp: &ai.ChatResponse{Content: "Hello there", Model: "local-simulator"}}, nil)

	c, rec := newContext(http.MethodPost, "/", `{"messages":[{"role":"user","content":"hi"}]}`, agent())
	if err := h.Completions(c); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	env := decode(t, rec)
	var data struct {
		Object  string `json:"object"`
		Choices []struct {
			Message struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("invalid data: %v", err)
	}
	if data.Object != "chat.completion" || len(data.Choices) != 1 || data.Choices[0].Message.Content != "Hello there" {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
	if data.Choices[0].Message.Role != ai.RoleAssistant {
		t.Fatalf("expected assistant role, got %q", data.Choices[0].Message.Role)
	}
}

func TestChatCompletionsErrors(t *testing.T) {
	h := NewChat(fakeCompleter{err: errors.New("connection refused")}, nil)
	c, rec := newContext(http.MethodPost, "/", `{"messages":[{"role":"user","content":"hi"}]}`, agent())
	if err := h.Completions(c); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}

	c, rec = newContext(http.MethodPost, "/", `{"messages":[{"role":"robot","content":"hi"}]}`, agent())
	if err := h.Completions(c); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown role, got %d", rec.Code)
	}
}
