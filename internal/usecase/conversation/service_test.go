package conversation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/loan-agent-trainer/internal/domain/entities"
	usecaseErrors "github.com/johnquangdev/loan-agent-trainer/internal/usecase/errors"
	"github.com/johnquangdev/loan-agent-trainer/internal/usecase/simulator"
	"github.com/johnquangdev/loan-agent-trainer/pkg/ai"
)

type fakeConversationRepo struct {
	mu            sync.Mutex
	conversations map[uuid.UUID]*entities.Conversation
	updates       int
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{conversations: make(map[uuid.UUID]*entities.Conversation)}
}

func (r *fakeConversationRepo) Create(ctx context.Context, c *entities.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conversations[c.ID] = c
	return nil
}

func (r *fakeConversationRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.conversations[id]
	if !ok {
		return nil, entities.ErrConversationNotFound
	}
	cp := *c
	cp.Messages = append(cp.Messages[:0:0], c.Messages...)
	return &cp, nil
}

func (r *fakeConversationRepo) Update(ctx context.Context, c *entities.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates++
	r.conversations[c.ID] = c
	return nil
}

func (r *fakeConversationRepo) DeleteTemporary(ctx context.Context, userID, keepID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, c := range r.conversations {
		if c.UserID == userID && c.IsTemporary && id != keepID {
			delete(r.conversations, id)
			n++
		}
	}
	return n, nil
}

func (r *fakeConversationRepo) completed(userID uuid.UUID) []*entities.Conversation {
	var out []*entities.Conversation
	for _, c := range r.conversations {
		if c.UserID == userID && c.IsCompleted && !c.IsTemporary {
			out = append(out, c)
		}
	}
	return out
}

func (r *fakeConversationRepo) ListCompleted(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Conversation, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.completed(userID)
	for i := 1; i < len(all); i++ {
		for j := i; j > 0 && all[j].CreatedAt.After(all[j-1].CreatedAt); j-- {
			all[j], all[j-1] = all[j-1], all[j]
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], total, nil
}

func (r *fakeConversationRepo) FindHighestScored(ctx context.Context, userID uuid.UUID) (*entities.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var best *entities.Conversation
	for _, c := range r.completed(userID) {
		if c.OverallScore != nil && (best == nil || *c.OverallScore > *best.OverallScore) {
			best = c
		}
	}
	if best == nil {
		return nil, entities.ErrConversationNotFound
	}
	return best, nil
}

func (r *fakeConversationRepo) FindLastScored(ctx context.Context, userID uuid.UUID) (*entities.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var last *entities.Conversation
	for _, c := range r.completed(userID) {
		if c.OverallScore != nil && (last == nil || c.CompletedAt.After(*last.CompletedAt)) {
			last = c
		}
	}
	if last == nil {
		return nil, entities.ErrConversationNotFound
	}
	return last, nil
}

type fakeCompleter struct {
	content  string
	err      error
	requests []ai.ChatRequest
}

func (f *fakeCompleter) CompleteChat(ctx context.Context, req ai.ChatRequest) (*ai.ChatResponse, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &ai.ChatResponse{Content: f.content}, nil
}

func newService(repo *fakeConversationRepo, completer ai.Completer) *ConversationService {
	return NewConversationService(repo, completer, Options{Temperature: 0.5, MaxTokens: 256}, nil)
}

func startConversation(t *testing.T, svc *ConversationService, userID uuid.UUID, scenario entities.Scenario) *entities.Conversation {
	t.Helper()
	c, err := svc.Start(context.Background(), StartInput{UserID: userID, Scenario: scenario})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	return c
}

func TestStartSeedsOpeningLine(t *testing.T) {
	svc := newService(newFakeConversationRepo(), &fakeCompleter{})
	c := startConversation(t, svc, uuid.New(), entities.ScenarioCreditCard)

	if len(c.Messages) != 1 || c.Messages[0].Sender != entities.SenderCustomer {
		t.Fatalf("expected one customer opener, got %+v", c.Messages)
	}
	if !strings.Contains(c.Messages[0].Content, "credit card") {
		t.Fatalf("unexpected opener %q", c.Messages[0].Content)
	}
	if !c.IsTemporary || c.IsCompleted {
		t.Fatalf("new conversation should be temporary and open")
	}

	c = startConversation(t, svc, uuid.New(), entities.ScenarioInsurance)
	want := "Hi, I'm interested in insurance and could use some guidance. Could you explain things in simple terms?"
	if c.Messages[0].Content != want {
		t.Fatalf("fallback opener = %q", c.Messages[0].Content)
	}
}

func TestStartRejectsUnknownScenario(t *testing.T) {
	svc := newService(newFakeConversationRepo(), &fakeCompleter{})
	_, err := svc.Start(context.Background(), StartInput{UserID: uuid.New(), Scenario: "mortgage"})
	if !errors.Is(err, usecaseErrors.ErrInvalidScenario) {
		t.Fatalf("expected ErrInvalidScenario, got %v", err)
	}
}

func TestSendMessageBuildsPromptAndHistory(t *testing.T) {
	repo := newFakeConversationRepo()
	completer := &fakeCompleter{content: "<think>pondering</think> What would the EMI be?"}
	svc := newService(repo, completer)
	userID := uuid.New()
	c := startConversation(t, svc, userID, entities.ScenarioPersonalLoan)

	out, err := svc.SendMessage(context.Background(), SendMessageInput{
		ConversationID: c.ID,
		UserID:         userID,
		Content:        "  We offer rates from 10.5% per annum.  ",
		Difficulty:     entities.DifficultyHard,
		AdditionalInfo: "Customer earns 40000 a month",
	})
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	if out.CustomerMessage.Content != "What would the EMI be?" {
		t.Fatalf("think block not stripped: %q", out.CustomerMessage.Content)
	}
	if out.AgentMessage.Content != "We offer rates from 10.5% per annum." {
		t.Fatalf("agent content not trimmed: %q", out.AgentMessage.Content)
	}
	if out.SessionInfo.MessageCount != 2 || out.SessionInfo.Scenario != entities.ScenarioPersonalLoan {
		t.Fatalf("unexpected session info %+v", out.SessionInfo)
	}

	req := completer.requests[0]
	if req.Temperature != 0.5 || req.MaxTokens != 256 {
		t.Fatalf("sampling options not forwarded: %+v", req)
	}
	// system, opener as assistant, new agent turn as user
	if len(req.Messages) != 3 {
		t.Fatalf("expected 3 chat messages, got %d", len(req.Messages))
	}
	system := req.Messages[0].Content
	for _, want := range []string{"skeptical", "personal-loan", "Customer earns 40000 a month", "Customer: Hi, I need some money", "Memory & freshness rules:"} {
		if !strings.Contains(system, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
	if req.Messages[1].Role != ai.RoleAssistant || req.Messages[2].Role != ai.RoleUser {
		t.Fatalf("unexpected roles %q %q", req.Messages[1].Role, req.Messages[2].Role)
	}

	stored, _ := repo.FindByID(context.Background(), c.ID)
	if len(stored.Messages) != 3 {
		t.Fatalf("expected 3 stored messages, got %d", len(stored.Messages))
	}
}

func TestSendMessageHistoryWindow(t *testing.T) {
	repo := newFakeConversationRepo()
	completer := &fakeCompleter{content: "Okay."}
	svc := newService(repo, completer)
	userID := uuid.New()
	c := startConversation(t, svc, userID, entities.ScenarioSavings)

	for i := 0; i < 10; i++ {
		if _, err := svc.SendMessage(context.Background(), SendMessageInput{ConversationID: c.ID, UserID: userID, Content: "Tell me more."}); err != nil {
			t.Fatalf("SendMessage %d: %v", i, err)
		}
	}

	last := completer.requests[len(completer.requests)-1]
	// system + window + new agent turn
	if got := len(last.Messages); got != HistoryWindow+2 {
		t.Fatalf("expected %d chat messages, got %d", HistoryWindow+2, got)
	}
}

func TestSendMessageDefaultsToEasyPersona(t *testing.T) {
	completer := &fakeCompleter{content: "Sure."}
	svc := newService(newFakeConversationRepo(), completer)
	userID := uuid.New()
	c := startConversation(t, svc, userID, entities.ScenarioArea)

	if _, err := svc.SendMessage(context.Background(), SendMessageInput{ConversationID: c.ID, UserID: userID, Content: "Hello"}); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	system := completer.requests[0].Messages[0].Content
	if !strings.Contains(system, "friendly") || !strings.Contains(system, defaultAdditionalInfo) {
		t.Fatalf("expected easy persona with default context, got %q", system)
	}
}

func TestSendMessageFallbacks(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"connection refused", errors.New("dial tcp 127.0.0.1:443: connect: connection refused"), connectionFallbackReply},
		{"other failure", errors.New("status 500"), genericFallbackReply},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(newFakeConversationRepo(), &fakeCompleter{err: tt.err})
			userID := uuid.New()
			c := startConversation(t, svc, userID, entities.ScenarioDemat)

			out, err := svc.SendMessage(context.Background(), SendMessageInput{ConversationID: c.ID, UserID: userID, Content: "Hi"})
			if err != nil {
				t.Fatalf("SendMessage: %v", err)
			}
			if out.CustomerMessage.Content != tt.want {
				t.Fatalf("got %q, want %q", out.CustomerMessage.Content, tt.want)
			}
		})
	}
}

func TestSendMessageErrors(t *testing.T) {
	repo := newFakeConversationRepo()
	svc := newService(repo, &fakeCompleter{content: "Ok."})
	owner := uuid.New()
	c := startConversation(t, svc, owner, entities.ScenarioDemat)
	ctx := context.Background()

	if _, err := svc.SendMessage(ctx, SendMessageInput{ConversationID: c.ID, UserID: owner, Content: "  "}); !errors.Is(err, usecaseErrors.ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
	if _, err := svc.SendMessage(ctx, SendMessageInput{ConversationID: uuid.New(), UserID: owner, Content: "Hi"}); !errors.Is(err, usecaseErrors.ErrConversationNotFound) {
		t.Fatalf("expected ErrConversationNotFound, got %v", err)
	}
	if _, err := svc.SendMessage(ctx, SendMessageInput{ConversationID: c.ID, UserID: uuid.New(), Content: "Hi"}); !errors.Is(err, usecaseErrors.ErrConversationAccess) {
		t.Fatalf("expected ErrConversationAccess, got %v", err)
	}
	if _, err := svc.SendMessage(ctx, SendMessageInput{ConversationID: c.ID, UserID: owner, Content: "Hi", Difficulty: "medium"}); !errors.Is(err, usecaseErrors.ErrInvalidDifficulty) {
		t.Fatalf("expected ErrInvalidDifficulty, got %v", err)
	}

	if _, err := svc.End(ctx, c.ID, owner); err != nil {
		t.Fatalf("End: %v", err)
	}
	if _, err := svc.SendMessage(ctx, SendMessageInput{ConversationID: c.ID, UserID: owner, Content: "Hi"}); !errors.Is(err, usecaseErrors.ErrConversationEnded) {
		t.Fatalf("expected ErrConversationEnded, got %v", err)
	}
}

func TestEndDeletesOtherTemporaryConversations(t *testing.T) {
	repo := newFakeConversationRepo()
	svc := newService(repo, &fakeCompleter{content: "Ok."})
	userID := uuid.New()
	ctx := context.Background()

	draft := startConversation(t, svc, userID, entities.ScenarioSavings)
	other := startConversation(t, svc, uuid.New(), entities.ScenarioSavings)
	c := startConversation(t, svc, userID, entities.ScenarioSavings)

	out, err := svc.End(ctx, c.ID, userID)
	if err != nil {
		t.Fatalf("End: %v", err)
	}
	if out.CanAnalyze {
		t.Fatalf("opener-only conversation should not be analyzable")
	}

	if _, err := repo.FindByID(ctx, draft.ID); !errors.Is(err, entities.ErrConversationNotFound) {
		t.Fatalf("draft should have been deleted")
	}
	if _, err := repo.FindByID(ctx, other.ID); err != nil {
		t.Fatalf("another user's draft must survive: %v", err)
	}
	stored, err := repo.FindByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("ended conversation missing: %v", err)
	}
	if !stored.IsCompleted || stored.IsTemporary || stored.CompletedAt == nil {
		t.Fatalf("conversation not completed: %+v", stored)
	}
}

const analysisJSON = "```json\n" + `{
  "overallScore": 71.6,
  "comments": "Solid discovery.",
  "suggestions": ["Disclose fees"],
  "areasForImprovement": ["Compliance"],
  "performanceMetrics": {
    "salesEffectiveness": {"score": 80, "strengths": ["Open questions"]},
    "technicalProficiency": {"score": 70, "strengths": []},
    "complianceEthics": {"score": 130, "strengths": []},
    "detailedSuggestions": {"conversationFlow": ["a"], "productKnowledge": ["b"], "communicationStyle": ["c"]}
  }
}` + "\n```"

func conversationWithTurns(t *testing.T, svc *ConversationService, userID uuid.UUID) *entities.Conversation {
	t.Helper()
	c := startConversation(t, svc, userID, entities.ScenarioPersonalLoan)
	if _, err := svc.SendMessage(context.Background(), SendMessageInput{ConversationID: c.ID, UserID: userID, Content: "What amount do you need?"}); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	return c
}

func TestAnalyzeStoresFeedback(t *testing.T) {
	repo := newFakeConversationRepo()
	completer := &fakeCompleter{content: "Around 2 lakh."}
	svc := newService(repo, completer)
	userID := uuid.New()
	c := conversationWithTurns(t, svc, userID)

	completer.content = "<think>scoring</think>" + analysisJSON
	out, err := svc.Analyze(context.Background(), AnalyzeInput{ConversationID: c.ID, UserID: userID})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if out.Feedback == nil {
		t.Fatalf("expected feedback")
	}
	want := []int{72, 80, 70, 100}
	for i, v := range want {
		if out.Feedback.Score[i] != v {
			t.Fatalf("score = %v, want %v", out.Feedback.Score, want)
		}
	}
	if strings.Contains(out.Analysis, "<think>") {
		t.Fatalf("analysis text still has think block")
	}
	if out.SessionStats.MessageCount != 2 || out.SessionStats.Scenario != entities.ScenarioPersonalLoan {
		t.Fatalf("unexpected stats %+v", out.SessionStats)
	}

	req := completer.requests[len(completer.requests)-1]
	if req.Temperature != analysisTemperature || req.MaxTokens != analysisMaxTokens {
		t.Fatalf("unexpected sampling %+v", req)
	}
	if req.Messages[0].Content != coachSystemMessage {
		t.Fatalf("unexpected system message %q", req.Messages[0].Content)
	}
	prompt := req.Messages[1].Content
	for _, want := range []string{"CONVERSATION:", "Loan Agent: What amount do you need?", "Customer: Around 2 lakh.", "Scenario: personal-loan"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("analysis prompt missing %q", want)
		}
	}

	stored, _ := repo.FindByID(context.Background(), c.ID)
	if stored.OverallScore == nil || *stored.OverallScore != 72 {
		t.Fatalf("overall score not mirrored: %v", stored.OverallScore)
	}
}

func TestAnalyzeNotEnoughMessages(t *testing.T) {
	svc := newService(newFakeConversationRepo(), &fakeCompleter{content: analysisJSON})
	userID := uuid.New()
	c := startConversation(t, svc, userID, entities.ScenarioSavings)

	_, err := svc.Analyze(context.Background(), AnalyzeInput{ConversationID: c.ID, UserID: userID})
	if !errors.Is(err, usecaseErrors.ErrNotEnoughMessages) {
		t.Fatalf("expected ErrNotEnoughMessages, got %v", err)
	}
}

func TestAnalyzeUsesClientMessages(t *testing.T) {
	completer := &fakeCompleter{content: analysisJSON}
	repo := newFakeConversationRepo()
	svc := newService(repo, completer)
	userID := uuid.New()
	c := startConversation(t, svc, userID, entities.ScenarioSavings)

	supplied := entities.Transcript{
		entities.NewMessage(entities.SenderCustomer, "I want to save."),
		entities.NewMessage(entities.SenderSystem, "ignored"),
		entities.NewMessage(entities.SenderAgent, "How much each month?"),
		entities.NewMessage(entities.SenderCustomer, "About 5000."),
	}
	out, err := svc.Analyze(context.Background(), AnalyzeInput{ConversationID: c.ID, UserID: userID, Messages: supplied})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if out.SessionStats.MessageCount != 2 {
		t.Fatalf("system message should be dropped, stats %+v", out.SessionStats)
	}
	if !strings.Contains(completer.requests[0].Messages[1].Content, "Customer: About 5000.") {
		t.Fatalf("supplied transcript not analyzed")
	}

	stored := repo.conversations[c.ID]
	if len(stored.Messages) != 3 || stored.Messages[2].Content != "About 5000." {
		t.Fatalf("supplied transcript not stored: %+v", stored.Messages)
	}
	if stored.Feedback.Data().Score[0] == 0 {
		t.Fatalf("feedback not stored with the supplied transcript")
	}
}

func TestAnalyzeFallbackOnProviderError(t *testing.T) {
	completer := &fakeCompleter{content: "Fine."}
	svc := newService(newFakeConversationRepo(), completer)
	userID := uuid.New()
	c := conversationWithTurns(t, svc, userID)

	completer.err = errors.New("status 503")
	out, err := svc.Analyze(context.Background(), AnalyzeInput{ConversationID: c.ID, UserID: userID})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if out.Feedback != nil {
		t.Fatalf("fallback must not carry feedback")
	}
	for _, want := range []string{"Analysis temporarily unavailable", "- Scenario: personal-loan", "- Messages exchanged: 2"} {
		if !strings.Contains(out.Analysis, want) {
			t.Errorf("fallback missing %q", want)
		}
	}
}

func TestAnalyzeWithSimulator(t *testing.T) {
	svc := newService(newFakeConversationRepo(), simulator.New(nil))
	userID := uuid.New()
	c := startConversation(t, svc, userID, entities.ScenarioPersonalLoan)
	ctx := context.Background()

	for _, msg := range []string{
		"What do you need the loan for?",
		"Our personal loan has an interest rate of 11% and the EMI depends on tenure. Please review the terms and processing fees.",
	} {
		if _, err := svc.SendMessage(ctx, SendMessageInput{ConversationID: c.ID, UserID: userID, Content: msg}); err != nil {
			t.Fatalf("SendMessage: %v", err)
		}
	}

	out, err := svc.Analyze(ctx, AnalyzeInput{ConversationID: c.ID, UserID: userID})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if out.Feedback == nil {
		t.Fatalf("simulator analysis should parse, got %q", out.Analysis)
	}
	for _, s := range out.Feedback.Score {
		if s < 0 || s > 100 {
			t.Fatalf("score out of range: %v", out.Feedback.Score)
		}
	}
	if out.Feedback.Score[3] != 75 {
		t.Fatalf("compliance should credit the disclosure, got %v", out.Feedback.Score)
	}
}

func completedConversation(repo *fakeConversationRepo, userID uuid.UUID, created time.Time, score *int) *entities.Conversation {
	c := entities.NewConversation(userID, entities.ScenarioSavings)
	c.CreatedAt = created
	c.Complete(created.Add(10 * time.Minute))
	c.OverallScore = score
	repo.conversations[c.ID] = c
	return c
}

func intp(v int) *int { return &v }

func TestHistoryPagination(t *testing.T) {
	repo := newFakeConversationRepo()
	svc := newService(repo, &fakeCompleter{})
	userID := uuid.New()
	base := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		completedConversation(repo, userID, base.Add(time.Duration(i)*time.Hour), nil)
	}
	// open drafts are not history
	repo.conversations[uuid.New()] = entities.NewConversation(userID, entities.ScenarioSavings)

	first, err := svc.History(context.Background(), userID, 0, 0)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if first.Page != 1 || len(first.Conversations) != DefaultPageSize || first.Total != 12 || first.Pages != 2 || !first.HasMore {
		t.Fatalf("unexpected first page %+v", first)
	}
	if !first.Conversations[0].CreatedAt.Equal(base.Add(11 * time.Hour)) {
		t.Fatalf("history should be newest first")
	}

	second, err := svc.History(context.Background(), userID, 2, 10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(second.Conversations) != 2 || second.HasMore {
		t.Fatalf("unexpected second page %+v", second)
	}
}

func TestScores(t *testing.T) {
	repo := newFakeConversationRepo()
	svc := newService(repo, &fakeCompleter{})
	userID := uuid.New()
	ctx := context.Background()

	if best, err := svc.HighestScore(ctx, userID); err != nil || best != nil {
		t.Fatalf("expected nil highest score, got %v %v", best, err)
	}
	if last, err := svc.LastScore(ctx, userID); err != nil || last != nil {
		t.Fatalf("expected nil last score, got %v %v", last, err)
	}

	base := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	completedConversation(repo, userID, base, intp(88))
	latest := completedConversation(repo, userID, base.Add(48*time.Hour), intp(64))
	completedConversation(repo, userID, base.Add(72*time.Hour), nil)

	best, err := svc.HighestScore(ctx, userID)
	if err != nil || best == nil || *best != 88 {
		t.Fatalf("highest score = %v, %v", best, err)
	}
	last, err := svc.LastScore(ctx, userID)
	if err != nil || last == nil || last.Score != 64 || !last.CompletedAt.Equal(*latest.CompletedAt) {
		t.Fatalf("last score = %+v, %v", last, err)
	}
}
