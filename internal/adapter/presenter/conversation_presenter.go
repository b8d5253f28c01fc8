package presenter

import (
	"github.com/johnquangdev/loan-agent-trainer/internal/adapter/dto/common"
	conversationDTO "github.com/johnquangdev/loan-agent-trainer/internal/adapter/dto/conversation"
	"github.com/johnquangdev/loan-agent-trainer/internal/domain/entities"
	"github.com/johnquangdev/loan-agent-trainer/internal/usecase/conversation"
)

// ToMessageResponse converts a Message to its DTO
func ToMessageResponse(m entities.Message) conversationDTO.MessageResponse {
	return conversationDTO.MessageResponse{
		Sender:    string(m.Sender),
		Content:   m.Content,
		Timestamp: m.Timestamp,
	}
}

// ToStartResponse renders a freshly started conversation
func ToStartResponse(c *entities.Conversation) *conversationDTO.StartResponse {
	messages := make([]conversationDTO.MessageResponse, len(c.Messages))
	for i, m := range c.Messages {
		messages[i] = ToMessageResponse(m)
	}
	return &conversationDTO.StartResponse{
		ConversationID: c.ID.String(),
		Messages:       messages,
		SessionInfo: conversationDTO.SessionInfo{
			Scenario:     string(c.Scenario),
			MessageCount: len(c.Messages) - 1,
		},
	}
}

// ToSendMessageResponse renders the exchanged pair of messages
func ToSendMessageResponse(out *conversation.SendMessageOutput) *conversationDTO.SendMessageResponse {
	return &conversationDTO.SendMessageResponse{
		Messages: []conversationDTO.MessageResponse{
			ToMessageResponse(out.AgentMessage),
			ToMessageResponse(out.CustomerMessage),
		},
		SessionInfo: conversationDTO.SessionInfo{
			Scenario:     string(out.SessionInfo.Scenario),
			MessageCount: out.SessionInfo.MessageCount,
		},
	}
}

// ToFeedbackResponse converts stored feedback to its DTO
func ToFeedbackResponse(f *entities.Feedback) *conversationDTO.FeedbackResponse {
	if f == nil {
		return nil
	}
	return &conversationDTO.FeedbackResponse{
		Score:               f.Score,
		Comments:            f.Comments,
		Suggestions:         f.Suggestions,
		AreasForImprovement: f.AreasForImprovement,
		DetailedSuggestions: conversationDTO.DetailedSuggestionsResponse{
			ConversationFlow:   f.DetailedSuggestions.ConversationFlow,
			ProductKnowledge:   f.DetailedSuggestions.ProductKnowledge,
			CommunicationStyle: f.DetailedSuggestions.CommunicationStyle,
		},
	}
}

// ToAnalyzeResponse renders the coaching result
func ToAnalyzeResponse(out *conversation.AnalyzeOutput) *conversationDTO.AnalyzeResponse {
	return &conversationDTO.AnalyzeResponse{
		Analysis: out.Analysis,
		Feedback: ToFeedbackResponse(out.Feedback),
		SessionStats: conversationDTO.SessionStats{
			Duration:     out.SessionStats.Duration.Milliseconds(),
			MessageCount: out.SessionStats.MessageCount,
			Scenario:     string(out.SessionStats.Scenario),
		},
	}
}

// ToHistoryResponse renders a page of completed conversations
func ToHistoryResponse(out *conversation.HistoryOutput) *conversationDTO.HistoryResponse {
	items := make([]conversationDTO.HistoryItem, len(out.Conversations))
	for i, c := range out.Conversations {
		items[i] = conversationDTO.HistoryItem{
			ID:          c.ID.String(),
			Scenario:    string(c.Scenario),
			IsCompleted: c.IsCompleted,
			CreatedAt:   c.CreatedAt,
			CompletedAt: c.CompletedAt,
			Score:       c.Feedback.Data().Score,
		}
	}
	return &conversationDTO.HistoryResponse{
		Conversations: items,
		Pagination: common.PaginationResponse{
			Total:   out.Total,
			Page:    out.Page,
			Pages:   out.Pages,
			HasMore: out.HasMore,
		},
	}
}
