package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/johnquangdev/loan-agent-trainer/internal/domain/entities"
)

// ConversationRepository defines the interface for conversation data access
type ConversationRepository interface {
	// Create creates a new conversation
	Create(ctx context.Context, conversation *entities.Conversation) error

	// FindByID finds a conversation by ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Conversation, error)

	// Update saves messages, feedback and completion state
	Update(ctx context.Context, conversation *entities.Conversation) error

	// DeleteTemporary removes the user's temporary conversations except keepID
	DeleteTemporary(ctx context.Context, userID, keepID uuid.UUID) (int64, error)

	// ListCompleted returns completed, non-temporary conversations, newest first
	ListCompleted(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Conversation, int64, error)

	// FindHighestScored returns the completed conversation with the best overall score
	FindHighestScored(ctx context.Context, userID uuid.UUID) (*entities.Conversation, error)

	// FindLastScored returns the most recently completed conversation that has a score
	FindLastScored(ctx context.Context, userID uuid.UUID) (*entities.Conversation, error)
}
