package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/loan-agent-trainer/internal/domain/entities"
	"github.com/johnquangdev/loan-agent-trainer/internal/domain/repositories"
)

// ConversationRepository implements the conversation repository interface using GORM
type ConversationRepository struct {
	db *gorm.DB
}

var _ repositories.ConversationRepository = (*ConversationRepository)(nil)

// NewConversationRepository creates a new conversation repository
func NewConversationRepository(db *gorm.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// Create creates a new conversation
func (r *ConversationRepository) Create(ctx context.Context, conversation *entities.Conversation) error {
	if err := r.db.WithContext(ctx).Create(conversation).Error; err != nil {
		return fmt.Errorf("failed to create conversation: %w", err)
	}
	return nil
}

// FindByID finds a conversation by ID
func (r *ConversationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Conversation, error) {
	var conversation entities.Conversation
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&conversation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrConversationNotFound
		}
		return nil, fmt.Errorf("failed to find conversation: %w", err)
	}
	return &conversation, nil
}

// Update saves messages, feedback and completion state
func (r *ConversationRepository) Update(ctx context.Context, conversation *entities.Conversation) error {
	if err := r.db.WithContext(ctx).Save(conversation).Error; err != nil {
		return fmt.Errorf("failed to update conversation: %w", err)
	}
	return nil
}

// DeleteTemporary removes the user's temporary conversations except keepID
func (r *ConversationRepository) DeleteTemporary(ctx context.Context, userID, keepID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND is_temporary = ? AND id <> ?", userID, true, keepID).
		Delete(&entities.Conversation{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete temporary conversations: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *ConversationRepository) completed(ctx context.Context, userID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&entities.Conversation{}).
		Where("user_id = ? AND is_completed = ? AND is_temporary = ?", userID, true, false)
}

// ListCompleted returns completed, non-temporary conversations, newest first
func (r *ConversationRepository) ListCompleted(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Conversation, int64, error) {
	var total int64
	if err := r.completed(ctx, userID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count conversations: %w", err)
	}

	var conversations []*entities.Conversation
	if err := r.completed(ctx, userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&conversations).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list conversations: %w", err)
	}

	return conversations, total, nil
}

// FindHighestScored returns the completed conversation with the best overall score
func (r *ConversationRepository) FindHighestScored(ctx context.Context, userID uuid.UUID) (*entities.Conversation, error) {
	return r.firstScored(ctx, userID, "overall_score DESC, completed_at DESC")
}

// FindLastScored returns the most recently completed conversation that has a score
func (r *ConversationRepository) FindLastScored(ctx context.Context, userID uuid.UUID) (*entities.Conversation, error) {
	return r.firstScored(ctx, userID, "completed_at DESC")
}

func (r *ConversationRepository) firstScored(ctx context.Context, userID uuid.UUID, order string) (*entities.Conversation, error) {
	var conversation entities.Conversation
	if err := r.completed(ctx, userID).
		Where("overall_score IS NOT NULL").
		Order(order).
		First(&conversation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrConversationNotFound
		}
		return nil, fmt.Errorf("failed to find scored conversation: %w", err)
	}
	return &conversation, nil
}
