package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/johnquangdev/loan-agent-trainer/internal/domain/entities"
	"github.com/johnquangdev/loan-agent-trainer/internal/domain/repositories"
)

// StreakRepository stores streak fields on users and scores in daily_scores
type StreakRepository struct {
	db *gorm.DB
}

var _ repositories.StreakRepository = (*StreakRepository)(nil)

// NewStreakRepository creates a new streak repository
func NewStreakRepository(db *gorm.DB) *StreakRepository {
	return &StreakRepository{db: db}
}

// LoadState returns the user's streak fields and daily scores ordered by day
func (r *StreakRepository) LoadState(ctx context.Context, userID uuid.UUID) (entities.StreakState, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).
		Select("id", "current_streak", "last_performance_date", "last_performance_score").
		Where("id = ?", userID).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.StreakState{}, entities.ErrUserNotFound
		}
		return entities.StreakState{}, fmt.Errorf("failed to load user streak: %w", err)
	}

	var scores []entities.DailyScore
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("day ASC").
		Find(&scores).Error; err != nil {
		return entities.StreakState{}, fmt.Errorf("failed to load daily scores: %w", err)
	}

	return user.StreakState(scores), nil
}

// SaveState writes the streak fields and upserts today's score in one transaction
func (r *StreakRepository) SaveState(ctx context.Context, userID uuid.UUID, state entities.StreakState, today *entities.DailyScore) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entities.User{}).
			Where("id = ?", userID).
			Updates(map[string]interface{}{
				"current_streak":         state.CurrentStreak,
				"last_performance_date":  state.LastPerformanceDate,
				"last_performance_score": state.LastPerformanceScore,
				"updated_at":             time.Now(),
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update user streak: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return entities.ErrUserNotFound
		}

		if today == nil {
			return nil
		}
		if today.ID == uuid.Nil {
			today.ID = uuid.New()
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "day"}},
			DoUpdates: clause.AssignmentColumns([]string{"score", "updated_at"}),
		}).Create(today).Error; err != nil {
			return fmt.Errorf("failed to upsert daily score: %w", err)
		}
		return nil
	})
}
