package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/johnquangdev/loan-agent-trainer/internal/domain/entities"
)

// StreakRepository persists the streak fields of a user and their daily scores
type StreakRepository interface {
	// LoadState returns the user's streak fields and daily scores ordered by day.
	// Returns entities.ErrUserNotFound for unknown users.
	LoadState(ctx context.Context, userID uuid.UUID) (entities.StreakState, error)

	// SaveState writes the streak fields and, when today is not nil, upserts
	// that day's score. Both happen in one transaction.
	SaveState(ctx context.Context, userID uuid.UUID, state entities.StreakState, today *entities.DailyScore) error
}
