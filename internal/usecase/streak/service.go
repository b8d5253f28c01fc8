package streak

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/loan-agent-trainer/internal/domain/entities"
	"github.com/johnquangdev/loan-agent-trainer/internal/domain/repositories"
	usecaseErrors "github.com/johnquangdev/loan-agent-trainer/internal/usecase/errors"
)

// Locker serializes work on a key across callers.
// The returned release func must be called exactly once.
type Locker interface {
	Lock(ctx context.Context, key string) (release func(), err error)
}

// Service defines the interface for the streak use case
type Service interface {
	// UpdateStreak records today's score, or runs the passive check when score is nil
	UpdateStreak(ctx context.Context, userID uuid.UUID, todayScore *int) (*UpdateOutput, error)

	// GetStreak returns the streak after applying any pending reset
	GetStreak(ctx context.Context, userID uuid.UUID) (*GetOutput, error)
}

// UpdateOutput is the result of UpdateStreak
type UpdateOutput struct {
	CurrentStreak int
	Outcome       Outcome
	Message       string
}

// GetOutput is the result of GetStreak
type GetOutput struct {
	CurrentStreak        int
	LastPerformanceDate  *time.Time
	LastPerformanceScore *int
	DailyScores          []entities.DailyScore
	Message              string
}

const retrievedMessage = "Current streak retrieved."

var retrievalMessages = map[Outcome]string{
	OutcomeMissedDay:    "Streak was reset due to a missed day. Current streak is 0.",
	OutcomePoorPrevious: "Streak was reset due to poor performance on the previous day. Current streak is 0.",
}

// StreakService handles streak business logic
type StreakService struct {
	repo      repositories.StreakRepository
	locker    Locker
	evaluator *Evaluator
	now       func() time.Time
	logger    *zap.Logger
}

var _ Service = (*StreakService)(nil)

// NewStreakService creates a new streak service
func NewStreakService(
	repo repositories.StreakRepository,
	locker Locker,
	evaluator *Evaluator,
	logger *zap.Logger,
) *StreakService {
	return &StreakService{
		repo:      repo,
		locker:    locker,
		evaluator: evaluator,
		now:       time.Now,
		logger:    logger,
	}
}

func lockKey(userID uuid.UUID) string {
	return "streak:lock:" + userID.String()
}

// UpdateStreak records today's score, or runs the passive check when score is nil
func (s *StreakService) UpdateStreak(ctx context.Context, userID uuid.UUID, todayScore *int) (*UpdateOutput, error) {
	if todayScore != nil && (*todayScore < 0 || *todayScore > 100) {
		return nil, usecaseErrors.ErrInvalidScore
	}

	res, err := s.evaluate(ctx, userID, todayScore)
	if err != nil {
		return nil, err
	}

	return &UpdateOutput{
		CurrentStreak: res.State.CurrentStreak,
		Outcome:       res.Outcome,
		Message:       res.Message,
	}, nil
}

// GetStreak returns the streak after applying any pending reset
func (s *StreakService) GetStreak(ctx context.Context, userID uuid.UUID) (*GetOutput, error) {
	res, err := s.evaluate(ctx, userID, nil)
	if err != nil {
		return nil, err
	}

	message, ok := retrievalMessages[res.Outcome]
	if !ok {
		message = retrievedMessage
	}
	return &GetOutput{
		CurrentStreak:        res.State.CurrentStreak,
		LastPerformanceDate:  res.State.LastPerformanceDate,
		LastPerformanceScore: res.State.LastPerformanceScore,
		DailyScores:          res.State.DailyScores,
		Message:              message,
	}, nil
}

// evaluate runs load, evaluate and save as one critical section per user
func (s *StreakService) evaluate(ctx context.Context, userID uuid.UUID, todayScore *int) (*Result, error) {
	release, err := s.locker.Lock(ctx, lockKey(userID))
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("⚠️ Could not acquire streak lock", zap.String("user_id", userID.String()), zap.Error(err))
		}
		return nil, fmt.Errorf("%w: %v", usecaseErrors.ErrStreakBusy, err)
	}
	defer release()

	state, err := s.repo.LoadState(ctx, userID)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			return nil, usecaseErrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load streak: %w", err)
	}

	res := s.evaluator.Evaluate(state, todayScore, s.now())
	if !res.Persist {
		return &res, nil
	}

	var today *entities.DailyScore
	if todayScore != nil {
		today = &entities.DailyScore{UserID: userID, Day: res.Day, Score: *todayScore}
	}
	if err := s.repo.SaveState(ctx, userID, res.State, today); err != nil {
		return nil, fmt.Errorf("failed to save streak: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("🔥 Streak updated",
			zap.String("user_id", userID.String()),
			zap.String("outcome", string(res.Outcome)),
			zap.Int("current_streak", res.State.CurrentStreak))
	}
	return &res, nil
}
