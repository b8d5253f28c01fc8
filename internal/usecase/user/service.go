package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/loan-agent-trainer/internal/domain/entities"
	"github.com/johnquangdev/loan-agent-trainer/internal/domain/repositories"
	usecaseErrors "github.com/johnquangdev/loan-agent-trainer/internal/usecase/errors"
)

// Service defines the interface for profile updates
type Service interface {
	// UpdateDifficulty switches the customer persona used for the user's sessions
	UpdateDifficulty(ctx context.Context, actor *entities.User, userID uuid.UUID, difficulty entities.Difficulty) (*entities.User, error)

	// UpdateLevel sets the training level and, when given, the difficulty
	UpdateLevel(ctx context.Context, actor *entities.User, userID uuid.UUID, level int, difficulty *entities.Difficulty) (*entities.User, error)
}

// UserService handles profile business logic
type UserService struct {
	userRepo repositories.UserRepository
	logger   *zap.Logger
}

var _ Service = (*UserService)(nil)

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{userRepo: userRepo, logger: logger}
}

// UpdateDifficulty switches the customer persona used for the user's sessions
func (s *UserService) UpdateDifficulty(ctx context.Context, actor *entities.User, userID uuid.UUID, difficulty entities.Difficulty) (*entities.User, error) {
	if !difficulty.IsValid() {
		return nil, usecaseErrors.ErrInvalidDifficulty
	}
	return s.update(ctx, actor, userID, func(u *entities.User) {
		u.Difficulty = difficulty
	})
}

// UpdateLevel sets the training level and, when given, the difficulty
func (s *UserService) UpdateLevel(ctx context.Context, actor *entities.User, userID uuid.UUID, level int, difficulty *entities.Difficulty) (*entities.User, error) {
	if level < 1 {
		return nil, usecaseErrors.ErrInvalidLevel
	}
	if difficulty != nil && !difficulty.IsValid() {
		return nil, usecaseErrors.ErrInvalidDifficulty
	}
	return s.update(ctx, actor, userID, func(u *entities.User) {
		u.Level = level
		if difficulty != nil {
			u.Difficulty = *difficulty
		}
	})
}

func (s *UserService) update(ctx context.Context, actor *entities.User, userID uuid.UUID, apply func(*entities.User)) (*entities.User, error) {
	if actor == nil {
		return nil, usecaseErrors.ErrUnauthorized
	}
	if !actor.CanManage(userID) {
		return nil, usecaseErrors.ErrForbidden
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			return nil, usecaseErrors.ErrUserNotFound
		}
		return nil, err
	}

	apply(user)
	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			return nil, usecaseErrors.ErrUserNotFound
		}
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("🎚️ Profile updated",
			zap.String("user_id", user.ID.String()),
			zap.String("difficulty", string(user.Difficulty)),
			zap.Int("level", user.Level),
		)
	}
	return user, nil
}
