package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/johnquangdev/loan-agent-trainer/internal/domain/entities"
	"github.com/johnquangdev/loan-agent-trainer/internal/domain/repositories"
	usecaseErrors "github.com/johnquangdev/loan-agent-trainer/internal/usecase/errors"
	"github.com/johnquangdev/loan-agent-trainer/pkg/jwt"
)

// MinPasswordLength is the shortest accepted password
const MinPasswordLength = 6

// Service defines the interface for the account use case
type Service interface {
	// Register creates an agent account and signs it in
	Register(ctx context.Context, input RegisterInput) (*AuthOutput, error)

	// Login checks credentials and issues an access token
	Login(ctx context.Context, email, password string) (*AuthOutput, error)

	// Me returns the user behind userID
	Me(ctx context.Context, userID uuid.UUID) (*entities.User, error)

	// ValidateSession resolves an access token to its user
	ValidateSession(ctx context.Context, token string) (*entities.User, error)
}

// RegisterInput is the input for Register
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// AuthOutput is returned after a successful sign-in
type AuthOutput struct {
	User        *entities.User
	AccessToken string
	ExpiresIn   int64
}

// AuthService handles registration, login and token validation
type AuthService struct {
	userRepo   repositories.UserRepository
	jwtManager *jwt.Manager
	validate   *validator.Validate
	cost       int
	logger     *zap.Logger
}

var _ Service = (*AuthService)(nil)

// NewAuthService creates a new auth service
func NewAuthService(userRepo repositories.UserRepository, jwtManager *jwt.Manager, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		validate:   validator.New(),
		cost:       bcrypt.DefaultCost,
		logger:     logger,
	}
}

// Register creates an agent account and signs it in
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthOutput, error) {
	username := strings.ToLower(strings.TrimSpace(input.Username))
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if username == "" || email == "" || input.Password == "" {
		return nil, usecaseErrors.ErrMissingFields
	}
	if err := s.validate.Var(email, "email"); err != nil {
		return nil, usecaseErrors.ErrInvalidEmail
	}
	if len(input.Password) < MinPasswordLength {
		return nil, usecaseErrors.ErrWeakPassword
	}

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, usecaseErrors.ErrEmailAlreadyUsed
	} else if !errors.Is(err, entities.ErrUserNotFound) {
		return nil, err
	}
	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return nil, usecaseErrors.ErrUsernameTaken
	} else if !errors.Is(err, entities.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := entities.NewUser(username, email, string(hash))
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, entities.ErrUserAlreadyExists) {
			return nil, usecaseErrors.ErrAlreadyExists
		}
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("👤 User registered",
			zap.String("user_id", user.ID.String()),
			zap.String("username", user.Username),
		)
	}
	return s.issue(user)
}

// Login checks credentials and issues an access token
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthOutput, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, usecaseErrors.ErrInvalidCredentials
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			return nil, usecaseErrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, usecaseErrors.ErrInvalidCredentials
	}

	return s.issue(user)
}

func (s *AuthService) issue(user *entities.User) (*AuthOutput, error) {
	token, err := s.jwtManager.GenerateAccessToken(user.ID, user.Username, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	return &AuthOutput{
		User:        user,
		AccessToken: token,
		ExpiresIn:   int64(s.jwtManager.GetAccessExpiry().Seconds()),
	}, nil
}

// Me returns the user behind userID
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*entities.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			return nil, usecaseErrors.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// ValidateSession resolves an access token to its user
func (s *AuthService) ValidateSession(ctx context.Context, token string) (*entities.User, error) {
	claims, err := s.jwtManager.ValidateAccessToken(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, usecaseErrors.ErrTokenExpired
		}
		return nil, usecaseErrors.ErrTokenInvalid
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			return nil, usecaseErrors.ErrTokenInvalid
		}
		return nil, err
	}
	return user, nil
}
