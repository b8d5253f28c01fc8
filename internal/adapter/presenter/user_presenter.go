package presenter

import (
	authDTO "github.com/johnquangdev/loan-agent-trainer/internal/adapter/dto/auth"
	"github.com/johnquangdev/loan-agent-trainer/internal/domain/entities"
	"github.com/johnquangdev/loan-agent-trainer/internal/usecase/auth"
)

// ToUserResponse converts a User entity to UserResponse DTO
func ToUserResponse(u *entities.User) *authDTO.UserResponse {
	if u == nil {
		return nil
	}

	return &authDTO.UserResponse{
		ID:                   u.ID.String(),
		Username:             u.Username,
		Email:                u.Email,
		Role:                 string(u.Role),
		Difficulty:           string(u.Difficulty),
		Level:                u.Level,
		CurrentStreak:        u.CurrentStreak,
		LastPerformanceDate:  u.LastPerformanceDate,
		LastPerformanceScore: u.LastPerformanceScore,
		CreatedAt:            u.CreatedAt,
		UpdatedAt:            u.UpdatedAt,
	}
}

// ToAuthResponse converts usecase AuthOutput to DTO AuthResponse
func ToAuthResponse(out *auth.AuthOutput) *authDTO.AuthResponse {
	if out == nil {
		return nil
	}

	return &authDTO.AuthResponse{
		AccessToken: out.AccessToken,
		ExpiresIn:   int(out.ExpiresIn),
		TokenType:   "Bearer",
		User:        ToUserResponse(out.User),
	}
}
