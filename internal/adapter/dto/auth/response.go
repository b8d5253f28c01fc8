package auth

import "time"

// UserResponse represents user information in responses
type UserResponse struct {
	ID                   string     `json:"id"`
	Username             string     `json:"username"`
	Email                string     `json:"email"`
	Role                 string     `json:"role"`
	Difficulty           string     `json:"difficulty"`
	Level                int        `json:"level"`
	CurrentStreak        int        `json:"current_streak"`
	LastPerformanceDate  *time.Time `json:"last_performance_date,omitempty"`
	LastPerformanceScore *int       `json:"last_performance_score,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// AuthResponse represents the authentication response with the access token
type AuthResponse struct {
	AccessToken string        `json:"access_token"`
	ExpiresIn   int           `json:"expires_in"` // seconds
	TokenType   string        `json:"token_type"` // "Bearer"
	User        *UserResponse `json:"user"`
}
