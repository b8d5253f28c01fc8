package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User represents a trainee (or admin) account
type User struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Username     string     `json:"username" gorm:"type:varchar(100);uniqueIndex;not null"`
	Email        string     `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string     `json:"-" gorm:"column:password_hash;type:text;not null"`
	Role         UserRole   `json:"role" gorm:"type:varchar(20);default:'agent';not null"`
	Difficulty   Difficulty `json:"difficulty" gorm:"type:varchar(10);default:'easy';not null"`
	Level        int        `json:"level" gorm:"default:5;not null"`

	// Streak
	CurrentStreak        int        `json:"current_streak" gorm:"default:0;not null"`
	LastPerformanceDate  *time.Time `json:"last_performance_date,omitempty" gorm:"type:date"`
	LastPerformanceScore *int       `json:"last_performance_score,omitempty"`

	// Timestamps
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// UserRole defines user roles
type UserRole string

const (
	RoleAgent UserRole = "agent"
	RoleAdmin UserRole = "admin"
)

// IsValid checks if the user role is valid
func (r UserRole) IsValid() bool {
	switch r {
	case RoleAgent, RoleAdmin:
		return true
	}
	return false
}

// Difficulty selects the customer persona prompt
type Difficulty string

const (
	DifficultyEasy Difficulty = "easy"
	DifficultyHard Difficulty = "hard"
)

// IsValid checks if the difficulty is one of the known values
func (d Difficulty) IsValid() bool {
	return d == DifficultyEasy || d == DifficultyHard
}

// DefaultLevel is the level assigned at registration
const DefaultLevel = 5

// NewUser creates a new agent account with default values
func NewUser(username, email, passwordHash string) *User {
	now := time.Now()
	return &User{
		ID:           uuid.New(),
		Username:     strings.ToLower(strings.TrimSpace(username)),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: passwordHash,
		Role:         RoleAgent,
		Difficulty:   DifficultyEasy,
		Level:        DefaultLevel,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// IsAdmin checks if user is admin
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanManage reports whether u may change the profile of targetID
func (u *User) CanManage(targetID uuid.UUID) bool {
	return u.ID == targetID || u.IsAdmin()
}

// Validate validates user data
func (u *User) Validate() error {
	if u.Email == "" {
		return ErrInvalidEmail
	}
	if u.Username == "" {
		return ErrInvalidName
	}
	if !u.Role.IsValid() {
		return ErrInvalidRole
	}
	if !u.Difficulty.IsValid() {
		return ErrInvalidDifficulty
	}
	return nil
}

// StreakState extracts the persisted streak fields of the user
func (u *User) StreakState(scores []DailyScore) StreakState {
	return StreakState{
		CurrentStreak:        u.CurrentStreak,
		LastPerformanceDate:  u.LastPerformanceDate,
		LastPerformanceScore: u.LastPerformanceScore,
		DailyScores:          scores,
	}
}
