package errors

import "errors"

// Common errors
var (
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden access")
	ErrAlreadyExists = errors.New("resource already exists")
)

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrMissingFields      = errors.New("username, email and password are required")
)

// User errors
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrEmailAlreadyUsed  = errors.New("email already registered")
	ErrUsernameTaken     = errors.New("username already taken")
	ErrInvalidDifficulty = errors.New("invalid difficulty value")
	ErrInvalidLevel      = errors.New("level must be a positive number")
)

// Conversation errors
var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrConversationEnded    = errors.New("conversation has ended")
	ErrConversationAccess   = errors.New("access denied to this conversation")
	ErrNotEnoughMessages    = errors.New("not enough messages to analyze")
	ErrInvalidScenario      = errors.New("invalid scenario")
	ErrEmptyMessage         = errors.New("message content is required")
)

// Streak errors
var (
	ErrInvalidScore = errors.New("score must be between 0 and 100")
	ErrStreakBusy   = errors.New("streak update already in progress")
)
