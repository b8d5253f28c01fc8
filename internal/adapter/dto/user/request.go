package user

// UpdateDifficultyRequest switches the customer persona
type UpdateDifficultyRequest struct {
	Difficulty string `json:"difficulty" validate:"required,difficulty"`
}

// UpdateLevelRequest sets the training level and optionally the difficulty
type UpdateLevelRequest struct {
	Level      int    `json:"level" validate:"required,min=1"`
	Difficulty string `json:"difficulty,omitempty" validate:"omitempty,difficulty"`
}
