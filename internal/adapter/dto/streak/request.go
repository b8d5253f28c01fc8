package streak

// UpdateRequest records today's score. Without a score only the passive check runs.
type UpdateRequest struct {
	TodayScore *int `json:"todayScore,omitempty" validate:"omitempty,min=0,max=100"`
}
