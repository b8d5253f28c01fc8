package streak

import "time"

// UpdateResponse is returned after a streak update
type UpdateResponse struct {
	CurrentStreak int    `json:"currentStreak"`
	Message       string `json:"message"`
}

// DailyScoreResponse is one day's recorded score
type DailyScoreResponse struct {
	Date  string `json:"date"`
	Score int    `json:"score"`
}

// GetResponse is the user's streak state
type GetResponse struct {
	CurrentStreak        int                  `json:"currentStreak"`
	LastPerformanceDate  *time.Time           `json:"lastPerformanceDate"`
	LastPerformanceScore *int                 `json:"lastPerformanceScore"`
	DailyScores          []DailyScoreResponse `json:"dailyScores"`
	Message              string               `json:"message"`
}
