package entities

import (
	"time"

	"github.com/google/uuid"
)

// DailyScore is the single performance score recorded for a user on a calendar day.
// Day is the calendar date at UTC midnight.
type DailyScore struct {
	ID        uuid.UUID `json:"-" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID `json:"-" gorm:"type:uuid;not null;uniqueIndex:idx_daily_scores_user_day"`
	Day       time.Time `json:"date" gorm:"column:day;type:date;not null;uniqueIndex:idx_daily_scores_user_day"`
	Score     int       `json:"score" gorm:"not null"`
	CreatedAt time.Time `json:"-" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"-" gorm:"autoUpdateTime"`
}

// TableName overrides the table name
func (DailyScore) TableName() string {
	return "daily_scores"
}

// StreakState is the per-user input and output of streak evaluation.
// DailyScores is ordered by day with at most one entry per day.
type StreakState struct {
	CurrentStreak        int
	LastPerformanceDate  *time.Time
	LastPerformanceScore *int
	DailyScores          []DailyScore
}

// ScoreOn returns the recorded score for day, if any
func (s StreakState) ScoreOn(day time.Time) (DailyScore, bool) {
	for _, ds := range s.DailyScores {
		if ds.Day.Equal(day) {
			return ds, true
		}
	}
	return DailyScore{}, false
}
