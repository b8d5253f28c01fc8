package presenter

import (
	streakDTO "github.com/johnquangdev/loan-agent-trainer/internal/adapter/dto/streak"
	"github.com/johnquangdev/loan-agent-trainer/internal/usecase/streak"
)

const dateLayout = "2006-01-02"

// ToStreakResponse renders the streak state with its daily scores
func ToStreakResponse(out *streak.GetOutput) *streakDTO.GetResponse {
	scores := make([]streakDTO.DailyScoreResponse, len(out.DailyScores))
	for i, ds := range out.DailyScores {
		scores[i] = streakDTO.DailyScoreResponse{
			Date:  ds.Day.Format(dateLayout),
			Score: ds.Score,
		}
	}
	return &streakDTO.GetResponse{
		CurrentStreak:        out.CurrentStreak,
		LastPerformanceDate:  out.LastPerformanceDate,
		LastPerformanceScore: out.LastPerformanceScore,
		DailyScores:          scores,
		Message:              out.Message,
	}
}
