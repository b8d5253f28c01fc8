package streak

import (
	"sort"
	"time"

	"github.com/johnquangdev/loan-agent-trainer/internal/domain/entities"
)

// DefaultPassThreshold is the lowest daily score that keeps a streak alive
const DefaultPassThreshold = 50

// Outcome names the transition the evaluator took
type Outcome string

const (
	OutcomeNoHistory    Outcome = "no_history"
	OutcomeMissedDay    Outcome = "missed_day"
	OutcomePoorPrevious Outcome = "poor_previous_day"
	OutcomeAwaiting     Outcome = "awaiting_today"
	OutcomeReloaded     Outcome = "reloaded_same_day"
	OutcomeContinued    Outcome = "continued"
	OutcomeMaintained   Outcome = "maintained"
	OutcomeNewStreak    Outcome = "new_streak"
	OutcomePoorToday    Outcome = "poor_today"
)

var outcomeMessages = map[Outcome]string{
	OutcomeNoHistory:    "No previous performance data. Streak initialized to 0.",
	OutcomeMissedDay:    "Streak reset due to a missed day.",
	OutcomePoorPrevious: "Streak reset due to poor performance on the previous day.",
	OutcomeAwaiting:     "Awaiting today's performance. Streak remains as per last performance.",
	OutcomeReloaded:     "Reloaded on the same day. Streak unchanged.",
	OutcomeContinued:    "Streak continued! Great job today.",
	OutcomeMaintained:   "Streak maintained. Performance updated for today.",
	OutcomeNewStreak:    "New streak started!",
	OutcomePoorToday:    "Streak reset due to poor performance today.",
}

// Message is the user-facing text for the outcome
func (o Outcome) Message() string {
	return outcomeMessages[o]
}

// IsReset reports whether the outcome dropped the streak to zero
func (o Outcome) IsReset() bool {
	return o == OutcomeMissedDay || o == OutcomePoorPrevious || o == OutcomePoorToday
}

// Result is the outcome of one evaluation.
// Persist is set when State differs from the input in a way that must be saved.
type Result struct {
	State   entities.StreakState
	Outcome Outcome
	Message string
	Persist bool
	// Day is the evaluated calendar day at UTC midnight
	Day time.Time
}

// Evaluator applies the daily streak rules in a fixed timezone
type Evaluator struct {
	loc           *time.Location
	passThreshold int
}

// NewEvaluator creates an evaluator; a nil location means UTC
func NewEvaluator(loc *time.Location, passThreshold int) *Evaluator {
	if loc == nil {
		loc = time.UTC
	}
	return &Evaluator{loc: loc, passThreshold: passThreshold}
}

// CalendarDay returns the date of t in loc, as UTC midnight
func CalendarDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// storedDay reads a persisted date column without shifting it across timezones
func storedDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

func (e *Evaluator) passed(score *int) bool {
	return score != nil && *score >= e.passThreshold
}

// failed is false for a missing score, so a dated row without a score is not a poor day
func (e *Evaluator) failed(score *int) bool {
	return score != nil && *score < e.passThreshold
}

// Evaluate derives the next streak state. The input state is never modified.
// A nil todayScore is a passive check; otherwise the score is recorded for today.
func (e *Evaluator) Evaluate(state entities.StreakState, todayScore *int, now time.Time) Result {
	today := CalendarDay(now, e.loc)
	next := state
	next.DailyScores = append([]entities.DailyScore(nil), state.DailyScores...)

	if todayScore == nil {
		return e.passive(state, next, today)
	}
	return e.scored(state, next, *todayScore, today)
}

func (e *Evaluator) passive(prev, next entities.StreakState, today time.Time) Result {
	var outcome Outcome
	if prev.LastPerformanceDate == nil {
		outcome = OutcomeNoHistory
		next.CurrentStreak = 0
	} else {
		switch gap := daysBetween(storedDay(*prev.LastPerformanceDate), today); {
		case gap > 1:
			outcome = OutcomeMissedDay
			next.CurrentStreak = 0
		case gap == 1 && e.failed(prev.LastPerformanceScore):
			outcome = OutcomePoorPrevious
			next.CurrentStreak = 0
		case gap == 1:
			outcome = OutcomeAwaiting
		default:
			// same day, or a last date ahead of today after a timezone change
			outcome = OutcomeReloaded
		}
	}

	return Result{
		State:   next,
		Outcome: outcome,
		Message: outcome.Message(),
		Persist: next.CurrentStreak != prev.CurrentStreak,
		Day:     today,
	}
}

func (e *Evaluator) scored(prev, next entities.StreakState, score int, today time.Time) Result {
	next.DailyScores = upsertDailyScore(next.DailyScores, today, score)

	var outcome Outcome
	if score >= e.passThreshold {
		gap := -1
		if prev.LastPerformanceDate != nil {
			gap = daysBetween(storedDay(*prev.LastPerformanceDate), today)
		}
		switch {
		case gap == 1 && e.passed(prev.LastPerformanceScore):
			outcome = OutcomeContinued
			next.CurrentStreak = prev.CurrentStreak + 1
		case gap == 0 && e.passed(prev.LastPerformanceScore):
			outcome = OutcomeMaintained
		default:
			outcome = OutcomeNewStreak
			next.CurrentStreak = 1
		}
	} else {
		outcome = OutcomePoorToday
		next.CurrentStreak = 0
	}

	day := today
	next.LastPerformanceDate = &day
	recorded := score
	next.LastPerformanceScore = &recorded

	return Result{
		State:   next,
		Outcome: outcome,
		Message: outcome.Message(),
		Persist: true,
		Day:     today,
	}
}

// upsertDailyScore returns scores with day set to score, ordered by day
func upsertDailyScore(scores []entities.DailyScore, day time.Time, score int) []entities.DailyScore {
	for i := range scores {
		if storedDay(scores[i].Day).Equal(day) {
			scores[i].Score = score
			return scores
		}
	}
	scores = append(scores, entities.DailyScore{Day: day, Score: score})
	sort.Slice(scores, func(i, j int) bool { return scores[i].Day.Before(scores[j].Day) })
	return scores
}
