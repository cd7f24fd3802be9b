package flashcard

import (
	"fmt"
	"time"

	"github.com/vytor/phrasecards/internal/models"
)

// Grade is the 1-5 recall rating chosen after revealing a card.
type Grade int

const (
	Again Grade = iota + 1
	Hard
	OK
	Good
	Easy
)

// LearnedThreshold is the shortest interval at which a card counts as learned.
// It equals the OK interval, so any OK/Good/Easy as the latest grade qualifies.
const LearnedThreshold = 12 * time.Hour

var gradeNames = [...]string{Again: "Again", Hard: "Hard", OK: "OK", Good: "Good", Easy: "Easy"}

func (g Grade) String() string {
	if g.IsValid() {
		return gradeNames[g]
	}
	return fmt.Sprintf("Grade(%d)", int(g))
}

func (g Grade) IsValid() bool {
	return g >= Again && g <= Easy
}

// Successful reports whether g counts toward the daily quota.
func (g Grade) Successful() bool {
	return g >= OK
}

// NextInterval maps a grade to its fixed review interval. Unknown grades get
// the Good interval.
func NextInterval(g Grade) time.Duration {
	switch g {
	case Again:
		return 5 * time.Minute
	case Hard:
		return 6 * time.Hour
	case OK:
		return 12 * time.Hour
	case Good:
		return 3 * 24 * time.Hour
	case Easy:
		return 12 * 24 * time.Hour
	default:
		return 3 * 24 * time.Hour
	}
}

// ApplyGrade returns the state that replaces whatever a card had before.
func ApplyGrade(g Grade, now time.Time) models.ReviewState {
	interval := NextInterval(g).Milliseconds()
	return models.ReviewState{
		IntervalMs: interval,
		DueAt:      now.UnixMilli() + interval,
	}
}

// IsDue reports whether a graded card should be reviewed at the given time.
// A card without state is never due; it has to be graded once from a
// sequential, block or scene session first.
func IsDue(state *models.ReviewState, at time.Time) bool {
	if state == nil {
		return false
	}
	return state.DueAt <= at.UnixMilli()
}

func IsLearned(state *models.ReviewState) bool {
	return state != nil && state.IntervalMs >= LearnedThreshold.Milliseconds()
}
