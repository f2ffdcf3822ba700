package progress

import (
	"time"

	"github.com/google/uuid"
)

type ChallengeCompletion struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	UserID      uuid.UUID  `json:"user_id" db:"user_id"`
	TrackID     uuid.UUID  `json:"track_id" db:"track_id"`
	ChallengeID uuid.UUID  `json:"challenge_id" db:"challenge_id"`
	Completed   bool       `json:"completed" db:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	Score       *int       `json:"score,omitempty" db:"score"`
	XPEarned    int        `json:"xp_earned" db:"xp_earned"`
}

type DailyActivity struct {
	ID                  uuid.UUID `json:"id" db:"id"`
	UserID              uuid.UUID `json:"user_id" db:"user_id"`
	Date                time.Time `json:"date" db:"date"`
	ChallengesCompleted int       `json:"challenges_completed" db:"challenges_completed"`
	XPEarned            int       `json:"xp_earned" db:"xp_earned"`
	StreakDay           int       `json:"streak_day" db:"streak_day"`
}

type CompleteChallengeRequest struct {
	Score *int `json:"score,omitempty"`
}

// CompleteChallengeResult is the XP summary the presentation layer renders.
// Totals are zero when the user has no profile yet.
type CompleteChallengeResult struct {
	XPEarned      int  `json:"xp_earned"`
	TotalXP       int  `json:"total_xp"`
	Level         int  `json:"level"`
	CurrentStreak int  `json:"current_streak"`
	LeveledUp     bool `json:"leveled_up"`
}
