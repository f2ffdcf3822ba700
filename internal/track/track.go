package track

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type ChallengeType string

const (
	ChallengeQuiz      ChallengeType = "quiz"
	ChallengeReframe   ChallengeType = "reframe"
	ChallengeBreathing ChallengeType = "breathing"
	ChallengeMinigame  ChallengeType = "minigame"
	ChallengeMemory    ChallengeType = "memory"
)

type Track struct {
	ID              uuid.UUID `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	Category        string    `json:"category" db:"category"`
	Description     string    `json:"description" db:"description"`
	Color           string    `json:"color" db:"color"`
	TotalChallenges int       `json:"total_challenges" db:"total_challenges"`
	EstimatedDays   int       `json:"estimated_days" db:"estimated_days"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

type Challenge struct {
	ID       uuid.UUID       `json:"id" db:"id"`
	TrackID  uuid.UUID       `json:"track_id" db:"track_id"`
	Day      int             `json:"day" db:"day"`
	Title    string          `json:"title" db:"title"`
	Type     ChallengeType   `json:"type" db:"type"`
	Content  json.RawMessage `json:"content" db:"content"`
	XPReward int             `json:"xp_reward" db:"xp_reward"`
}
