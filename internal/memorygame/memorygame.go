package memorygame

import (
	"time"

	"github.com/google/uuid"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

type Score struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	UserID        uuid.UUID  `json:"user_id" db:"user_id"`
	TrackID       uuid.UUID  `json:"track_id" db:"track_id"`
	TimeInSeconds int        `json:"time_in_seconds" db:"time_in_seconds"`
	Turns         int        `json:"turns" db:"turns"`
	Difficulty    Difficulty `json:"difficulty" db:"difficulty"`
	CompletedAt   time.Time  `json:"completed_at" db:"completed_at"`
}

type SaveScoreRequest struct {
	TrackID       uuid.UUID  `json:"track_id" validate:"required"`
	TimeInSeconds int        `json:"time_in_seconds" validate:"min=0"`
	Turns         int        `json:"turns" validate:"min=0"`
	Difficulty    Difficulty `json:"difficulty" validate:"required,oneof=easy medium hard"`
}

type SaveScoreResult struct {
	XPEarned int `json:"xp_earned"`
	TotalXP  int `json:"total_xp"`
	Level    int `json:"level"`
}

type LeaderboardRow struct {
	Score
	Username string `json:"username"`
}

type DifficultyConfig struct {
	Pairs     int `json:"pairs"`
	TimeBonus int `json:"timeBonus"`
}

// AffirmationDeck is the card content for a track's memory minigame.
type AffirmationDeck struct {
	Affirmations []string                        `json:"affirmations"`
	Difficulties map[Difficulty]DifficultyConfig `json:"difficulties"`
}

// DefaultDeck is served when a track has no memory challenge of its own.
func DefaultDeck() *AffirmationDeck {
	return &AffirmationDeck{
		Affirmations: []string{
			"I am worthy of love and respect",
			"I choose to focus on what I can control",
			"Every day I am getting stronger",
			"I deserve happiness and peace",
			"I am capable of overcoming challenges",
			"My feelings are valid and temporary",
			"I am making progress, even if it's small",
			"I have the strength to face today",
		},
		Difficulties: map[Difficulty]DifficultyConfig{
			DifficultyEasy:   {Pairs: 6, TimeBonus: 120},
			DifficultyMedium: {Pairs: 8, TimeBonus: 180},
			DifficultyHard:   {Pairs: 12, TimeBonus: 240},
		},
	}
}
