package trainer

import (
	"time"

	"github.com/google/uuid"
)

type Progress struct {
	ID               uuid.UUID `json:"id" db:"id"`
	UserID           uuid.UUID `json:"user_id" db:"user_id"`
	TrackID          uuid.UUID `json:"track_id" db:"track_id"`
	ScenarioID       string    `json:"scenario_id" db:"scenario_id"`
	SelectedResponse int       `json:"selected_response" db:"selected_response"`
	IsCorrect        bool      `json:"is_correct" db:"is_correct"`
	Attempts         int       `json:"attempts" db:"attempts"`
	CompletedAt      time.Time `json:"completed_at" db:"completed_at"`
}

type SubmitRequest struct {
	TrackID          uuid.UUID `json:"track_id" validate:"required"`
	ScenarioID       string    `json:"scenario_id" validate:"required"`
	SelectedResponse int       `json:"selected_response"`
	IsCorrect        bool      `json:"is_correct"`
}

type SubmitResult struct {
	XPEarned int `json:"xp_earned"`
	Attempts int `json:"attempts"`
	TotalXP  int `json:"total_xp"`
	Level    int `json:"level"`
}

type Stats struct {
	TotalScenarios   int     `json:"total_scenarios"`
	CorrectResponses int     `json:"correct_responses"`
	Accuracy         float64 `json:"accuracy"`
	AverageAttempts  float64 `json:"average_attempts"`
}
