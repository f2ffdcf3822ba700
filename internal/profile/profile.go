package profile

import (
	"time"

	"github.com/google/uuid"
)

type Profile struct {
	ID               uuid.UUID   `json:"id" db:"id"`
	UserID           uuid.UUID   `json:"user_id" db:"user_id"`
	Username         string      `json:"username" db:"username"`
	TotalXP          int         `json:"total_xp" db:"total_xp"`
	Level            int         `json:"level" db:"level"`
	CurrentStreak    int         `json:"current_streak" db:"current_streak"`
	LongestStreak    int         `json:"longest_streak" db:"longest_streak"`
	LastActivityDate *time.Time  `json:"last_activity_date,omitempty" db:"last_activity_date"`
	SelectedTracks   []uuid.UUID `json:"selected_tracks" db:"selected_tracks"`
	JoinedAt         time.Time   `json:"joined_at" db:"joined_at"`
}

type CreateProfileRequest struct {
	Username       string      `json:"username" validate:"required,min=3,max=30"`
	SelectedTracks []uuid.UUID `json:"selected_tracks"`
}

type UpdateTracksRequest struct {
	TrackIDs []uuid.UUID `json:"track_ids"`
}
