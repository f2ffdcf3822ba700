package services

import (
	"context"
	"errors"
	"fmt"

	"mindQuestAPI/internal/track"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TrackService struct {
	db *pgxpool.Pool
}

func NewTrackService(db *pgxpool.Pool) *TrackService {
	return &TrackService{db: db}
}

func (s *TrackService) GetAllTracks(ctx context.Context) ([]*track.Track, error) {
	query := `
	SELECT id, name, category, description, color, total_challenges, estimated_days, created_at
	FROM tracks
	ORDER BY name
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tracks: %w", err)
	}
	defer rows.Close()

	var tracks []*track.Track
	for rows.Next() {
		t := &track.Track{}
		err := rows.Scan(&t.ID, &t.Name, &t.Category, &t.Description, &t.Color, &t.TotalChallenges, &t.EstimatedDays, &t.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan track: %w", err)
		}
		tracks = append(tracks, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tracks: %w", err)
	}

	if tracks == nil {
		tracks = []*track.Track{}
	}
	return tracks, nil
}

func (s *TrackService) GetTrackByID(ctx context.Context, trackID uuid.UUID) (*track.Track, error) {
	query := `
	SELECT id, name, category, description, color, total_challenges, estimated_days, created_at
	FROM tracks
	WHERE id = $1
	`

	t := &track.Track{}
	err := s.db.QueryRow(ctx, query, trackID).Scan(
		&t.ID, &t.Name, &t.Category, &t.Description, &t.Color, &t.TotalChallenges, &t.EstimatedDays, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTrackNotFound
		}
		return nil, fmt.Errorf("failed to get track: %w", err)
	}

	return t, nil
}

// GetChallengesForTrack lists the track's daily challenges in day order. The
// day-0 minigame slot is excluded from the daily sequence.
func (s *TrackService) GetChallengesForTrack(ctx context.Context, trackID uuid.UUID) ([]*track.Challenge, error) {
	query := `
	SELECT id, track_id, day, title, type, content, xp_reward
	FROM challenges
	WHERE track_id = $1 AND day >= 1
	ORDER BY day
	`

	rows, err := s.db.Query(ctx, query, trackID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch challenges: %w", err)
	}
	defer rows.Close()

	var challenges []*track.Challenge
	for rows.Next() {
		c := &track.Challenge{}
		err := rows.Scan(&c.ID, &c.TrackID, &c.Day, &c.Title, &c.Type, &c.Content, &c.XPReward)
		if err != nil {
			return nil, fmt.Errorf("failed to scan challenge: %w", err)
		}
		challenges = append(challenges, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating challenges: %w", err)
	}

	if challenges == nil {
		challenges = []*track.Challenge{}
	}
	return challenges, nil
}

// GetTodaysChallenge picks the next uncompleted day: completed count + 1.
// Returns nil when the track is finished.
func (s *TrackService) GetTodaysChallenge(ctx context.Context, clerkID string, trackID uuid.UUID) (*track.Challenge, error) {
	userID, err := userIDByClerkID(ctx, s.db, clerkID)
	if err != nil {
		return nil, err
	}

	var completedDays int
	countQuery := `
	SELECT COUNT(*)
	FROM challenge_progress
	WHERE user_id = $1 AND track_id = $2 AND completed = TRUE
	`
	if err := s.db.QueryRow(ctx, countQuery, userID, trackID).Scan(&completedDays); err != nil {
		return nil, fmt.Errorf("failed to count completed challenges: %w", err)
	}

	query := `
	SELECT id, track_id, day, title, type, content, xp_reward
	FROM challenges
	WHERE track_id = $1 AND day = $2
	`

	c := &track.Challenge{}
	err = s.db.QueryRow(ctx, query, trackID, completedDays+1).Scan(
		&c.ID, &c.TrackID, &c.Day, &c.Title, &c.Type, &c.Content, &c.XPReward,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get today's challenge: %w", err)
	}

	return c, nil
}
