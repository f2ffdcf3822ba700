package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"mindQuestAPI/internal/gamification"
	"mindQuestAPI/internal/memorygame"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MemoryGameService struct {
	db *pgxpool.Pool
}

func NewMemoryGameService(db *pgxpool.Pool) *MemoryGameService {
	return &MemoryGameService{db: db}
}

// SaveScore records a play and applies the XP to the profile. Every play is
// recorded; there is no per-track uniqueness. A user without a profile keeps
// the score row but earns nothing, which the result reports as zero totals.
func (s *MemoryGameService) SaveScore(ctx context.Context, clerkID string, req *memorygame.SaveScoreRequest) (*memorygame.SaveScoreResult, error) {
	xpEarned := gamification.MemoryGameXP(string(req.Difficulty), req.TimeInSeconds, req.Turns)

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	userID, err := userIDByClerkID(ctx, tx, clerkID)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO memory_game_scores (user_id, track_id, time_in_seconds, turns, difficulty, completed_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`, userID, req.TrackID, req.TimeInSeconds, req.Turns, req.Difficulty)
	if err != nil {
		return nil, fmt.Errorf("failed to save score: %w", err)
	}

	result := &memorygame.SaveScoreResult{XPEarned: xpEarned}

	var totalXP int
	err = tx.QueryRow(ctx, `SELECT total_xp FROM profiles WHERE user_id = $1`, userID).Scan(&totalXP)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("failed to get profile: %w", err)
		}
		// Tolerated: score stands, XP is not applied.
		log.Printf("SaveScore: no profile for user %s, XP not applied", userID)
	} else {
		newTotal, newLevel := gamification.ApplyXP(totalXP, xpEarned)
		_, err = tx.Exec(ctx, `UPDATE profiles SET total_xp = $2, level = $3 WHERE user_id = $1`, userID, newTotal, newLevel)
		if err != nil {
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
		result.TotalXP = newTotal
		result.Level = newLevel
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit score: %w", err)
	}

	return result, nil
}

// GetScores returns the caller's ten most recent plays on a track.
func (s *MemoryGameService) GetScores(ctx context.Context, clerkID string, trackID uuid.UUID) ([]*memorygame.Score, error) {
	userID, err := userIDByClerkID(ctx, s.db, clerkID)
	if err != nil {
		return nil, err
	}

	query := `
	SELECT id, user_id, track_id, time_in_seconds, turns, difficulty, completed_at
	FROM memory_game_scores
	WHERE user_id = $1 AND track_id = $2
	ORDER BY completed_at DESC
	LIMIT 10
	`

	rows, err := s.db.Query(ctx, query, userID, trackID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scores: %w", err)
	}
	defer rows.Close()

	var scores []*memorygame.Score
	for rows.Next() {
		sc := &memorygame.Score{}
		err := rows.Scan(&sc.ID, &sc.UserID, &sc.TrackID, &sc.TimeInSeconds, &sc.Turns, &sc.Difficulty, &sc.CompletedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan score: %w", err)
		}
		scores = append(scores, sc)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scores: %w", err)
	}

	if scores == nil {
		scores = []*memorygame.Score{}
	}
	return scores, nil
}

// GetLeaderboard is the per-track, per-difficulty top 10 by fastest time.
// Players without a profile show up as Anonymous.
func (s *MemoryGameService) GetLeaderboard(ctx context.Context, trackID uuid.UUID, difficulty memorygame.Difficulty) ([]*memorygame.LeaderboardRow, error) {
	query := `
	SELECT
		m.id, m.user_id, m.track_id, m.time_in_seconds, m.turns, m.difficulty, m.completed_at,
		COALESCE(p.username, 'Anonymous') AS username
	FROM memory_game_scores m
	LEFT JOIN profiles p ON p.user_id = m.user_id
	WHERE m.track_id = $1 AND m.difficulty = $2
	ORDER BY m.time_in_seconds ASC
	LIMIT 10
	`

	rows, err := s.db.Query(ctx, query, trackID, difficulty)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch memory game leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []*memorygame.LeaderboardRow
	for rows.Next() {
		row := &memorygame.LeaderboardRow{}
		err := rows.Scan(&row.ID, &row.UserID, &row.TrackID, &row.TimeInSeconds, &row.Turns, &row.Difficulty, &row.CompletedAt, &row.Username)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		entries = append(entries, row)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leaderboard rows: %w", err)
	}

	if entries == nil {
		entries = []*memorygame.LeaderboardRow{}
	}
	return entries, nil
}

// GetAffirmations returns the card deck for a track's memory minigame (the
// day-0 memory challenge), or the default deck when the track has none.
func (s *MemoryGameService) GetAffirmations(ctx context.Context, trackID uuid.UUID) (*memorygame.AffirmationDeck, error) {
	var content []byte
	err := s.db.QueryRow(ctx, `
		SELECT content FROM challenges
		WHERE track_id = $1 AND day = 0 AND type = 'memory'
	`, trackID).Scan(&content)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return memorygame.DefaultDeck(), nil
		}
		return nil, fmt.Errorf("failed to get memory challenge: %w", err)
	}

	deck := &memorygame.AffirmationDeck{}
	if err := json.Unmarshal(content, deck); err != nil {
		return nil, fmt.Errorf("invalid memory challenge content: %w", err)
	}
	if len(deck.Affirmations) == 0 {
		return memorygame.DefaultDeck(), nil
	}
	return deck, nil
}
