package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"mindQuestAPI/internal/gamification"
	"mindQuestAPI/internal/trainer"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TrainerService struct {
	db *pgxpool.Pool
}

func NewTrainerService(db *pgxpool.Pool) *TrainerService {
	return &TrainerService{db: db}
}

// SubmitResponse records a scenario attempt. XP is awarded only on the
// transition into a correct answer: the full 30 first try, 5 less per prior
// attempt with a floor of 10. Once a scenario is correct, further
// submissions update the row but never earn again.
func (s *TrainerService) SubmitResponse(ctx context.Context, clerkID string, req *trainer.SubmitRequest) (*trainer.SubmitResult, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	userID, err := userIDByClerkID(ctx, tx, clerkID)
	if err != nil {
		return nil, err
	}

	var (
		wasCorrect   bool
		prevAttempts int
	)
	err = tx.QueryRow(ctx, `
		SELECT is_correct, attempts FROM response_trainer_progress
		WHERE user_id = $1 AND scenario_id = $2
	`, userID, req.ScenarioID).Scan(&wasCorrect, &prevAttempts)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to check existing progress: %w", err)
	}

	attempts := prevAttempts + 1
	xpEarned := 0
	if req.IsCorrect && !wasCorrect {
		xpEarned = gamification.TrainerXP(attempts)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO response_trainer_progress (user_id, track_id, scenario_id, selected_response, is_correct, attempts, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (user_id, scenario_id)
		DO UPDATE SET selected_response = $4, is_correct = $5, attempts = $6, completed_at = NOW()
	`, userID, req.TrackID, req.ScenarioID, req.SelectedResponse, req.IsCorrect, attempts)
	if err != nil {
		return nil, fmt.Errorf("failed to record response: %w", err)
	}

	result := &trainer.SubmitResult{XPEarned: xpEarned, Attempts: attempts}

	if xpEarned > 0 {
		var totalXP int
		err = tx.QueryRow(ctx, `SELECT total_xp FROM profiles WHERE user_id = $1`, userID).Scan(&totalXP)
		if err != nil {
			if !errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("failed to get profile: %w", err)
			}
			log.Printf("SubmitResponse: no profile for user %s, XP not applied", userID)
		} else {
			newTotal, newLevel := gamification.ApplyXP(totalXP, xpEarned)
			_, err = tx.Exec(ctx, `UPDATE profiles SET total_xp = $2, level = $3 WHERE user_id = $1`, userID, newTotal, newLevel)
			if err != nil {
				return nil, fmt.Errorf("failed to update profile: %w", err)
			}
			result.TotalXP = newTotal
			result.Level = newLevel
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit response: %w", err)
	}

	return result, nil
}

func (s *TrainerService) GetProgress(ctx context.Context, clerkID string, trackID uuid.UUID) ([]*trainer.Progress, error) {
	userID, err := userIDByClerkID(ctx, s.db, clerkID)
	if err != nil {
		return nil, err
	}

	query := `
	SELECT id, user_id, track_id, scenario_id, selected_response, is_correct, attempts, completed_at
	FROM response_trainer_progress
	WHERE user_id = $1 AND track_id = $2
	ORDER BY completed_at
	`

	rows, err := s.db.Query(ctx, query, userID, trackID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch trainer progress: %w", err)
	}
	defer rows.Close()

	var items []*trainer.Progress
	for rows.Next() {
		p := &trainer.Progress{}
		err := rows.Scan(&p.ID, &p.UserID, &p.TrackID, &p.ScenarioID, &p.SelectedResponse, &p.IsCorrect, &p.Attempts, &p.CompletedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trainer row: %w", err)
		}
		items = append(items, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trainer rows: %w", err)
	}

	if items == nil {
		items = []*trainer.Progress{}
	}
	return items, nil
}

// GetStats aggregates a track's scenarios: how many attempted, how many
// correct, accuracy percent and average attempts rounded to one decimal.
func (s *TrainerService) GetStats(ctx context.Context, clerkID string, trackID uuid.UUID) (*trainer.Stats, error) {
	userID, err := userIDByClerkID(ctx, s.db, clerkID)
	if err != nil {
		return nil, err
	}

	query := `
	SELECT
		COUNT(*),
		COUNT(*) FILTER (WHERE is_correct),
		COALESCE(SUM(attempts), 0)
	FROM response_trainer_progress
	WHERE user_id = $1 AND track_id = $2
	`

	var total, correct, totalAttempts int
	if err := s.db.QueryRow(ctx, query, userID, trackID).Scan(&total, &correct, &totalAttempts); err != nil {
		return nil, fmt.Errorf("failed to get trainer stats: %w", err)
	}

	st := &trainer.Stats{
		TotalScenarios:   total,
		CorrectResponses: correct,
	}
	if total > 0 {
		st.Accuracy = float64(correct) / float64(total) * 100
		st.AverageAttempts = float64(int(float64(totalAttempts)/float64(total)*10+0.5)) / 10
	}
	return st, nil
}
