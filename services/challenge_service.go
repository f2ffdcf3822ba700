package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"mindQuestAPI/internal/gamification"
	"mindQuestAPI/internal/notification"
	"mindQuestAPI/internal/progress"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Streak lengths that earn a milestone notification.
var streakMilestones = map[int]bool{7: true, 30: true, 100: true}

type ChallengeService struct {
	db            *pgxpool.Pool
	notifications *NotificationService
	loc           *time.Location
}

func NewChallengeService(db *pgxpool.Pool, notifications *NotificationService, loc *time.Location) *ChallengeService {
	if loc == nil {
		loc = time.UTC
	}
	return &ChallengeService{db: db, notifications: notifications, loc: loc}
}

// Today is the current calendar day in the deployment's reference timezone.
// Streaks and daily activity are bucketed by this day.
func (s *ChallengeService) Today() time.Time {
	return time.Now().In(s.loc)
}

// CompleteChallenge records an at-most-once completion and applies the XP,
// streak and daily-activity updates in one transaction, in that order. A
// retried completion hits the AlreadyCompleted guard before any write, so XP
// is never awarded twice.
func (s *ChallengeService) CompleteChallenge(ctx context.Context, clerkID string, challengeID uuid.UUID, score *int) (*progress.CompleteChallengeResult, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	userID, err := userIDByClerkID(ctx, tx, clerkID)
	if err != nil {
		return nil, err
	}

	var trackID uuid.UUID
	var xpReward int
	err = tx.QueryRow(ctx, `SELECT track_id, xp_reward FROM challenges WHERE id = $1`, challengeID).Scan(&trackID, &xpReward)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrChallengeNotFound
		}
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}

	var alreadyCompleted bool
	err = tx.QueryRow(ctx, `
		SELECT completed FROM challenge_progress
		WHERE user_id = $1 AND challenge_id = $2
	`, userID, challengeID).Scan(&alreadyCompleted)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to check existing completion: %w", err)
	}
	if alreadyCompleted {
		return nil, ErrAlreadyCompleted
	}

	// Step 1: the completion record. Scoring is informational; the award is
	// the challenge's fixed XP reward.
	_, err = tx.Exec(ctx, `
		INSERT INTO challenge_progress (user_id, track_id, challenge_id, completed, completed_at, score, xp_earned)
		VALUES ($1, $2, $3, TRUE, NOW(), $4, $5)
		ON CONFLICT (user_id, challenge_id)
		DO UPDATE SET completed = TRUE, completed_at = NOW(), score = $4, xp_earned = $5
	`, userID, trackID, challengeID, score, xpReward)
	if err != nil {
		return nil, fmt.Errorf("failed to record completion: %w", err)
	}

	result := &progress.CompleteChallengeResult{XPEarned: xpReward}

	// Step 2: the profile. A user without a profile still gets the
	// completion recorded; the XP is silently not applied.
	var (
		oldLevel         int
		totalXP          int
		streak           gamification.StreakState
		lastActivityDate *time.Time
		haveProfile      = true
	)
	err = tx.QueryRow(ctx, `
		SELECT total_xp, level, current_streak, longest_streak, last_activity_date
		FROM profiles WHERE user_id = $1
	`, userID).Scan(&totalXP, &oldLevel, &streak.Current, &streak.Longest, &lastActivityDate)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("failed to get profile: %w", err)
		}
		haveProfile = false
	}

	today := s.Today()

	if haveProfile {
		newTotal, newLevel := gamification.ApplyXP(totalXP, xpReward)
		newStreak := gamification.NextStreak(streak, lastActivityDate, today)

		_, err = tx.Exec(ctx, `
			UPDATE profiles
			SET total_xp = $2, level = $3, current_streak = $4, longest_streak = $5, last_activity_date = $6
			WHERE user_id = $1
		`, userID, newTotal, newLevel, newStreak.Current, newStreak.Longest, today.Format("2006-01-02"))
		if err != nil {
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}

		// Step 3: the daily aggregate. streak_day is written on the first
		// completion of the day and left alone afterwards.
		_, err = tx.Exec(ctx, `
			INSERT INTO daily_activity (user_id, date, challenges_completed, xp_earned, streak_day)
			VALUES ($1, $2, 1, $3, $4)
			ON CONFLICT (user_id, date)
			DO UPDATE SET
				challenges_completed = daily_activity.challenges_completed + 1,
				xp_earned = daily_activity.xp_earned + EXCLUDED.xp_earned
		`, userID, today.Format("2006-01-02"), xpReward, newStreak.Current)
		if err != nil {
			return nil, fmt.Errorf("failed to update daily activity: %w", err)
		}

		result.TotalXP = newTotal
		result.Level = newLevel
		result.CurrentStreak = newStreak.Current
		result.LeveledUp = newLevel > oldLevel
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit completion: %w", err)
	}

	s.emitMilestones(ctx, userID, result, streak.Current)

	return result, nil
}

// emitMilestones sends level-up and streak notifications after the ledger
// commit. Failures are logged, never surfaced to the completion caller.
func (s *ChallengeService) emitMilestones(ctx context.Context, userID uuid.UUID, result *progress.CompleteChallengeResult, prevStreak int) {
	if s.notifications == nil {
		return
	}

	if result.LeveledUp {
		err := s.notifications.Notify(ctx, userID, notification.NotificationLevelUp,
			"Level up!",
			fmt.Sprintf("You reached level %d. Keep it going!", result.Level),
			map[string]any{"level": result.Level})
		if err != nil {
			log.Printf("CompleteChallenge: level-up notification failed for %s: %v", userID, err)
		}
	}

	if result.CurrentStreak != prevStreak && streakMilestones[result.CurrentStreak] {
		err := s.notifications.Notify(ctx, userID, notification.NotificationStreakMilestone,
			fmt.Sprintf("%d-day streak!", result.CurrentStreak),
			fmt.Sprintf("You've shown up %d days in a row.", result.CurrentStreak),
			map[string]any{"streak": result.CurrentStreak})
		if err != nil {
			log.Printf("CompleteChallenge: streak notification failed for %s: %v", userID, err)
		}
	}
}

// GetUserProgress lists the caller's progress rows for one track.
func (s *ChallengeService) GetUserProgress(ctx context.Context, clerkID string, trackID uuid.UUID) ([]*progress.ChallengeCompletion, error) {
	userID, err := userIDByClerkID(ctx, s.db, clerkID)
	if err != nil {
		return nil, err
	}

	query := `
	SELECT id, user_id, track_id, challenge_id, completed, completed_at, score, xp_earned
	FROM challenge_progress
	WHERE user_id = $1 AND track_id = $2
	`

	rows, err := s.db.Query(ctx, query, userID, trackID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch progress: %w", err)
	}
	defer rows.Close()

	var items []*progress.ChallengeCompletion
	for rows.Next() {
		c := &progress.ChallengeCompletion{}
		err := rows.Scan(&c.ID, &c.UserID, &c.TrackID, &c.ChallengeID, &c.Completed, &c.CompletedAt, &c.Score, &c.XPEarned)
		if err != nil {
			return nil, fmt.Errorf("failed to scan progress row: %w", err)
		}
		items = append(items, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating progress rows: %w", err)
	}

	if items == nil {
		items = []*progress.ChallengeCompletion{}
	}
	return items, nil
}
