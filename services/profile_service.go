package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"mindQuestAPI/internal/leaderboard"
	"mindQuestAPI/internal/profile"
	"mindQuestAPI/internal/progress"
	"mindQuestAPI/internal/stats"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProfileService struct {
	db *pgxpool.Pool
}

func NewProfileService(db *pgxpool.Pool) *ProfileService {
	return &ProfileService{db: db}
}

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func userIDByClerkID(ctx context.Context, q queryRower, clerkID string) (uuid.UUID, error) {
	var userID uuid.UUID
	err := q.QueryRow(ctx, `SELECT id FROM users WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, ErrUserNotFound
		}
		return uuid.Nil, fmt.Errorf("failed to resolve user: %w", err)
	}
	return userID, nil
}

// CreateProfile is the onboarding step: a fresh ledger row at level 1 with
// zero XP and no streak.
func (s *ProfileService) CreateProfile(ctx context.Context, clerkID string, req *profile.CreateProfileRequest) (*profile.Profile, error) {
	userID, err := userIDByClerkID(ctx, s.db, clerkID)
	if err != nil {
		return nil, err
	}

	selected := req.SelectedTracks
	if selected == nil {
		selected = []uuid.UUID{}
	}

	query := `
	INSERT INTO profiles (user_id, username, total_xp, level, current_streak, longest_streak, selected_tracks, joined_at)
	VALUES ($1, $2, 0, 1, 0, 0, $3, NOW())
	ON CONFLICT (user_id) DO NOTHING
	RETURNING id, user_id, username, total_xp, level, current_streak, longest_streak, last_activity_date, selected_tracks, joined_at
	`

	p := &profile.Profile{}
	err = s.db.QueryRow(ctx, query, userID, req.Username, selected).Scan(
		&p.ID,
		&p.UserID,
		&p.Username,
		&p.TotalXP,
		&p.Level,
		&p.CurrentStreak,
		&p.LongestStreak,
		&p.LastActivityDate,
		&p.SelectedTracks,
		&p.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileExists
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	log.Printf("CreateProfile: created profile for user %s", userID)
	return p, nil
}

func (s *ProfileService) GetProfileByClerkID(ctx context.Context, clerkID string) (*profile.Profile, error) {
	query := `
	SELECT p.id, p.user_id, p.username, p.total_xp, p.level, p.current_streak, p.longest_streak, p.last_activity_date, p.selected_tracks, p.joined_at
	FROM profiles p
	INNER JOIN users u ON u.id = p.user_id
	WHERE u.clerk_id = $1
	`

	p := &profile.Profile{}
	err := s.db.QueryRow(ctx, query, clerkID).Scan(
		&p.ID,
		&p.UserID,
		&p.Username,
		&p.TotalXP,
		&p.Level,
		&p.CurrentStreak,
		&p.LongestStreak,
		&p.LastActivityDate,
		&p.SelectedTracks,
		&p.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return p, nil
}

func (s *ProfileService) UpdateSelectedTracks(ctx context.Context, clerkID string, trackIDs []uuid.UUID) (*profile.Profile, error) {
	userID, err := userIDByClerkID(ctx, s.db, clerkID)
	if err != nil {
		return nil, err
	}

	if trackIDs == nil {
		trackIDs = []uuid.UUID{}
	}

	query := `
	UPDATE profiles
	SET selected_tracks = $2
	WHERE user_id = $1
	RETURNING id, user_id, username, total_xp, level, current_streak, longest_streak, last_activity_date, selected_tracks, joined_at
	`

	p := &profile.Profile{}
	err = s.db.QueryRow(ctx, query, userID, trackIDs).Scan(
		&p.ID,
		&p.UserID,
		&p.Username,
		&p.TotalXP,
		&p.Level,
		&p.CurrentStreak,
		&p.LongestStreak,
		&p.LastActivityDate,
		&p.SelectedTracks,
		&p.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to update selected tracks: %w", err)
	}

	return p, nil
}

// GetLeaderboard returns the top 50 profiles by XP. The caller's own entry is
// picked out of the page when present, otherwise ranked with a count query.
func (s *ProfileService) GetLeaderboard(ctx context.Context, clerkID string) (*leaderboard.Leaderboard, error) {
	userID, err := userIDByClerkID(ctx, s.db, clerkID)
	if err != nil {
		return nil, err
	}

	query := `
	SELECT
		p.user_id,
		p.username,
		NULLIF(u.image_url, '') AS image_url,
		p.total_xp,
		p.level,
		p.current_streak,
		RANK() OVER (ORDER BY p.total_xp DESC) AS rank
	FROM profiles p
	INNER JOIN users u ON u.id = p.user_id
	ORDER BY p.total_xp DESC
	LIMIT 50
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []*leaderboard.Entry
	var userPosition *leaderboard.Entry

	for rows.Next() {
		entry := &leaderboard.Entry{}
		err := rows.Scan(
			&entry.UserID,
			&entry.Username,
			&entry.ImageURL,
			&entry.TotalXP,
			&entry.Level,
			&entry.CurrentStreak,
			&entry.Rank,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}

		entries = append(entries, entry)

		if entry.UserID == userID {
			userPosition = entry
		}
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leaderboard rows: %w", err)
	}

	var totalUsers int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&totalUsers); err != nil {
		return nil, fmt.Errorf("failed to count profiles: %w", err)
	}

	if userPosition == nil {
		userPosition, err = s.rankOutsideTop(ctx, userID)
		if err != nil {
			// The caller may simply not have a profile yet.
			log.Printf("GetLeaderboard: no position for user %s: %v", userID, err)
		}
	}

	if entries == nil {
		entries = []*leaderboard.Entry{}
	}

	return &leaderboard.Leaderboard{
		Entries:      entries,
		UserPosition: userPosition,
		TotalUsers:   totalUsers,
	}, nil
}

func (s *ProfileService) rankOutsideTop(ctx context.Context, userID uuid.UUID) (*leaderboard.Entry, error) {
	query := `
	SELECT
		p.user_id,
		p.username,
		NULLIF(u.image_url, '') AS image_url,
		p.total_xp,
		p.level,
		p.current_streak,
		(SELECT COUNT(*) + 1 FROM profiles o WHERE o.total_xp > p.total_xp) AS rank
	FROM profiles p
	INNER JOIN users u ON u.id = p.user_id
	WHERE p.user_id = $1
	`

	entry := &leaderboard.Entry{}
	err := s.db.QueryRow(ctx, query, userID).Scan(
		&entry.UserID,
		&entry.Username,
		&entry.ImageURL,
		&entry.TotalXP,
		&entry.Level,
		&entry.CurrentStreak,
		&entry.Rank,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to rank user: %w", err)
	}
	return entry, nil
}

func (s *ProfileService) GetUserStats(ctx context.Context, clerkID string, today time.Time) (*stats.UserStats, error) {
	p, err := s.GetProfileByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	st := &stats.UserStats{
		TotalXP:       p.TotalXP,
		Level:         p.Level,
		CurrentStreak: p.CurrentStreak,
		LongestStreak: p.LongestStreak,
	}

	query := `
	SELECT
		COALESCE((SELECT challenges_completed FROM daily_activity WHERE user_id = $1 AND date = $2), 0),
		COALESCE((SELECT xp_earned FROM daily_activity WHERE user_id = $1 AND date = $2), 0),
		(SELECT COUNT(*) FROM challenge_progress WHERE user_id = $1 AND completed = TRUE),
		(SELECT COUNT(*) FROM response_trainer_progress WHERE user_id = $1 AND is_correct = TRUE),
		(SELECT COUNT(*) FROM memory_game_scores WHERE user_id = $1),
		(SELECT COUNT(*) + 1 FROM profiles o WHERE o.total_xp > $3)
	`

	err = s.db.QueryRow(ctx, query, p.UserID, today.Format("2006-01-02"), p.TotalXP).Scan(
		&st.ChallengesToday,
		&st.XPToday,
		&st.TotalChallengesDone,
		&st.ScenariosCorrect,
		&st.MemoryGamesCompleted,
		&st.Rank,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get user stats: %w", err)
	}

	st.TodayStatus = st.ChallengesToday > 0
	return st, nil
}

// GetActivityCalendar returns the daily activity rows for one calendar month.
func (s *ProfileService) GetActivityCalendar(ctx context.Context, clerkID string, monthStart time.Time) ([]*progress.DailyActivity, error) {
	userID, err := userIDByClerkID(ctx, s.db, clerkID)
	if err != nil {
		return nil, err
	}

	query := `
	SELECT id, user_id, date, challenges_completed, xp_earned, streak_day
	FROM daily_activity
	WHERE user_id = $1 AND date >= $2 AND date < $3
	ORDER BY date
	`

	rows, err := s.db.Query(ctx, query, userID, monthStart, monthStart.AddDate(0, 1, 0))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch activity calendar: %w", err)
	}
	defer rows.Close()

	var days []*progress.DailyActivity
	for rows.Next() {
		d := &progress.DailyActivity{}
		err := rows.Scan(&d.ID, &d.UserID, &d.Date, &d.ChallengesCompleted, &d.XPEarned, &d.StreakDay)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}
		days = append(days, d)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}

	if days == nil {
		days = []*progress.DailyActivity{}
	}
	return days, nil
}
