package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindQuestAPI/handlers"
	"mindQuestAPI/internal/progress"
	"mindQuestAPI/middleware"
	"mindQuestAPI/services"
	"mindQuestAPI/tests/helpers"
)

// TestCompleteChallengeFlow walks a user through completing two daily
// challenges and checks XP, streak and idempotency along the way.
func TestCompleteChallengeFlow(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	notificationService := services.NewNotificationService(pool)
	challengeService := services.NewChallengeService(pool, notificationService, time.UTC)
	challengeHandler := handlers.NewChallengeHandler(challengeService)

	clerkID := "user_test_" + time.Now().Format("20060102150405.000")
	userID := helpers.SeedTestUser(t, pool, clerkID)
	helpers.SeedTestProfile(t, pool, userID, "flowtester")
	trackID, challengeIDs := helpers.SeedTestTrack(t, pool, 3)

	completeChallenge := func(challengeID string, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/challenges/"+challengeID+"/complete", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req = mux.SetURLVars(req, map[string]string{"challengeId": challengeID})
		ctx := context.WithValue(req.Context(), middleware.ClerkIDKey, clerkID)
		req = req.WithContext(ctx)

		rr := httptest.NewRecorder()
		challengeHandler.CompleteChallenge(rr, req)
		return rr
	}

	// Day 1 challenge, with a quiz score.
	rr := completeChallenge(challengeIDs[0].String(), `{"score": 80}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var result progress.CompleteChallengeResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.Equal(t, 50, result.XPEarned)
	assert.Equal(t, 50, result.TotalXP)
	assert.Equal(t, 1, result.Level)
	assert.Equal(t, 1, result.CurrentStreak)
	assert.False(t, result.LeveledUp)

	// Completing the same challenge again is rejected and awards nothing.
	rr = completeChallenge(challengeIDs[0].String(), `{}`)
	assert.Equal(t, http.StatusConflict, rr.Code)

	ctx := context.Background()
	var totalXP, currentStreak int
	err := pool.QueryRow(ctx,
		"SELECT total_xp, current_streak FROM profiles WHERE user_id = $1", userID,
	).Scan(&totalXP, &currentStreak)
	require.NoError(t, err)
	assert.Equal(t, 50, totalXP, "XP must be applied exactly once")
	assert.Equal(t, 1, currentStreak)

	// A second, different challenge the same day adds XP but not streak.
	rr = completeChallenge(challengeIDs[1].String(), `{}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.Equal(t, 100, result.TotalXP)
	assert.Equal(t, 1, result.CurrentStreak)

	// Daily activity aggregates both completions.
	var challengesToday, xpToday int
	err = pool.QueryRow(ctx, `
		SELECT challenges_completed, xp_earned FROM daily_activity
		WHERE user_id = $1 AND date = CURRENT_DATE`, userID,
	).Scan(&challengesToday, &xpToday)
	require.NoError(t, err)
	assert.Equal(t, 2, challengesToday)
	assert.Equal(t, 100, xpToday)

	// Progress lists both completed challenges for the track.
	items, err := challengeService.GetUserProgress(ctx, clerkID, trackID)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestCompleteChallenge_UnknownChallenge(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	notificationService := services.NewNotificationService(pool)
	challengeService := services.NewChallengeService(pool, notificationService, time.UTC)
	challengeHandler := handlers.NewChallengeHandler(challengeService)

	clerkID := "user_test_" + time.Now().Format("20060102150405.001")
	helpers.SeedTestUser(t, pool, clerkID)

	missing := "11111111-2222-3333-4444-555555555555"
	req := httptest.NewRequest(http.MethodPost, "/api/v1/challenges/"+missing+"/complete", strings.NewReader(`{}`))
	req = mux.SetURLVars(req, map[string]string{"challengeId": missing})
	ctx := context.WithValue(req.Context(), middleware.ClerkIDKey, clerkID)
	req = req.WithContext(ctx)

	rr := httptest.NewRecorder()
	challengeHandler.CompleteChallenge(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

// TestCompleteChallenge_MissingProfile checks that a completion still records
// progress when the user has no profile row yet.
func TestCompleteChallenge_MissingProfile(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	notificationService := services.NewNotificationService(pool)
	challengeService := services.NewChallengeService(pool, notificationService, time.UTC)

	clerkID := "user_test_" + time.Now().Format("20060102150405.002")
	userID := helpers.SeedTestUser(t, pool, clerkID)
	_, challengeIDs := helpers.SeedTestTrack(t, pool, 1)

	ctx := context.Background()
	result, err := challengeService.CompleteChallenge(ctx, clerkID, challengeIDs[0], nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.TotalXP)
	assert.Equal(t, 0, result.CurrentStreak)

	var completed bool
	err = pool.QueryRow(ctx, `
		SELECT completed FROM challenge_progress
		WHERE user_id = $1 AND challenge_id = $2`, userID, challengeIDs[0],
	).Scan(&completed)
	require.NoError(t, err)
	assert.True(t, completed, "completion record must exist even without a profile")
}
