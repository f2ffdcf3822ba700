package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindQuestAPI/handlers"
	"mindQuestAPI/internal/leaderboard"
	"mindQuestAPI/middleware"
	"mindQuestAPI/services"
	"mindQuestAPI/tests/helpers"
)

// TestLeaderboardOrdering seeds three users with different XP totals and
// checks rank order plus the caller's own position entry.
func TestLeaderboardOrdering(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	profileService := services.NewProfileService(pool)
	notificationService := services.NewNotificationService(pool)
	challengeService := services.NewChallengeService(pool, notificationService, time.UTC)
	profileHandler := handlers.NewProfileHandler(profileService, challengeService)

	ctx := context.Background()
	stamp := time.Now().Format("20060102150405.300")
	xpTotals := []int{3000, 1000, 2000}
	clerkIDs := make([]string, len(xpTotals))
	for i, xp := range xpTotals {
		clerkIDs[i] = fmt.Sprintf("user_test_%s_%d", stamp, i)
		userID := helpers.SeedTestUser(t, pool, clerkIDs[i])
		helpers.SeedTestProfile(t, pool, userID, fmt.Sprintf("ranker%d", i))
		_, err := pool.Exec(ctx,
			"UPDATE profiles SET total_xp = $2, level = $3 WHERE user_id = $1",
			userID, xp, xp/1000+1)
		require.NoError(t, err)
	}

	// Fetch as the lowest-XP user.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard", nil)
	reqCtx := context.WithValue(req.Context(), middleware.ClerkIDKey, clerkIDs[1])
	req = req.WithContext(reqCtx)

	rr := httptest.NewRecorder()
	profileHandler.GetLeaderboard(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var board leaderboard.Leaderboard
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &board))
	require.GreaterOrEqual(t, len(board.Entries), 3)

	// XP strictly descending, ranks ascending from 1.
	for i := 1; i < len(board.Entries); i++ {
		assert.GreaterOrEqual(t, board.Entries[i-1].TotalXP, board.Entries[i].TotalXP)
	}
	assert.Equal(t, 1, board.Entries[0].Rank)

	require.NotNil(t, board.UserPosition, "caller should have a position entry")
	assert.Equal(t, "ranker1", board.UserPosition.Username)
	assert.Equal(t, 1000, board.UserPosition.TotalXP)
	assert.Greater(t, board.UserPosition.Rank, 1)
}

func TestUserStatsAfterActivity(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	profileService := services.NewProfileService(pool)
	notificationService := services.NewNotificationService(pool)
	challengeService := services.NewChallengeService(pool, notificationService, time.UTC)

	clerkID := "user_test_" + time.Now().Format("20060102150405.301")
	userID := helpers.SeedTestUser(t, pool, clerkID)
	helpers.SeedTestProfile(t, pool, userID, "statsuser")
	_, challengeIDs := helpers.SeedTestTrack(t, pool, 2)

	ctx := context.Background()
	_, err := challengeService.CompleteChallenge(ctx, clerkID, challengeIDs[0], nil)
	require.NoError(t, err)

	st, err := profileService.GetUserStats(ctx, clerkID, challengeService.Today())
	require.NoError(t, err)
	assert.True(t, st.TodayStatus)
	assert.Equal(t, 1, st.ChallengesToday)
	assert.Equal(t, 50, st.XPToday)
	assert.Equal(t, 1, st.TotalChallengesDone)
	assert.Equal(t, 50, st.TotalXP)
	assert.Equal(t, 1, st.CurrentStreak)
}
