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
	"mindQuestAPI/internal/memorygame"
	"mindQuestAPI/middleware"
	"mindQuestAPI/services"
	"mindQuestAPI/tests/helpers"
)

func TestMemoryGameSaveScore(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	memoryGameService := services.NewMemoryGameService(pool)
	memoryGameHandler := handlers.NewMemoryGameHandler(memoryGameService)

	clerkID := "user_test_" + time.Now().Format("20060102150405.200")
	userID := helpers.SeedTestUser(t, pool, clerkID)
	helpers.SeedTestProfile(t, pool, userID, "memorytester")
	trackID, _ := helpers.SeedTestTrack(t, pool, 1)

	// Hard game in 40s and 10 turns:
	// 50 base + 50 hard bonus + 6 time bonus + 40 turn bonus = 146 XP.
	body := `{"track_id": "` + trackID.String() + `", "time_in_seconds": 40, "turns": 10, "difficulty": "hard"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/memory-game/scores", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	ctx := context.WithValue(req.Context(), middleware.ClerkIDKey, clerkID)
	req = req.WithContext(ctx)

	rr := httptest.NewRecorder()
	memoryGameHandler.SaveScore(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var result memorygame.SaveScoreResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.Equal(t, 146, result.XPEarned)
	assert.Equal(t, 146, result.TotalXP)
	assert.Equal(t, 1, result.Level)

	// The score itself is on record.
	scores, err := memoryGameService.GetScores(context.Background(), clerkID, trackID)
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, 40, scores[0].TimeInSeconds)
	assert.Equal(t, memorygame.DifficultyHard, scores[0].Difficulty)
}

func TestMemoryGameSaveScore_InvalidDifficulty(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	memoryGameService := services.NewMemoryGameService(pool)
	memoryGameHandler := handlers.NewMemoryGameHandler(memoryGameService)

	clerkID := "user_test_" + time.Now().Format("20060102150405.201")
	helpers.SeedTestUser(t, pool, clerkID)
	trackID, _ := helpers.SeedTestTrack(t, pool, 1)

	body := `{"track_id": "` + trackID.String() + `", "time_in_seconds": 40, "turns": 10, "difficulty": "nightmare"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/memory-game/scores", strings.NewReader(body))
	ctx := context.WithValue(req.Context(), middleware.ClerkIDKey, clerkID)
	req = req.WithContext(ctx)

	rr := httptest.NewRecorder()
	memoryGameHandler.SaveScore(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestMemoryGameLeaderboardOrdering(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	memoryGameService := services.NewMemoryGameService(pool)
	memoryGameHandler := handlers.NewMemoryGameHandler(memoryGameService)

	trackID, _ := helpers.SeedTestTrack(t, pool, 1)

	ctx := context.Background()
	times := []int{90, 30, 60}
	for i, seconds := range times {
		clerkID := "user_test_" + time.Now().Format("20060102150405.21") + string(rune('0'+i))
		userID := helpers.SeedTestUser(t, pool, clerkID)
		helpers.SeedTestProfile(t, pool, userID, "speedster")
		_, err := memoryGameService.SaveScore(ctx, clerkID, &memorygame.SaveScoreRequest{
			TrackID:       trackID,
			TimeInSeconds: seconds,
			Turns:         12,
			Difficulty:    memorygame.DifficultyMedium,
		})
		require.NoError(t, err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/memory-game/"+trackID.String()+"/leaderboard?difficulty=medium", nil)
	req = mux.SetURLVars(req, map[string]string{"trackId": trackID.String()})
	rr := httptest.NewRecorder()
	memoryGameHandler.GetLeaderboard(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var rows []*memorygame.LeaderboardRow
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rows))
	require.Len(t, rows, 3)
	assert.Equal(t, 30, rows[0].TimeInSeconds, "fastest time first")
	assert.Equal(t, 60, rows[1].TimeInSeconds)
	assert.Equal(t, 90, rows[2].TimeInSeconds)
}

func TestGetAffirmations_DefaultDeck(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	memoryGameService := services.NewMemoryGameService(pool)

	// Track with no day-0 memory challenge falls back to the default deck.
	trackID, _ := helpers.SeedTestTrack(t, pool, 1)

	deck, err := memoryGameService.GetAffirmations(context.Background(), trackID)
	require.NoError(t, err)
	assert.NotEmpty(t, deck.Affirmations)
	assert.Equal(t, 12, deck.Difficulties[memorygame.DifficultyHard].Pairs)
}
