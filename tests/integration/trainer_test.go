package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindQuestAPI/internal/trainer"
	"mindQuestAPI/services"
	"mindQuestAPI/tests/helpers"
)

// TestTrainerXPDecay verifies the per-attempt XP decay and that a scenario
// only ever pays out once.
func TestTrainerXPDecay(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	trainerService := services.NewTrainerService(pool)

	clerkID := "user_test_" + time.Now().Format("20060102150405.100")
	userID := helpers.SeedTestUser(t, pool, clerkID)
	helpers.SeedTestProfile(t, pool, userID, "trainertester")
	trackID, _ := helpers.SeedTestTrack(t, pool, 1)

	ctx := context.Background()
	submit := func(scenarioID string, correct bool) *trainer.SubmitResult {
		result, err := trainerService.SubmitResponse(ctx, clerkID, &trainer.SubmitRequest{
			TrackID:          trackID,
			ScenarioID:       scenarioID,
			SelectedResponse: 1,
			IsCorrect:        correct,
		})
		require.NoError(t, err)
		return result
	}

	// Two wrong attempts then a correct one: 30 - 2*5 = 20 XP.
	result := submit("scenario_a", false)
	assert.Equal(t, 0, result.XPEarned)
	assert.Equal(t, 1, result.Attempts)

	result = submit("scenario_a", false)
	assert.Equal(t, 0, result.XPEarned)
	assert.Equal(t, 2, result.Attempts)

	result = submit("scenario_a", true)
	assert.Equal(t, 20, result.XPEarned)
	assert.Equal(t, 3, result.Attempts)
	assert.Equal(t, 20, result.TotalXP)

	// Re-answering a solved scenario never pays again.
	result = submit("scenario_a", true)
	assert.Equal(t, 0, result.XPEarned)

	// First-try correct on a fresh scenario pays the full 30.
	result = submit("scenario_b", true)
	assert.Equal(t, 30, result.XPEarned)
	assert.Equal(t, 50, result.TotalXP)

	// The floor holds no matter how many attempts it takes.
	for i := 0; i < 9; i++ {
		submit("scenario_c", false)
	}
	result = submit("scenario_c", true)
	assert.Equal(t, 10, result.XPEarned, "XP should floor at 10")

	var totalXP int
	err := pool.QueryRow(ctx, "SELECT total_xp FROM profiles WHERE user_id = $1", userID).Scan(&totalXP)
	require.NoError(t, err)
	assert.Equal(t, 60, totalXP)
}

func TestTrainerStats(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	trainerService := services.NewTrainerService(pool)

	clerkID := "user_test_" + time.Now().Format("20060102150405.101")
	userID := helpers.SeedTestUser(t, pool, clerkID)
	helpers.SeedTestProfile(t, pool, userID, "statstester")
	trackID, _ := helpers.SeedTestTrack(t, pool, 1)

	ctx := context.Background()
	_, err := trainerService.SubmitResponse(ctx, clerkID, &trainer.SubmitRequest{
		TrackID: trackID, ScenarioID: "s1", SelectedResponse: 0, IsCorrect: true,
	})
	require.NoError(t, err)
	_, err = trainerService.SubmitResponse(ctx, clerkID, &trainer.SubmitRequest{
		TrackID: trackID, ScenarioID: "s2", SelectedResponse: 2, IsCorrect: false,
	})
	require.NoError(t, err)

	stats, err := trainerService.GetStats(ctx, clerkID, trackID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalScenarios)
	assert.Equal(t, 1, stats.CorrectResponses)
	assert.InDelta(t, 50.0, stats.Accuracy, 0.01)
}
