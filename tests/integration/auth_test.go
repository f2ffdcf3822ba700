package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindQuestAPI/handlers"
	"mindQuestAPI/internal/profile"
	"mindQuestAPI/middleware"
	"mindQuestAPI/services"
	"mindQuestAPI/tests/helpers"
)

func TestClerkAuthMiddleware_RejectsForgedToken(t *testing.T) {
	mw := middleware.ClerkAuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("protected handler ran for a forged token")
	}))

	// Signed with a local HMAC key, not a Clerk instance key, so
	// verification has to reject it.
	token, err := helpers.GenerateMockClerkJWT("user_forged")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()

	mw.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid token")
}

func TestClerkAuthMiddleware_HeaderValidation(t *testing.T) {
	mw := middleware.ClerkAuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("protected handler ran without credentials")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "Authorization header required")

	req = httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	req.Header.Set("Authorization", "Token abc123")
	rr = httptest.NewRecorder()
	mw.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "Bearer")
}

func TestGetProfile_Unauthenticated(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	profileService := services.NewProfileService(pool)
	notificationService := services.NewNotificationService(pool)
	challengeService := services.NewChallengeService(pool, notificationService, time.UTC)
	profileHandler := handlers.NewProfileHandler(profileService, challengeService)

	// Request WITHOUT auth context.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	rr := httptest.NewRecorder()

	profileHandler.GetProfile(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	var response map[string]string
	err := json.Unmarshal(rr.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Contains(t, response["error"], "not authenticated")
}

func TestCreateProfile_AndFetch(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	profileService := services.NewProfileService(pool)
	notificationService := services.NewNotificationService(pool)
	challengeService := services.NewChallengeService(pool, notificationService, time.UTC)
	profileHandler := handlers.NewProfileHandler(profileService, challengeService)

	clerkID := "user_test_" + time.Now().Format("20060102150405.400")
	helpers.SeedTestUser(t, pool, clerkID)

	body := `{"username": "newplayer"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/profile", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	ctx := context.WithValue(req.Context(), middleware.ClerkIDKey, clerkID)
	req = req.WithContext(ctx)

	rr := httptest.NewRecorder()
	profileHandler.CreateProfile(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var created profile.Profile
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, "newplayer", created.Username)
	assert.Equal(t, 0, created.TotalXP)
	assert.Equal(t, 1, created.Level)

	// Creating again conflicts.
	req2 := httptest.NewRequest(http.MethodPost, "/api/v1/profile", strings.NewReader(body))
	req2 = req2.WithContext(context.WithValue(req2.Context(), middleware.ClerkIDKey, clerkID))
	rr2 := httptest.NewRecorder()
	profileHandler.CreateProfile(rr2, req2)
	assert.Equal(t, http.StatusConflict, rr2.Code)

	// Fetch round-trips.
	req3 := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	req3 = req3.WithContext(context.WithValue(req3.Context(), middleware.ClerkIDKey, clerkID))
	rr3 := httptest.NewRecorder()
	profileHandler.GetProfile(rr3, req3)
	require.Equal(t, http.StatusOK, rr3.Code)

	var fetched profile.Profile
	require.NoError(t, json.Unmarshal(rr3.Body.Bytes(), &fetched))
	assert.Equal(t, created.ID, fetched.ID)
}
