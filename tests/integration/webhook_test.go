package integration

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindQuestAPI/handlers"
	"mindQuestAPI/services"
	"mindQuestAPI/tests/helpers"
)

// TestClerkWebhookLifecycle provisions, updates and deletes a user via the
// webhook endpoint, as Clerk would during an account's lifetime.
func TestClerkWebhookLifecycle(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	userService := services.NewUserService(pool)
	webhookHandler := handlers.NewWebhookHandler(userService)

	// Empty secret skips signature verification.
	os.Setenv("CLERK_WEBHOOK_SECRET", "")
	defer os.Unsetenv("CLERK_WEBHOOK_SECRET")

	clerkID := "user_test_" + time.Now().Format("20060102150405.500")
	ctx := context.Background()

	post := func(payload []byte) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/webhooks/clerk", bytes.NewReader(payload))
		rr := httptest.NewRecorder()
		webhookHandler.HandleClerkWebhook(rr, req)
		return rr
	}

	// user.created provisions the row.
	rr := post(helpers.MockClerkWebhookPayload("user.created", clerkID))
	require.Equal(t, http.StatusOK, rr.Code)

	created, err := userService.GetUserByClerkID(ctx, clerkID)
	require.NoError(t, err)
	assert.Equal(t, "test.user@example.com", created.Email)
	assert.Equal(t, "testuser", created.Username)
	assert.True(t, created.EmailVerified)

	// user.updated syncs the mirror.
	rr = post(helpers.MockClerkWebhookPayload("user.updated", clerkID))
	require.Equal(t, http.StatusOK, rr.Code)

	updated, err := userService.GetUserByClerkID(ctx, clerkID)
	require.NoError(t, err)
	assert.Equal(t, "updateduser", updated.Username)
	assert.Equal(t, "Updated", updated.FirstName)

	// user.deleted removes it.
	rr = post(helpers.MockClerkWebhookPayload("user.deleted", clerkID))
	require.Equal(t, http.StatusOK, rr.Code)

	_, err = userService.GetUserByClerkID(ctx, clerkID)
	assert.Error(t, err, "user should be deleted")
}

func TestClerkWebhook_BadSignature(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	userService := services.NewUserService(pool)
	webhookHandler := handlers.NewWebhookHandler(userService)

	os.Setenv("CLERK_WEBHOOK_SECRET", "whsec_testsecret")
	defer os.Unsetenv("CLERK_WEBHOOK_SECRET")

	payload := helpers.MockClerkWebhookPayload("user.created", "user_test_badsig")
	req := httptest.NewRequest(http.MethodPost, "/webhooks/clerk", bytes.NewReader(payload))
	req.Header.Set("svix-id", "msg_123")
	req.Header.Set("svix-timestamp", "1700000000")
	req.Header.Set("svix-signature", "v1,definitelynotvalid")

	rr := httptest.NewRecorder()
	webhookHandler.HandleClerkWebhook(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
