package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindQuestAPI/internal/notification"
	"mindQuestAPI/services"
	"mindQuestAPI/tests/helpers"
)

func TestNotificationFlow(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	notificationService := services.NewNotificationService(pool)

	clerkID := "user_test_" + time.Now().Format("20060102150405.600")
	userID := helpers.SeedTestUser(t, pool, clerkID)

	ctx := context.Background()
	err := notificationService.Notify(ctx, userID, notification.NotificationStreakMilestone,
		"7-day streak!", "You've shown up 7 days in a row.", map[string]any{"streak": 7})
	require.NoError(t, err)

	err = notificationService.Notify(ctx, userID, notification.NotificationLevelUp,
		"Level up!", "You reached level 2.", map[string]any{"level": 2})
	require.NoError(t, err)

	resp, err := notificationService.GetNotifications(ctx, clerkID, 50)
	require.NoError(t, err)
	require.Len(t, resp.Notifications, 2)
	assert.Equal(t, 2, resp.UnreadCount)

	// Newest first.
	assert.Equal(t, notification.NotificationLevelUp, resp.Notifications[0].Type)

	err = notificationService.MarkAsRead(ctx, clerkID, resp.Notifications[0].ID)
	require.NoError(t, err)

	count, err := notificationService.GetUnreadCount(ctx, clerkID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	err = notificationService.MarkAllAsRead(ctx, clerkID)
	require.NoError(t, err)

	count, err = notificationService.GetUnreadCount(ctx, clerkID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestRegisterDevice_Upsert(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	notificationService := services.NewNotificationService(pool)

	clerkID := "user_test_" + time.Now().Format("20060102150405.601")
	userID := helpers.SeedTestUser(t, pool, clerkID)

	ctx := context.Background()
	req := &notification.RegisterDeviceRequest{Token: "fcm-token-abc", Platform: "android"}
	require.NoError(t, notificationService.RegisterDevice(ctx, clerkID, req))
	// Same token registered twice stays a single row.
	require.NoError(t, notificationService.RegisterDevice(ctx, clerkID, req))

	var count int
	err := pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM device_tokens WHERE user_id = $1", userID).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
