package helpers

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SetupTestDB creates a test database connection
func SetupTestDB(t *testing.T) *pgxpool.Pool {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		t.Fatal("TEST_DATABASE_URL or DATABASE_URL must be set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	return pool
}

// CleanupTestDB cleans up test data
func CleanupTestDB(t *testing.T, pool *pgxpool.Pool) {
	ctx := context.Background()
	_, err := pool.Exec(ctx, "DELETE FROM users WHERE email LIKE 'test%@example.com'")
	if err != nil {
		t.Logf("Warning: failed to cleanup test data: %v", err)
	}
	_, err = pool.Exec(ctx, "DELETE FROM tracks WHERE name LIKE 'Test Track%'")
	if err != nil {
		t.Logf("Warning: failed to cleanup test tracks: %v", err)
	}
	pool.Close()
}

// SeedTestUser inserts a user row and returns its id.
func SeedTestUser(t *testing.T, pool *pgxpool.Pool, clerkID string) uuid.UUID {
	ctx := context.Background()
	var id uuid.UUID
	err := pool.QueryRow(ctx, `
		INSERT INTO users (clerk_id, email, username)
		VALUES ($1, $2, $3)
		RETURNING id`,
		clerkID, fmt.Sprintf("test+%s@example.com", clerkID), "tester_"+clerkID,
	).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to seed test user: %v", err)
	}
	return id
}

// SeedTestProfile inserts a profile for the user and returns the profile id.
func SeedTestProfile(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, username string) uuid.UUID {
	ctx := context.Background()
	var id uuid.UUID
	err := pool.QueryRow(ctx, `
		INSERT INTO profiles (user_id, username)
		VALUES ($1, $2)
		RETURNING id`,
		userID, username,
	).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to seed test profile: %v", err)
	}
	return id
}

// SeedTestTrack inserts a track with the given number of daily challenges
// (days 1..n, quiz type, 50 XP each) and returns track and challenge ids.
func SeedTestTrack(t *testing.T, pool *pgxpool.Pool, days int) (uuid.UUID, []uuid.UUID) {
	ctx := context.Background()
	var trackID uuid.UUID
	err := pool.QueryRow(ctx, `
		INSERT INTO tracks (name, category, total_challenges, estimated_days)
		VALUES ($1, 'anxiety', $2, $2)
		RETURNING id`,
		"Test Track "+uuid.NewString()[:8], days,
	).Scan(&trackID)
	if err != nil {
		t.Fatalf("Failed to seed test track: %v", err)
	}

	content, _ := json.Marshal(map[string]any{"questions": []any{}})
	challengeIDs := make([]uuid.UUID, 0, days)
	for day := 1; day <= days; day++ {
		var cid uuid.UUID
		err := pool.QueryRow(ctx, `
			INSERT INTO challenges (track_id, day, title, type, content, xp_reward)
			VALUES ($1, $2, $3, 'quiz', $4, 50)
			RETURNING id`,
			trackID, day, fmt.Sprintf("Day %d", day), content,
		).Scan(&cid)
		if err != nil {
			t.Fatalf("Failed to seed challenge for day %d: %v", day, err)
		}
		challengeIDs = append(challengeIDs, cid)
	}

	return trackID, challengeIDs
}

// GenerateMockClerkJWT generates a mock JWT token for testing
func GenerateMockClerkJWT(clerkID string) (string, error) {
	secretKey := []byte("test-secret-key-for-testing-only")

	claims := jwt.MapClaims{
		"sub": clerkID,
		"iss": "https://clerk.test",
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour * 24).Unix(),
		"azp": "test-app-id",
		"sid": "sess_test123",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// MockClerkWebhookPayload creates a mock webhook payload
func MockClerkWebhookPayload(eventType string, clerkID string) []byte {
	payload := ""

	switch eventType {
	case "user.created":
		payload = fmt.Sprintf(`{
			"data": {
				"id": "%s",
				"first_name": "Test",
				"last_name": "User",
				"email_addresses": [{
					"id": "email_123",
					"email_address": "test.user@example.com",
					"verification": {"status": "verified"}
				}],
				"primary_email_address_id": "email_123",
				"username": "testuser",
				"image_url": "https://example.com/image.jpg",
				"profile_image_url": "https://example.com/image.jpg"
			},
			"object": "event",
			"type": "%s"
		}`, clerkID, eventType)

	case "user.updated":
		payload = fmt.Sprintf(`{
			"data": {
				"id": "%s",
				"first_name": "Updated",
				"last_name": "User",
				"email_addresses": [{
					"id": "email_123",
					"email_address": "test.user@example.com",
					"verification": {"status": "verified"}
				}],
				"username": "updateduser",
				"image_url": "https://example.com/new-image.jpg"
			},
			"object": "event",
			"type": "%s"
		}`, clerkID, eventType)

	case "user.deleted":
		payload = fmt.Sprintf(`{
			"data": {
				"id": "%s",
				"deleted": true
			},
			"object": "event",
			"type": "%s"
		}`, clerkID, eventType)
	}

	return []byte(payload)
}
