package dating

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_UserAuthRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.GetUserAuth(ctx, "u1")
	assert.ErrorIs(t, err, ErrNotFound)

	user := &UserAuth{ID: "u1", Email: "Alex@Example.com", CreatedAt: time.Now()}
	require.NoError(t, store.SetUserAuth(ctx, user))

	got, err := store.GetUserAuth(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Alex@Example.com", got.Email)

	// lookup is case-insensitive on email
	found, err := store.FindUserAuth(ctx, "alex@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, "u1", found.ID)

	_, err = store.FindUserAuth(ctx, "nobody@example.com", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_FindByPhone(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.SetUserAuth(ctx, &UserAuth{ID: "u2", Phone: "+15551234"}))

	found, err := store.FindUserAuth(ctx, "", "+15551234")
	require.NoError(t, err)
	assert.Equal(t, "u2", found.ID)
}

func TestEnsureSession_CreatesAndPersists(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	sess, err := EnsureSession(ctx, store, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", sess.UserID)
	assert.Equal(t, TierFree, sess.SubscriptionTier)
	require.NotNil(t, sess.Economy)
	assert.Equal(t, 19, sess.Economy.MatchDropHourLocal)

	again, err := EnsureSession(ctx, store, "u1")
	require.NoError(t, err)
	assert.Equal(t, sess.CreatedAt, again.CreatedAt)
}

func TestMemoryStore_SessionReadsDoNotAlias(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	// Sparse session: normalization on read must not touch the stored record.
	require.NoError(t, store.SetSession(ctx, "u4", &Session{UserID: "u4"}))

	first, err := store.GetSession(ctx, "u4")
	require.NoError(t, err)
	require.NotNil(t, first.Economy)

	first.Economy.LikesUsedToday = 99
	first.Economy.PendingLikes = append(first.Economy.PendingLikes, "p1")
	first.ProfilePool = append(first.ProfilePool, "candidate")

	second, err := store.GetSession(ctx, "u4")
	require.NoError(t, err)
	assert.Equal(t, 0, second.Economy.LikesUsedToday)
	assert.Empty(t, second.Economy.PendingLikes)
	assert.Empty(t, second.ProfilePool)
}

func TestMemoryStore_ProfileReadsDoNotAlias(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	p := &Profile{UserID: "u5", Photos: []string{"a.jpg"}}
	require.NoError(t, store.SetProfile(ctx, "u5", p))

	p.Photos[0] = "mutated.jpg"

	got, err := store.GetProfile(ctx, "u5")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.jpg"}, got.Photos)

	got.Interests = append(got.Interests, "hiking")
	again, err := store.GetProfile(ctx, "u5")
	require.NoError(t, err)
	assert.Empty(t, again.Interests)
}

func TestNormalizeSession_BackfillsEconomy(t *testing.T) {
	s := NormalizeSession(&Session{UserID: "u3"})

	require.NotNil(t, s.Economy)
	assert.Equal(t, 0, s.Economy.LikesUsedToday)
	assert.NotNil(t, s.Economy.PendingLikes)
	assert.NotNil(t, s.Economy.Notifications)
	assert.Equal(t, 19, s.Economy.MatchDropHourLocal)
	assert.NotZero(t, s.Economy.LastResetAt)
}

func TestLikeLimit(t *testing.T) {
	assert.Equal(t, 20, LikeLimit(TierFree))
	assert.Equal(t, 60, LikeLimit(TierStandard))
	assert.Equal(t, 999999, LikeLimit(TierPremium))
	assert.Equal(t, 20, LikeLimit(SubscriptionTier("unknown")))
}
