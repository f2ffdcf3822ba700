package dating

import "time"

type SubscriptionTier string

const (
	TierFree     SubscriptionTier = "free"
	TierStandard SubscriptionTier = "standard"
	TierPremium  SubscriptionTier = "premium"
)

type UserAuth struct {
	ID             string    `json:"id"`
	Email          string    `json:"email,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	PasswordHash   string    `json:"-"`
	OnboardingSeen bool      `json:"onboarding_seen"`
	CreatedAt      time.Time `json:"created_at"`
}

type Profile struct {
	UserID      string   `json:"user_id"`
	DisplayName string   `json:"display_name"`
	Age         int      `json:"age"`
	Bio         string   `json:"bio"`
	Photos      []string `json:"photos"`
	Interests   []string `json:"interests"`
}

// Economy holds the per-user like budget and async match pipeline fields.
// The like-limit fields are surfaced but nothing consumes them yet.
type Economy struct {
	LikesUsedToday     int      `json:"likes_used_today"`
	LastResetAt        int64    `json:"last_reset_at"`
	PendingLikes       []string `json:"pending_likes"`
	Notifications      []string `json:"notifications"`
	LastMatchDropAt    int64    `json:"last_match_drop_at"`
	MatchDropHourLocal int      `json:"match_drop_hour_local"`
	AmbientLastTickAt  int64    `json:"ambient_last_tick_at"`
}

type Session struct {
	UserID           string           `json:"user_id"`
	CreatedAt        int64            `json:"created_at"`
	UpdatedAt        int64            `json:"updated_at"`
	SubscriptionTier SubscriptionTier `json:"subscription_tier"`
	ProfilePool      []string         `json:"profile_pool"`
	SwipeHistory     []string         `json:"swipe_history"`
	Economy          *Economy         `json:"economy"`
}

// NormalizeSession backfills economy defaults on sessions written before the
// economy fields existed.
func NormalizeSession(s *Session) *Session {
	if s == nil {
		return nil
	}
	if s.Economy == nil {
		s.Economy = &Economy{
			LastResetAt:        time.Now().UnixMilli(),
			MatchDropHourLocal: 19,
		}
	}
	if s.Economy.PendingLikes == nil {
		s.Economy.PendingLikes = []string{}
	}
	if s.Economy.Notifications == nil {
		s.Economy.Notifications = []string{}
	}
	if s.Economy.LastResetAt == 0 {
		s.Economy.LastResetAt = time.Now().UnixMilli()
	}
	if s.Economy.MatchDropHourLocal == 0 {
		s.Economy.MatchDropHourLocal = 19
	}
	return s
}

func NewSession(userID string) *Session {
	now := time.Now().UnixMilli()
	return &Session{
		UserID:           userID,
		CreatedAt:        now,
		UpdatedAt:        now,
		SubscriptionTier: TierFree,
		ProfilePool:      []string{},
		SwipeHistory:     []string{},
		Economy: &Economy{
			LastResetAt:        now,
			PendingLikes:       []string{},
			Notifications:      []string{},
			MatchDropHourLocal: 19,
		},
	}
}

// LikeLimit is the daily like budget per subscription tier.
func LikeLimit(tier SubscriptionTier) int {
	switch tier {
	case TierPremium:
		return 999999
	case TierStandard:
		return 60
	default:
		return 20
	}
}
