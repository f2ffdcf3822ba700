package dating

import (
	"context"
	"errors"
)

// ErrNotFound is returned by lookups that find nothing; store outages
// surface as their own errors and are never silently swallowed here.
var ErrNotFound = errors.New("dating: not found")

// Store is the persistence boundary for the dating app's auth, profile and
// session records. Two implementations exist: redis-backed (durable) and
// in-process (volatile). Which one runs is decided once at startup so the
// durability trade-off is visible to callers.
type Store interface {
	GetUserAuth(ctx context.Context, userID string) (*UserAuth, error)
	SetUserAuth(ctx context.Context, user *UserAuth) error
	FindUserAuth(ctx context.Context, email, phone string) (*UserAuth, error)

	GetProfile(ctx context.Context, userID string) (*Profile, error)
	SetProfile(ctx context.Context, userID string, p *Profile) error

	GetSession(ctx context.Context, userID string) (*Session, error)
	SetSession(ctx context.Context, userID string, s *Session) error
}

// EnsureSession returns the user's session, creating and persisting a fresh
// one when none exists. Loaded sessions are normalized before use.
func EnsureSession(ctx context.Context, store Store, userID string) (*Session, error) {
	s, err := store.GetSession(ctx, userID)
	if err == nil {
		return NormalizeSession(s), nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	fresh := NewSession(userID)
	if err := store.SetSession(ctx, userID, fresh); err != nil {
		return nil, err
	}
	return fresh, nil
}
