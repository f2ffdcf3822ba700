package dating

import (
	"context"
	"strings"
	"sync"
)

// MemoryStore keeps everything in process maps. It is the degraded mode for
// demo deployments without redis: nothing survives a restart.
type MemoryStore struct {
	mu       sync.RWMutex
	users    map[string]*UserAuth
	profiles map[string]*Profile
	sessions map[string]*Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[string]*UserAuth),
		profiles: make(map[string]*Profile),
		sessions: make(map[string]*Session),
	}
}

func (s *MemoryStore) GetUserAuth(_ context.Context, userID string) (*UserAuth, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *MemoryStore) SetUserAuth(_ context.Context, user *UserAuth) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *MemoryStore) FindUserAuth(_ context.Context, email, phone string) (*UserAuth, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	email = strings.ToLower(email)
	for _, u := range s.users {
		if (email != "" && strings.ToLower(u.Email) == email) || (phone != "" && u.Phone == phone) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) GetProfile(_ context.Context, userID string) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneProfile(p), nil
}

func (s *MemoryStore) SetProfile(_ context.Context, userID string, p *Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[userID] = cloneProfile(p)
	return nil
}

func (s *MemoryStore) GetSession(_ context.Context, userID string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return NormalizeSession(cloneSession(sess)), nil
}

func (s *MemoryStore) SetSession(_ context.Context, userID string, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = cloneSession(sess)
	return nil
}

// Returned records must not alias the stored ones: callers mutate sessions
// (and NormalizeSession backfills economy fields) outside the store lock, so
// the copy has to cover the economy pointer and every slice.
func cloneSession(sess *Session) *Session {
	cp := *sess
	cp.ProfilePool = append([]string(nil), sess.ProfilePool...)
	cp.SwipeHistory = append([]string(nil), sess.SwipeHistory...)
	if sess.Economy != nil {
		eco := *sess.Economy
		eco.PendingLikes = append([]string(nil), sess.Economy.PendingLikes...)
		eco.Notifications = append([]string(nil), sess.Economy.Notifications...)
		cp.Economy = &eco
	}
	return &cp
}

func cloneProfile(p *Profile) *Profile {
	cp := *p
	cp.Photos = append([]string(nil), p.Photos...)
	cp.Interests = append([]string(nil), p.Interests...)
	return &cp
}
