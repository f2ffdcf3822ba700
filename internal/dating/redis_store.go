package dating

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const authIndexKey = "aidating:index:auth"

func keyAuth(userID string) string {
	return "aidating:user:auth:" + userID
}

func keyProfile(userID string) string {
	return "aidating:user:profile:" + userID
}

func keySession(userID string) string {
	return "aidating:session:" + userID
}

// RedisStore persists dating records as JSON values. The email/phone lookup
// goes through a redis hash so index updates are single commands instead of
// read-modify-write of one big map.
type RedisStore struct {
	rdb *goredis.Client
}

// NewRedisStore connects and pings; a failed ping is returned to the caller
// so composition can fall back to the in-memory store.
func NewRedisStore(addr string) (*RedisStore, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisStore{rdb: rdb}, nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

func (s *RedisStore) getJSON(ctx context.Context, key string, out any) error {
	raw, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return ErrNotFound
		}
		return fmt.Errorf("redis get %s: %w", key, err)
	}
	return json.Unmarshal([]byte(raw), out)
}

func (s *RedisStore) setJSON(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, key, raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) GetUserAuth(ctx context.Context, userID string) (*UserAuth, error) {
	var u UserAuth
	if err := s.getJSON(ctx, keyAuth(userID), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *RedisStore) SetUserAuth(ctx context.Context, user *UserAuth) error {
	if err := s.setJSON(ctx, keyAuth(user.ID), user); err != nil {
		return err
	}

	fields := map[string]any{}
	if user.Email != "" {
		fields["email:"+strings.ToLower(user.Email)] = user.ID
	}
	if user.Phone != "" {
		fields["phone:"+user.Phone] = user.ID
	}
	if len(fields) == 0 {
		return nil
	}
	if err := s.rdb.HSet(ctx, authIndexKey, fields).Err(); err != nil {
		return fmt.Errorf("redis index update: %w", err)
	}
	return nil
}

func (s *RedisStore) FindUserAuth(ctx context.Context, email, phone string) (*UserAuth, error) {
	var field string
	switch {
	case email != "":
		field = "email:" + strings.ToLower(email)
	case phone != "":
		field = "phone:" + phone
	default:
		return nil, ErrNotFound
	}

	userID, err := s.rdb.HGet(ctx, authIndexKey, field).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("redis index lookup: %w", err)
	}

	return s.GetUserAuth(ctx, userID)
}

func (s *RedisStore) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	var p Profile
	if err := s.getJSON(ctx, keyProfile(userID), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *RedisStore) SetProfile(ctx context.Context, userID string, p *Profile) error {
	return s.setJSON(ctx, keyProfile(userID), p)
}

func (s *RedisStore) GetSession(ctx context.Context, userID string) (*Session, error) {
	var sess Session
	if err := s.getJSON(ctx, keySession(userID), &sess); err != nil {
		return nil, err
	}
	return NormalizeSession(&sess), nil
}

func (s *RedisStore) SetSession(ctx context.Context, userID string, sess *Session) error {
	return s.setJSON(ctx, keySession(userID), sess)
}
