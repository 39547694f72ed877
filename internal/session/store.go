package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Profile holds the user attributes mirrored alongside a session token.
type Profile struct {
	UserID   uuid.UUID `json:"user_id"`
	FullName string    `json:"full_name"`
	Email    string    `json:"email"`
	Gender   string    `json:"gender,omitempty"`
	Phone    string    `json:"phone,omitempty"`
}

// Store is the durable storage behind the session cache. Entries survive
// process restarts; the cache seeds itself from here on a miss.
type Store interface {
	Save(ctx context.Context, token string, profile Profile) error
	// Load returns (nil, nil) when the token is absent or the stored
	// entry cannot be decoded.
	Load(ctx context.Context, token string) (*Profile, error)
	Delete(ctx context.Context, token string) error
}

// RedisStore keeps sessions in Redis under "session:<token>" with a TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func sessionKey(token string) string {
	return "session:" + token
}

func (s *RedisStore) Save(ctx context.Context, token string, profile Profile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshal session profile: %w", err)
	}

	if err := s.client.Set(ctx, sessionKey(token), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, token string) (*Profile, error) {
	data, err := s.client.Get(ctx, sessionKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var profile Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		// Corrupt entry: treat as anonymous and drop it.
		_ = s.client.Del(ctx, sessionKey(token)).Err()
		return nil, nil
	}
	return &profile, nil
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
