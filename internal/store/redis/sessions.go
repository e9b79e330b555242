package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/kinsu128-art/it-hub/internal/domain"
)

// Session is the server-side state behind one login cookie.
type Session struct {
	ID        string          `json:"id"`
	UserID    int64           `json:"user_id"`
	Username  string          `json:"username"`
	Role      domain.UserRole `json:"role"`
	CreatedAt time.Time       `json:"created_at"`
}

// Sessions stores login sessions in Redis, keyed by an opaque random ID.
// Expiry is enforced by the key TTL.
type Sessions struct {
	client *redis.Client
	ttl    time.Duration
}

func New(ctx context.Context, addr, password string, db int, ttl time.Duration) (*Sessions, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis.New: ping: %w", err)
	}

	return &Sessions{client: client, ttl: ttl}, nil
}

func (s *Sessions) Close() error {
	if err := s.client.Close(); err != nil {
		return fmt.Errorf("redis.Sessions.Close: %w", err)
	}
	return nil
}

func (s *Sessions) TTL() time.Duration { return s.ttl }

func sessionKey(id string) string {
	return "session:" + id
}

// Create mints a new session for the user and persists it with the
// configured TTL.
func (s *Sessions) Create(ctx context.Context, u *domain.User) (*Session, error) {
	sess := &Session{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		Username:  u.Username,
		Role:      u.Role,
		CreatedAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("redis.Sessions.Create: marshal: %w", err)
	}

	if err := s.client.Set(ctx, sessionKey(sess.ID), payload, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("redis.Sessions.Create: %w", err)
	}

	return sess, nil
}

// Get returns the session for id, sliding its expiry forward. A missing or
// expired session reports domain.ErrUnauthorized.
func (s *Sessions) Get(ctx context.Context, id string) (*Session, error) {
	payload, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("redis.Sessions.Get: %w", domain.ErrUnauthorized)
	}
	if err != nil {
		return nil, fmt.Errorf("redis.Sessions.Get: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(payload, &sess); err != nil {
		return nil, fmt.Errorf("redis.Sessions.Get: unmarshal: %w", err)
	}

	// Best effort. The session stays valid until its current TTL runs out
	// even if the refresh fails.
	_ = s.client.Expire(ctx, sessionKey(id), s.ttl).Err()

	return &sess, nil
}

// Delete removes the session. Deleting an unknown ID is not an error.
func (s *Sessions) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("redis.Sessions.Delete: %w", err)
	}
	return nil
}
