package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStore keeps refresh-token ids and order idempotency keys in redis.
type SessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func refreshKey(jti string) string           { return "refresh:" + jti }
func idemKey(userID, key string) string { return "idem:order:" + userID + ":" + key }

// SaveRefresh remembers a refresh token id for its subject until ttl passes.
func (s *SessionStore) SaveRefresh(ctx context.Context, jti, subject string, ttl time.Duration) error {
	return s.client.Set(ctx, refreshKey(jti), subject, ttl).Err()
}

// ConsumeRefresh deletes a refresh token id and returns the subject it belonged to.
// ErrNotFound means the token was already used, revoked or expired.
func (s *SessionStore) ConsumeRefresh(ctx context.Context, jti string) (string, error) {
	subject, err := s.client.GetDel(ctx, refreshKey(jti)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	return subject, err
}

// GetIdempotency returns the order id userID stored under key, or "" when there is none.
func (s *SessionStore) GetIdempotency(ctx context.Context, userID, key string) (string, error) {
	val, err := s.client.Get(ctx, idemKey(userID, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return val, err
}

func (s *SessionStore) SetIdempotency(ctx context.Context, userID, key, orderID string, ttl time.Duration) error {
	return s.client.Set(ctx, idemKey(userID, key), orderID, ttl).Err()
}
