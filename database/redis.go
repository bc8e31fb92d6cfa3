package database

import (
	"context"
	"time"

	redisv8 "github.com/go-redis/redis/v8"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewCacheClient builds the go-redis v8 client behind the product cache.
// An unparsable URL falls back to localhost; a failed ping only warns since the cache is optional.
func NewCacheClient(redisURL string) *redisv8.Client {
	opts, err := redisv8.ParseURL(redisURL)
	if err != nil {
		zap.L().Warn("Failed to parse REDIS_URL, falling back to default", zap.Error(err))
		opts = &redisv8.Options{Addr: "localhost:6379", DB: 0}
	}
	client := redisv8.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		zap.L().Warn("Cache redis not reachable, continuing without cache", zap.Error(err))
	}
	return client
}

// NewSessionClient builds the go-redis v9 client for refresh tokens and idempotency keys.
func NewSessionClient(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		zap.L().Warn("Session redis not reachable", zap.Error(err))
	}
	return client, nil
}
