package controllers

import (
	"context"
	"errors"
	"fmt"
	"time"

	awspkg "github.com/GuruprasadLokhande/Vastrashahi-Project/pkg/aws"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	ProductCachePrefix     = "product:detail:"
	ProductListCachePrefix = "products:v:"
	CacheVersionKey        = "products:version"
)

// CacheManager caches rendered catalog responses in redis. Every list key carries
// the current version, so one INCR invalidates all of them. A nil manager or client
// disables caching.
type CacheManager struct {
	redis   *redis.Client
	ttl     time.Duration
	metrics awspkg.MetricsRecorder
	logger  *zap.Logger
}

func NewCacheManager(client *redis.Client, metrics awspkg.MetricsRecorder, logger *zap.Logger) *CacheManager {
	return &CacheManager{redis: client, ttl: DefaultCacheTTL, metrics: metrics, logger: logger}
}

func (cm *CacheManager) enabled() bool {
	return cm != nil && cm.redis != nil
}

// ListKey builds the versioned key for a list response; ok is false when the version is unavailable.
func (cm *CacheManager) ListKey(ctx context.Context, scope, query string) (string, bool) {
	if !cm.enabled() {
		return "", false
	}
	version, err := cm.getCacheVersion(ctx)
	if err != nil {
		cm.logger.Warn("Cache version unavailable", zap.Error(err))
		return "", false
	}
	return fmt.Sprintf("%s%d:%s:%s", ProductListCachePrefix, version, scope, query), true
}

func DetailKey(productID string) string {
	return ProductCachePrefix + productID
}

// Get returns a cached body.
func (cm *CacheManager) Get(ctx context.Context, key string) ([]byte, bool) {
	if !cm.enabled() || key == "" {
		return nil, false
	}
	body, err := cm.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			cm.logger.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		}
		cm.record(awspkg.MetricCacheMisses)
		return nil, false
	}
	cm.record(awspkg.MetricCacheHits)
	return body, true
}

// SetAsync stores body under key off the request path.
func (cm *CacheManager) SetAsync(key string, body []byte) {
	if !cm.enabled() || key == "" {
		return
	}
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := cm.redis.Set(bgCtx, key, body, cm.ttl).Err(); err != nil {
			cm.logger.Warn("Failed to cache response", zap.String("key", key), zap.Error(err))
		}
	}()
}

// Invalidate drops every list entry by bumping the version.
func (cm *CacheManager) Invalidate(ctx context.Context) error {
	if !cm.enabled() {
		return nil
	}
	newVersion, err := cm.redis.Incr(ctx, CacheVersionKey).Result()
	if err != nil {
		return fmt.Errorf("failed to invalidate cache: %w", err)
	}
	cm.logger.Debug("Cache invalidated", zap.Int64("new_version", newVersion))
	return nil
}

// InvalidateProduct drops the list entries and the product's detail entry.
func (cm *CacheManager) InvalidateProduct(ctx context.Context, productID string) {
	if !cm.enabled() {
		return
	}
	if err := cm.Invalidate(ctx); err != nil {
		cm.logger.Error("Failed to invalidate cache", zap.Error(err), zap.String("product_id", productID))
	}
	if productID == "" {
		return
	}
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := cm.redis.Del(bgCtx, DetailKey(productID)).Err(); err != nil {
			cm.logger.Warn("Failed to delete product cache", zap.Error(err), zap.String("product_id", productID))
		}
	}()
}

func (cm *CacheManager) getCacheVersion(ctx context.Context) (int64, error) {
	ver, err := cm.redis.Get(ctx, CacheVersionKey).Int64()
	if err == nil && ver > 0 {
		return ver, nil
	}
	if errors.Is(err, redis.Nil) {
		if err := cm.redis.SetNX(ctx, CacheVersionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return cm.redis.Get(ctx, CacheVersionKey).Int64()
	}
	if err == nil {
		err = fmt.Errorf("invalid cache version %d", ver)
	}
	return 0, err
}

func (cm *CacheManager) record(metric string) {
	awspkg.RecordCountAsync(cm.metrics, metric, map[string]string{"Cache": "products"}, cm.logger)
}
