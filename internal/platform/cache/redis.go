// File: internal/platform/cache/redis.go
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gigmarket_backend/internal/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrMiss is returned by Get when the key is not cached.
var ErrMiss = errors.New("cache: miss")

// NewRedisClient connects to REDIS_URL. An empty URL yields (nil, nil) and caching is disabled.
func NewRedisClient(cfg *config.Config, logger *zap.Logger) (*redis.Client, error) {
	if cfg.RedisURL == "" {
		logger.Info("REDIS_URL not set; gig list caching disabled")
		return nil, nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	logger.Info("Redis client connected", zap.String("addr", opts.Addr))
	return client, nil
}

// RedisCache is a namespaced byte cache with generation based invalidation:
// bumping the generation orphans every key written under the previous one.
type RedisCache struct {
	client    *redis.Client
	namespace string
	ttl       time.Duration
}

func NewRedisCache(client *redis.Client, namespace string, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, namespace: namespace, ttl: ttl}
}

func (c *RedisCache) generationKey() string {
	return c.namespace + ":gen"
}

func (c *RedisCache) key(ctx context.Context, name string) (string, error) {
	gen, err := c.client.Get(ctx, c.generationKey()).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("reading cache generation: %w", err)
	}
	return fmt.Sprintf("%s:%d:%s", c.namespace, gen, name), nil
}

func (c *RedisCache) Get(ctx context.Context, name string) ([]byte, error) {
	k, err := c.key(ctx, name)
	if err != nil {
		return nil, err
	}
	b, err := c.client.Get(ctx, k).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("reading cache key %s: %w", k, err)
	}
	return b, nil
}

func (c *RedisCache) Set(ctx context.Context, name string, value []byte) error {
	k, err := c.key(ctx, name)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, k, value, c.ttl).Err(); err != nil {
		return fmt.Errorf("writing cache key %s: %w", k, err)
	}
	return nil
}

// Invalidate drops every entry in the namespace.
func (c *RedisCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, c.generationKey()).Err(); err != nil {
		return fmt.Errorf("bumping cache generation: %w", err)
	}
	return nil
}
