package gig

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gigmarket_backend/internal/platform/cache"

	"go.uber.org/zap"
)

// ListCache holds recent list results. Refresh invalidates it.
type ListCache interface {
	Get(ctx context.Context, filter ListFilter) ([]Gig, bool)
	Set(ctx context.Context, filter ListFilter, gigs []Gig)
	Invalidate(ctx context.Context) error
}

type noopListCache struct{}

// NewNoopListCache is used when no Redis is configured.
func NewNoopListCache() ListCache { return noopListCache{} }

func (noopListCache) Get(context.Context, ListFilter) ([]Gig, bool) { return nil, false }
func (noopListCache) Set(context.Context, ListFilter, []Gig)        {}
func (noopListCache) Invalidate(context.Context) error              { return nil }

type redisListCache struct {
	store  *cache.RedisCache
	logger *zap.Logger
}

// NewRedisListCache caches JSON encoded list results in Redis. Cache errors degrade to misses.
func NewRedisListCache(store *cache.RedisCache, logger *zap.Logger) ListCache {
	return &redisListCache{store: store, logger: logger.Named("gig_list_cache")}
}

func listKey(f ListFilter) string {
	owner := f.OwnerID
	if owner == "" {
		owner = "*"
	}
	return fmt.Sprintf("owner=%s:limit=%d", owner, f.Limit)
}

func (c *redisListCache) Get(ctx context.Context, f ListFilter) ([]Gig, bool) {
	raw, err := c.store.Get(ctx, listKey(f))
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			c.logger.Warn("Gig list cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var gigs []Gig
	if err := json.Unmarshal(raw, &gigs); err != nil {
		c.logger.Warn("Discarding undecodable gig list cache entry", zap.Error(err))
		return nil, false
	}
	return gigs, true
}

func (c *redisListCache) Set(ctx context.Context, f ListFilter, gigs []Gig) {
	raw, err := json.Marshal(gigs)
	if err != nil {
		c.logger.Warn("Gig list cache encode failed", zap.Error(err))
		return
	}
	if err := c.store.Set(ctx, listKey(f), raw); err != nil {
		c.logger.Warn("Gig list cache write failed", zap.Error(err))
	}
}

func (c *redisListCache) Invalidate(ctx context.Context) error {
	return c.store.Invalidate(ctx)
}
