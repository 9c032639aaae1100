package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"wayfare/pkg/logger"
	"wayfare/pkg/model"

	"github.com/redis/go-redis/v9"
)

const statsKeyPrefix = "reviews:stats:"

// StatsCache keeps recomputed review stats in Redis so listing a popular
// package does not re-aggregate on every request. A nil Redis client
// disables caching entirely; every method degrades to a miss.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

func NewStatsCache(client *redis.Client, ttl time.Duration, log *logger.Logger) *StatsCache {
	return &StatsCache{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

// Get returns the cached stats for a package, or (nil, false) on miss
func (c *StatsCache) Get(ctx context.Context, packageID string) (*model.ReviewStats, bool) {
	if c.client == nil {
		return nil, false
	}

	raw, err := c.client.Get(ctx, statsKeyPrefix+packageID).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("Review stats cache read failed", "package_id", packageID, "error", err)
		}
		return nil, false
	}

	var stats model.ReviewStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		c.log.Warn("Corrupt review stats cache entry, dropping", "package_id", packageID, "error", err)
		c.Invalidate(ctx, packageID)
		return nil, false
	}

	return &stats, true
}

func (c *StatsCache) Set(ctx context.Context, packageID string, stats *model.ReviewStats) {
	if c.client == nil {
		return
	}

	raw, err := json.Marshal(stats)
	if err != nil {
		c.log.Warn("Failed to encode review stats for cache", "package_id", packageID, "error", err)
		return
	}

	if err := c.client.Set(ctx, statsKeyPrefix+packageID, raw, c.ttl).Err(); err != nil {
		c.log.Warn("Review stats cache write failed", "package_id", packageID, "error", err)
	}
}

// Invalidate drops the cached stats after a new review lands
func (c *StatsCache) Invalidate(ctx context.Context, packageID string) {
	if c.client == nil {
		return
	}

	if err := c.client.Del(ctx, statsKeyPrefix+packageID).Err(); err != nil {
		c.log.Warn("Review stats cache invalidation failed", "package_id", packageID, "error", err)
	}
}
