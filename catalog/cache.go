package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/mtzs0/kockabarlang-party-planner/timeslot"
	"go.uber.org/zap"
)

const cacheKeyPrefix = "catalog:weekday:"

// Source is anything that can list the bookable ranges of a weekday.
type Source interface {
	SlotsForWeekday(ctx context.Context, weekday string) ([]timeslot.Range, error)
}

// Cache is the subset of *redis.Client used by CachedCatalog.
type Cache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// CachedCatalog is a read-through cache in front of a Source. Cache errors are
// logged and the request falls through to the Source.
type CachedCatalog struct {
	cache  Cache
	source Source
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedCatalog(cache Cache, source Source, ttl time.Duration, logger *zap.Logger) *CachedCatalog {
	return &CachedCatalog{
		cache:  cache,
		source: source,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *CachedCatalog) SlotsForWeekday(ctx context.Context, weekday string) ([]timeslot.Range, error) {
	key := cacheKeyPrefix + weekday

	cached, err := c.cache.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var slots []timeslot.Range
		if err := json.Unmarshal(cached, &slots); err == nil {
			return slots, nil
		}
		c.logger.Warn("discarding corrupt catalog cache entry", zap.String("key", key))
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("catalog cache read failed", zap.String("key", key), zap.Error(err))
	}

	slots, err := c.source.SlotsForWeekday(ctx, weekday)
	if err != nil {
		return nil, err
	}

	// Empty days are not cached so a freshly configured weekday shows up immediately.
	if len(slots) == 0 {
		return slots, nil
	}

	payload, err := json.Marshal(slots)
	if err != nil {
		return slots, nil
	}
	if err := c.cache.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("catalog cache write failed", zap.String("key", key), zap.Error(err))
	}

	return slots, nil
}
