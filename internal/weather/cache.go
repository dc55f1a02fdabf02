package weather

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/illegalcall/wardrobe/internal/models"
)

// CachedProvider serves repeated lookups for the same location from Redis.
// Only successful lookups are cached.
type CachedProvider struct {
	next   Provider
	redis  *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedProvider(next Provider, rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedProvider{next: next, redis: rdb, ttl: ttl, logger: logger}
}

func cacheKey(location string) string {
	return "weather:" + strings.ToLower(strings.TrimSpace(location))
}

func (c *CachedProvider) Current(ctx context.Context, location string) (models.WeatherContext, error) {
	key := cacheKey(location)

	if cached, err := c.redis.Get(ctx, key).Bytes(); err == nil {
		var w models.WeatherContext
		if err := json.Unmarshal(cached, &w); err == nil {
			return w, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		c.logger.Warn("Weather cache read failed", "key", key, "error", err)
	}

	w, err := c.next.Current(ctx, location)
	if err != nil {
		return w, err
	}

	if b, err := json.Marshal(w); err == nil {
		if err := c.redis.Set(ctx, key, b, c.ttl).Err(); err != nil {
			c.logger.Warn("Weather cache write failed", "key", key, "error", err)
		}
	}
	return w, nil
}
