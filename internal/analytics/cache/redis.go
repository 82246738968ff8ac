package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"agora/internal/analytics/models"
)

const keyPrefix = "brief:"

// RedisCache stores brief reports in Redis with a short TTL. Rolling-window
// reports tolerate staleness up to the TTL; cache failures degrade to a
// recomputation, never to a failed request.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedis constructs a Redis-backed brief report cache.
func NewRedis(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisCache {
	return &RedisCache{client: client, ttl: ttl, logger: logger}
}

// Get returns the cached report for (region, city, period), or ok=false on
// miss or any cache error.
func (c *RedisCache) Get(ctx context.Context, region, city string, period models.Period) (*models.BriefReport, bool) {
	raw, err := c.client.Get(ctx, key(region, city, period)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.WarnContext(ctx, "brief cache read failed", "error", err)
		}
		return nil, false
	}
	var report models.BriefReport
	if err := json.Unmarshal(raw, &report); err != nil {
		c.logger.WarnContext(ctx, "brief cache entry corrupt", "error", err)
		return nil, false
	}
	return &report, true
}

// Set stores the report. Errors are logged and swallowed.
func (c *RedisCache) Set(ctx context.Context, region, city string, period models.Period, report *models.BriefReport) {
	raw, err := json.Marshal(report)
	if err != nil {
		c.logger.WarnContext(ctx, "brief cache marshal failed", "error", err)
		return
	}
	if err := c.client.Set(ctx, key(region, city, period), raw, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "brief cache write failed", "error", err)
	}
}

func key(region, city string, period models.Period) string {
	return fmt.Sprintf("%s%s:%s:%s", keyPrefix, region, city, period)
}
