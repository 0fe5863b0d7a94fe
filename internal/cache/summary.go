package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/backoffice-service/internal/persistence"
	"github.com/spec-kit/backoffice-service/internal/reporting"
)

// SummaryCache stores the last computed license dashboard summary.
type SummaryCache interface {
	Get(ctx context.Context) (*reporting.LicenseSummary, bool, error)
	Set(ctx context.Context, summary reporting.LicenseSummary) error
	Invalidate(ctx context.Context) error
}

// RedisSummaryCache keeps the summary as a JSON blob with a TTL.
type RedisSummaryCache struct {
	redis *persistence.Redis
	ttl   time.Duration
}

// NewRedisSummaryCache builds the cache. A zero ttl disables caching.
func NewRedisSummaryCache(r *persistence.Redis, ttl time.Duration) *RedisSummaryCache {
	return &RedisSummaryCache{redis: r, ttl: ttl}
}

func (c *RedisSummaryCache) key() string {
	return c.redis.Key("summary", "licenses")
}

func (c *RedisSummaryCache) Get(ctx context.Context) (*reporting.LicenseSummary, bool, error) {
	if c.ttl <= 0 {
		return nil, false, nil
	}
	raw, err := c.redis.Client.Get(ctx, c.key()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var summary reporting.LicenseSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return nil, false, err
	}
	return &summary, true, nil
}

func (c *RedisSummaryCache) Set(ctx context.Context, summary reporting.LicenseSummary) error {
	if c.ttl <= 0 {
		return nil
	}
	raw, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return c.redis.Client.Set(ctx, c.key(), raw, c.ttl).Err()
}

func (c *RedisSummaryCache) Invalidate(ctx context.Context) error {
	return c.redis.Client.Del(ctx, c.key()).Err()
}

// NoopSummaryCache never stores anything.
type NoopSummaryCache struct{}

func (NoopSummaryCache) Get(context.Context) (*reporting.LicenseSummary, bool, error) {
	return nil, false, nil
}

func (NoopSummaryCache) Set(context.Context, reporting.LicenseSummary) error { return nil }

func (NoopSummaryCache) Invalidate(context.Context) error { return nil }
