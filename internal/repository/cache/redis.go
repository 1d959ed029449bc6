package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/camvault/dealer-ledger/internal/domain"
)

// RedisCache caches per-dealer aggregates
type RedisCache struct {
	client         *redis.Client
	dealerStatsTTL time.Duration
}

// NewRedisCache creates a new Redis cache instance
func NewRedisCache(client *redis.Client, dealerStatsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:         client,
		dealerStatsTTL: dealerStatsTTL,
	}
}

func (c *RedisCache) dealerStatsKey(dealerID uuid.UUID) string {
	return fmt.Sprintf("dealer:%s:stats", dealerID.String())
}

// GetDealerStats retrieves cached dealer stats; a miss yields domain.ErrNotFound
func (c *RedisCache) GetDealerStats(ctx context.Context, dealerID uuid.UUID) (*domain.DealerStats, error) {
	val, err := c.client.Get(ctx, c.dealerStatsKey(dealerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	var stats domain.DealerStats
	if err := json.Unmarshal(val, &stats); err != nil {
		return nil, err
	}

	return &stats, nil
}

// SetDealerStats overwrites the cached stats of a dealer
func (c *RedisCache) SetDealerStats(ctx context.Context, stats *domain.DealerStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, c.dealerStatsKey(stats.DealerID), data, c.dealerStatsTTL).Err()
}

// FillDealerStats stores dealer stats only when no entry exists, so a reader holding
// stats computed before a commit can't overwrite what the committer wrote afterwards.
// It reports whether the entry was written.
func (c *RedisCache) FillDealerStats(ctx context.Context, stats *domain.DealerStats) (bool, error) {
	data, err := json.Marshal(stats)
	if err != nil {
		return false, err
	}

	return c.client.SetNX(ctx, c.dealerStatsKey(stats.DealerID), data, c.dealerStatsTTL).Result()
}

// InvalidateDealerStats removes cached stats of a dealer
func (c *RedisCache) InvalidateDealerStats(ctx context.Context, dealerID uuid.UUID) error {
	err := c.client.Del(ctx, c.dealerStatsKey(dealerID)).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}
