package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"github.com/camvault/dealer-ledger/internal/domain"
)

// RedisLocker hands out Redis-backed mutexes that expire after ttl
type RedisLocker struct {
	client *redislock.Client
	ttl    time.Duration
}

// NewRedisLocker creates a locker on top of client
func NewRedisLocker(client *redis.Client, ttl time.Duration) *RedisLocker {
	return &RedisLocker{
		client: redislock.New(client),
		ttl:    ttl,
	}
}

// Obtain takes the lock without waiting. A held lock yields domain.ErrConflict.
func (l *RedisLocker) Obtain(ctx context.Context, key string) (domain.Lease, error) {
	lock, err := l.client.Obtain(ctx, key, l.ttl, nil)
	if err != nil {
		if errors.Is(err, redislock.ErrNotObtained) {
			return nil, fmt.Errorf("%w: %s is held", domain.ErrConflict, key)
		}
		return nil, fmt.Errorf("obtain %s: %w", key, err)
	}

	return &redisLease{lock: lock, key: key, ttl: l.ttl, refreshedAt: time.Now()}, nil
}

// redisLease is a held lock. Refresh only reaches Redis once a third of the ttl has passed.
type redisLease struct {
	lock        *redislock.Lock
	key         string
	ttl         time.Duration
	refreshedAt time.Time
}

func (l *redisLease) Refresh(ctx context.Context) error {
	if time.Since(l.refreshedAt) < l.ttl/3 {
		return nil
	}

	if err := l.lock.Refresh(ctx, l.ttl, nil); err != nil {
		if errors.Is(err, redislock.ErrNotObtained) {
			return fmt.Errorf("%w: %s expired", domain.ErrConflict, l.key)
		}
		return fmt.Errorf("refresh %s: %w", l.key, err)
	}
	l.refreshedAt = time.Now()
	return nil
}

func (l *redisLease) Release(ctx context.Context) error {
	err := l.lock.Release(ctx)
	if err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
		return err
	}
	return nil
}
