// Package lock provides the Redis-backed batch locker used when several
// worker or server instances share one database.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	corelock "costbook/internal/core/lock"
)

// Redis acquires batch locks with redislock. Locks expire after ttl so a crashed
// runner cannot hold an organization forever.
type Redis struct {
	client *redislock.Client
	ttl    time.Duration
}

// NewRedis creates a locker on an existing redis client.
func NewRedis(rdb redis.UniversalClient, ttl time.Duration) *Redis {
	return &Redis{client: redislock.New(rdb), ttl: ttl}
}

var _ corelock.Locker = (*Redis)(nil)

// Acquire implements lock.Locker. An already-held key fails without retrying.
func (r *Redis) Acquire(ctx context.Context, key string) (corelock.Release, error) {
	l, err := r.client.Obtain(ctx, key, r.ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, corelock.NewHeldError(key)
	}
	if err != nil {
		return nil, fmt.Errorf("obtain lock %s: %w", key, err)
	}

	return func(ctx context.Context) error {
		if err := l.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			return fmt.Errorf("release lock %s: %w", key, err)
		}
		return nil
	}, nil
}

// Connect opens a redis client and verifies it with PING.
func Connect(ctx context.Context, addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
		PoolSize: 20,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return rdb, nil
}
