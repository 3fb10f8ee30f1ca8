package dispatch

import (
	"context"
	"time"

	pkgredis "github.com/quoteverse/core/internal/pkg/redis"
)

// Lease is a held run lock. The engine refreshes it after every batch so
// a run longer than the TTL keeps its window exclusive.
type Lease interface {
	Refresh(ctx context.Context) error
	Release()
}

// Locker guards a production run against concurrent runs for the same window.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (lease Lease, acquired bool, err error)
}

// NopLocker always grants the lock.
type NopLocker struct{}

func (NopLocker) Acquire(context.Context, string, time.Duration) (Lease, bool, error) {
	return nopLease{}, true, nil
}

type nopLease struct{}

func (nopLease) Refresh(context.Context) error { return nil }
func (nopLease) Release()                      {}

// RedisLocker backs run locks with Redis.
type RedisLocker struct{ client *pkgredis.Client }

func NewRedisLocker(client *pkgredis.Client) *RedisLocker { return &RedisLocker{client: client} }

func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (Lease, bool, error) {
	lock, acquired, err := l.client.Acquire(ctx, key, ttl)
	if err != nil || !acquired {
		return nil, false, err
	}
	return lock, true, nil
}
