package stagefeed

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Locker guards a reconcile tick so that only one replica ingests the feed
// per interval. Release is best-effort; the TTL bounds a lost lock.
type Locker interface {
	Acquire(ctx context.Context, ttl time.Duration) (bool, error)
	Release(ctx context.Context) error
}

// NoopLocker always grants the lock. Used in single-replica deployments.
type NoopLocker struct{}

func (NoopLocker) Acquire(context.Context, time.Duration) (bool, error) { return true, nil }
func (NoopLocker) Release(context.Context) error                        { return nil }

// RedisLocker implements Locker with a Redis SET NX key.
type RedisLocker struct {
	client *goredis.Client
	key    string
}

// NewRedisLocker creates a RedisLocker. prefix namespaces the lock key so
// multiple deployments can share one Redis.
func NewRedisLocker(client *goredis.Client, prefix string) *RedisLocker {
	return &RedisLocker{client: client, key: prefix + "reconcile:lock"}
}

func (l *RedisLocker) Acquire(ctx context.Context, ttl time.Duration) (bool, error) {
	return l.client.SetNX(ctx, l.key, "1", ttl).Result()
}

func (l *RedisLocker) Release(ctx context.Context) error {
	return l.client.Del(ctx, l.key).Err()
}
