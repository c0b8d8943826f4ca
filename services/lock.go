package services

import (
	"context"
	"time"

	"github.com/bsm/redislock"
)

// Locker hands out short-lived distributed locks
type Locker interface {
	Obtain(ctx context.Context, key string, ttl time.Duration) (release func(), err error)
}

// RedisLocker implements Locker with redislock
type RedisLocker struct {
	client *redislock.Client
}

// NewLocker returns nil when Redis is not available
func NewLocker(client *redislock.Client) Locker {
	if client == nil {
		return nil
	}
	return &RedisLocker{client: client}
}

func (l *RedisLocker) Obtain(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	lock, err := l.client.Obtain(ctx, key, ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), 20),
	})
	if err != nil {
		return nil, err
	}
	return func() {
		_ = lock.Release(context.Background())
	}, nil
}
