package config

import (
	"context"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// ConnectRedis establishes connection to Redis.
// Redis is optional: a nil client and locker are returned when it is
// unconfigured or unreachable, and callers proceed without distributed locks.
func ConnectRedis(cfg RedisConfig) (*redis.Client, *redislock.Client) {
	logger := GetLogger()
	if cfg.Addr == "" {
		logger.Info("REDIS_ADDR not set, distributed locks disabled")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  10 * time.Second,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
		MaxRetries:   3,
	})

	// Test the connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Warn("Redis connection failed, distributed locks disabled")
		_ = client.Close()
		return nil, nil
	}

	logger.WithField("addr", cfg.Addr).Info("Connected to Redis")
	return client, redislock.New(client)
}
