// Package lock provides short-lived exclusive keys used to keep scheduled
// report generation to a single replica.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host      string
	Port      int
	Password  string
	DB        int
	KeyPrefix string
}

// RedisLocker obtains locks through bsm/redislock
type RedisLocker struct {
	client    *redis.Client
	locker    *redislock.Client
	keyPrefix string
}

// NewRedisLocker connects to Redis and returns a locker
func NewRedisLocker(cfg RedisConfig) (*RedisLocker, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisLockerWithClient(client, cfg.KeyPrefix), nil
}

// NewRedisLockerWithClient creates a locker over an existing client
func NewRedisLockerWithClient(client *redis.Client, keyPrefix string) *RedisLocker {
	if keyPrefix == "" {
		keyPrefix = "dealership:lock:"
	}
	return &RedisLocker{
		client:    client,
		locker:    redislock.New(client),
		keyPrefix: keyPrefix,
	}
}

// TryLock obtains key for ttl without retrying. It returns false when the key is held.
func (l *RedisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	_, err := l.locker.Obtain(ctx, l.keyPrefix+key, ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("obtain lock %s: %w", key, err)
	}
	return true, nil
}

// Close closes the Redis client
func (l *RedisLocker) Close() error {
	return l.client.Close()
}
