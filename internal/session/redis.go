package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisTimeout bounds every Redis round-trip made by RedisStorage.
const DefaultRedisTimeout = 2 * time.Second

// RedisStorage persists values in a Redis hash so several processes or hosts can share one
// session.
type RedisStorage struct {
	client  *redis.Client
	key     string
	timeout time.Duration
}

// NewRedisStorage stores values in the hash named key.
func NewRedisStorage(client *redis.Client, key string) *RedisStorage {
	return &RedisStorage{client: client, key: key, timeout: DefaultRedisTimeout}
}

// OpenRedisStorage parses redisURL, verifies connectivity and returns a RedisStorage.
func OpenRedisStorage(ctx context.Context, redisURL, key string) (*RedisStorage, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL(%q): %w", redisURL, err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return NewRedisStorage(client, key), nil
}

// Close releases the underlying client.
func (r *RedisStorage) Close() error {
	return r.client.Close()
}

// Get implements Storage.
func (r *RedisStorage) Get(field string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	v, err := r.client.HGet(ctx, r.key, field).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis HGET %s %s: %w", r.key, field, err)
	}
	return v, true, nil
}

// Set implements Storage.
func (r *RedisStorage) Set(values map[string]string) error {
	if len(values) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := r.client.HSet(ctx, r.key, values).Err(); err != nil {
		return fmt.Errorf("redis HSET %s: %w", r.key, err)
	}
	return nil
}

// Delete implements Storage.
func (r *RedisStorage) Delete(fields ...string) error {
	if len(fields) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := r.client.HDel(ctx, r.key, fields...).Err(); err != nil {
		return fmt.Errorf("redis HDEL %s: %w", r.key, err)
	}
	return nil
}
