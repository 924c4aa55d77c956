package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a TTL key-value store. Entries expire on their own; write paths
// do not invalidate, so readers must tolerate staleness up to the TTL.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
	Ping(ctx context.Context) error
}

// MaintenanceKey is set by operators to "1" to put the service into
// maintenance mode. Any other value leaves it off.
const MaintenanceKey = "maintenance_mode"

type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(redisAddr string) (*RedisCache, error) {
	const op = "cache.NewRedisCache"

	client := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &RedisCache{client: client}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	const op = "cache.RedisCache.Get"

	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%s: %w", op, err)
	}

	return val, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	const op = "cache.RedisCache.Set"

	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (c *RedisCache) Delete(ctx context.Context, keys ...string) error {
	const op = "cache.RedisCache.Delete"

	if len(keys) == 0 {
		return nil
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Incr bumps a fixed-window counter. The window starts when the counter is
// first created and is not sliding.
func (c *RedisCache) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	const op = "cache.RedisCache.Incr"

	n, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if n == 1 {
		if err := c.client.Expire(ctx, key, window).Err(); err != nil {
			return n, fmt.Errorf("%s: %w", op, err)
		}
	}

	return n, nil
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
