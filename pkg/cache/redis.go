package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache is a Redis-backed cache for server deployments where
// multiple instances share rendered images.
type RedisCache struct {
	rdb *redis.Client
}

// NewRedisCache connects to Redis at addr and verifies the connection
// with a ping.
func NewRedisCache(ctx context.Context, addr string) (Cache, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, err
	}
	return &RedisCache{rdb: rdb}, nil
}

// Get retrieves a value from Redis. A missing key is a cache miss, not an
// error.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set stores a value. Redis handles expiration natively; a TTL of 0 keeps
// the entry until evicted.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, data, ttl).Err()
}

// Delete removes a value.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, key).Err()
}

// Close closes the underlying client.
func (c *RedisCache) Close() error {
	return c.rdb.Close()
}

// Ensure RedisCache implements Cache.
var _ Cache = (*RedisCache)(nil)
