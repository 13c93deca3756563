package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// DefaultKeyPrefix namespaces slug entries.
const DefaultKeyPrefix = "marina:tenant-slug:"

// Noop is a slug cache that never holds anything.
type Noop struct{}

// Get always misses.
func (Noop) Get(context.Context, string) (int64, bool, error) { return 0, false, nil }

// Set performs no action.
func (Noop) Set(context.Context, string, int64) error { return nil }

// RedisSlugCache stores slug to tenant id mappings in Redis.
type RedisSlugCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisSlugCache constructs a RedisSlugCache. A zero ttl keeps entries
// forever.
func NewRedisSlugCache(client *redis.Client, ttl time.Duration) *RedisSlugCache {
	return &RedisSlugCache{client: client, prefix: DefaultKeyPrefix, ttl: ttl}
}

// NewRedisClient parses a redis:// URL and connects.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// Get returns the cached id of slug.
func (c *RedisSlugCache) Get(ctx context.Context, slug string) (int64, bool, error) {
	val, err := c.client.Get(ctx, c.prefix+slug).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, err
	}
	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		// Corrupt entry: drop it and miss.
		_ = c.client.Del(ctx, c.prefix+slug).Err()
		return 0, false, nil
	}
	return id, true, nil
}

// Set caches the id of slug.
func (c *RedisSlugCache) Set(ctx context.Context, slug string, id int64) error {
	return c.client.Set(ctx, c.prefix+slug, strconv.FormatInt(id, 10), c.ttl).Err()
}
