package listing

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is the TTL-bound redis cache in front of the listing query. There is
// no invalidation protocol: writes to jobs do not evict, entries simply
// expire, and callers tolerate the resulting eventual consistency.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCache creates a Cache from a redis URL.
func NewCache(redisURL string, ttl time.Duration) (*Cache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	return &Cache{rdb: redis.NewClient(opts), ttl: ttl}, nil
}

// NewCacheWithClient wraps an existing redis client (tests).
func NewCacheWithClient(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

// Get returns a cached page, reporting a miss on any error.
func (c *Cache) Get(ctx context.Context, key string) (*Page, bool) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var page Page
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, false
	}
	return &page, true
}

// Set stores a page under the cache TTL.
func (c *Cache) Set(ctx context.Context, key string, page *Page) error {
	raw, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("marshal listing page: %w", err)
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache listing page: %w", err)
	}
	return nil
}

// Close closes the Redis client connection.
func (c *Cache) Close() error {
	return c.rdb.Close()
}
