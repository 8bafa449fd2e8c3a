package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

// Cache is a thin read-through helper over Redis. A Cache with no client is
// disabled: reads miss and writes are dropped.
type Cache struct {
	client *redis.Client
}

// NewCache wraps client. A nil client yields a disabled cache.
func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Del(ctx, key).Err()
}

func (c *Cache) DeleteAll(ctx context.Context, pattern string) error {
	if !c.Enabled() {
		return nil
	}
	// Use SCAN for better efficiency on large datasets
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (c *Cache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Set(ctx, key, value, expiration).Err()
}

// Get returns "" with a nil error when the key does not exist.
func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	if !c.Enabled() {
		return "", nil
	}
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

func (c *Cache) DeleteBatch(ctx context.Context, keys ...string) error {
	if !c.Enabled() || len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// SetJSON stores value encoded as JSON.
func (c *Cache) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "failed to encode cache entry %s", key)
	}
	return c.Set(ctx, key, data, expiration)
}

// GetJSON decodes the entry at key into dest. It reports false on a miss.
func (c *Cache) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	val, err := c.Get(ctx, key)
	if err != nil || val == "" {
		return false, err
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, errors.Wrapf(err, "failed to decode cache entry %s", key)
	}
	return true, nil
}
