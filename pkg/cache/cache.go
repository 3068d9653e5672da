// Package cache provides a Redis-backed byte and JSON cache.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// TTLs used by the HTTP surface.
const (
	// ShortTTL bounds airport lookups, whose display names follow the
	// overrides table.
	ShortTTL = 5 * time.Minute
	// MediumTTL bounds responses that only change on a redeploy.
	MediumTTL = 1 * time.Hour
)

// clearBatch is the SCAN count and the DEL batch size used by Clear.
const clearBatch = 100

// OverridesKey holds the shared overrides snapshot.
func OverridesKey() string {
	return "overrides:snapshot"
}

// AirportKey holds one airport lookup response.
func AirportKey(code string) string {
	return "airport:" + code
}

// Cache is a namespaced byte store.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Clear removes every key in the namespace and nothing else.
	Clear(ctx context.Context) error
}

// RedisCache stores keys as "<prefix>:<key>".
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache creates a cache over client. Distinct prefixes give
// independent namespaces on the same server.
func NewRedisCache(client *redis.Client, prefix string) *RedisCache {
	return &RedisCache{client: client, prefix: prefix}
}

func (c *RedisCache) key(k string) string {
	if c.prefix == "" {
		return k
	}
	return c.prefix + ":" + k
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.key(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Clear deletes the namespace in batches. An empty prefix would match the
// whole database and is refused.
func (c *RedisCache) Clear(ctx context.Context) error {
	if c.prefix == "" {
		return errors.New("redis clear: refusing to clear without a prefix")
	}
	iter := c.client.Scan(ctx, 0, c.key("*"), clearBatch).Iterator()
	batch := make([]string, 0, clearBatch)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := c.client.Del(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("redis clear %s: %w", c.prefix, err)
		}
		batch = batch[:0]
		return nil
	}
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == clearBatch {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis clear %s: %w", c.prefix, err)
	}
	return flush()
}

// CacheManager layers JSON encoding over a Cache.
type CacheManager struct {
	cache Cache
}

// NewCacheManager creates a new cache manager
func NewCacheManager(cache Cache) *CacheManager {
	return &CacheManager{cache: cache}
}

// GetJSON decodes the value at key into dest.
func (cm *CacheManager) GetJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := cm.cache.Get(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// SetJSON encodes value and stores it at key.
func (cm *CacheManager) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("json marshal error: %w", err)
	}
	return cm.cache.Set(ctx, key, data, ttl)
}

// GetOrSet fills dest from the cache, or from fn on a miss, storing fn's
// result. A failed cache write does not fail the call.
func (cm *CacheManager) GetOrSet(ctx context.Context, key string, ttl time.Duration, dest interface{}, fn func() (interface{}, error)) error {
	err := cm.GetJSON(ctx, key, dest)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		return fmt.Errorf("cache get error: %w", err)
	}

	result, err := fn()
	if err != nil {
		return err
	}
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("json marshal error: %w", err)
	}
	_ = cm.cache.Set(ctx, key, data, ttl)
	return json.Unmarshal(data, dest)
}

// Clear drops every entry in the manager's namespace.
func (cm *CacheManager) Clear(ctx context.Context) error {
	return cm.cache.Clear(ctx)
}
