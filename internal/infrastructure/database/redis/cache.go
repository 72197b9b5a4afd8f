package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/turtacn/SeaGuard-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SeaGuard-Intelligence/pkg/errors"
)

// ErrCacheMiss is returned by Get when the key is absent or null-cached.
var ErrCacheMiss = errors.New(errors.CodeCacheError, "cache miss")

// nullMarker is stored for keys whose loader returned no value, so repeated
// misses do not hammer the database.
const nullMarker = "__null__"

// Cache is the typed caching facade over the Redis client. Values are
// serialized with the configured Serializer (JSON by default).
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)

	// GetOrSet returns the cached value for key, or runs loader, caches the
	// result, and returns it. Concurrent misses for the same key share one
	// loader call. A loader returning (nil, nil) is null-cached briefly.
	GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, loader func(ctx context.Context) (interface{}, error)) error

	// MGet fetches several keys in one round trip. The result maps the bare
	// key (without prefix) to its raw serialized payload. Absent and
	// null-cached keys are omitted.
	MGet(ctx context.Context, keys ...string) (map[string][]byte, error)

	Increment(ctx context.Context, key string, delta int64) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	DeleteByPrefix(ctx context.Context, prefix string) (int64, error)
}

// Serializer converts values to and from their cached representation.
type Serializer interface {
	Marshal(v interface{}) ([]byte, error)
	Unmarshal(data []byte, dest interface{}) error
}

type jsonSerializer struct{}

func (jsonSerializer) Marshal(v interface{}) ([]byte, error) { return json.Marshal(v) }
func (jsonSerializer) Unmarshal(data []byte, dest interface{}) error {
	return json.Unmarshal(data, dest)
}

// CacheOption customizes a Cache.
type CacheOption func(*redisCache)

// WithPrefix overrides the key namespace prefix.
func WithPrefix(prefix string) CacheOption {
	return func(c *redisCache) { c.prefix = prefix }
}

// WithDefaultTTL sets the TTL used when Set or GetOrSet is called with ttl 0.
func WithDefaultTTL(ttl time.Duration) CacheOption {
	return func(c *redisCache) { c.defaultTTL = ttl }
}

// WithSerializer replaces the JSON serializer.
func WithSerializer(s Serializer) CacheOption {
	return func(c *redisCache) { c.serializer = s }
}

// WithNullCacheTTL sets how long "no such value" results are remembered.
func WithNullCacheTTL(ttl time.Duration) CacheOption {
	return func(c *redisCache) { c.nullCacheTTL = ttl }
}

// WithTTLJitter toggles the ±10% TTL spread that staggers mass expiry.
// Disabled in tests that assert exact TTLs.
func WithTTLJitter(enabled bool) CacheOption {
	return func(c *redisCache) { c.jitter = enabled }
}

type redisCache struct {
	client       *Client
	logger       logging.Logger
	prefix       string
	defaultTTL   time.Duration
	nullCacheTTL time.Duration
	serializer   Serializer
	jitter       bool
	group        singleflight.Group
}

// NewRedisCache builds a Cache on top of client. Keys live under the
// "seaguard:" namespace unless WithPrefix changes it.
func NewRedisCache(client *Client, log logging.Logger, opts ...CacheOption) Cache {
	c := &redisCache{
		client:       client,
		logger:       log,
		prefix:       "seaguard:",
		defaultTTL:   15 * time.Minute,
		nullCacheTTL: 30 * time.Second,
		serializer:   jsonSerializer{},
		jitter:       true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *redisCache) fullKey(key string) string {
	return c.prefix + key
}

// effectiveTTL resolves the default and applies jitter so entries written in
// one burst do not all expire in the same instant.
func (c *redisCache) effectiveTTL(ttl time.Duration) time.Duration {
	if ttl == 0 {
		ttl = c.defaultTTL
	}
	if ttl <= 0 || !c.jitter {
		return ttl
	}
	spread := int64(float64(ttl) * 0.1)
	if spread == 0 {
		return ttl
	}
	return ttl + time.Duration(rand.Int63n(2*spread)-spread)
}

func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Get(ctx, c.fullKey(key)).Bytes()
	if err == redis.Nil {
		return ErrCacheMiss
	}
	if err != nil {
		return errors.Wrap(err, errors.CodeCacheError, "cache get failed")
	}
	if string(data) == nullMarker {
		return ErrCacheMiss
	}
	if err := c.serializer.Unmarshal(data, dest); err != nil {
		return errors.Wrap(err, errors.CodeSerialization, "cache value decode failed")
	}
	return nil
}

func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := c.serializer.Marshal(value)
	if err != nil {
		return errors.Wrap(err, errors.CodeSerialization, "cache value encode failed")
	}
	if err := c.client.Set(ctx, c.fullKey(key), data, c.effectiveTTL(ttl)).Err(); err != nil {
		return errors.Wrap(err, errors.CodeCacheError, "cache set failed")
	}
	return nil
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.fullKey(k)
	}
	if err := c.client.Del(ctx, full...).Err(); err != nil {
		return errors.Wrap(err, errors.CodeCacheError, "cache delete failed")
	}
	return nil
}

func (c *redisCache) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.client.Exists(ctx, c.fullKey(key)).Result()
	if err != nil {
		return false, errors.Wrap(err, errors.CodeCacheError, "cache exists failed")
	}
	return n > 0, nil
}

func (c *redisCache) GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, loader func(ctx context.Context) (interface{}, error)) error {
	err := c.Get(ctx, key, dest)
	if err == nil {
		return nil
	}
	if err != ErrCacheMiss {
		return err
	}

	data, err, _ := c.group.Do(c.fullKey(key), func() (interface{}, error) {
		value, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		if value == nil {
			if err := c.client.Set(ctx, c.fullKey(key), nullMarker, c.nullCacheTTL).Err(); err != nil {
				c.logger.Warn("Failed to null-cache key", logging.String("key", key), logging.Err(err))
			}
			return nil, ErrCacheMiss
		}
		encoded, err := c.serializer.Marshal(value)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeSerialization, "cache value encode failed")
		}
		if err := c.client.Set(ctx, c.fullKey(key), encoded, c.effectiveTTL(ttl)).Err(); err != nil {
			c.logger.Warn("Failed to populate cache", logging.String("key", key), logging.Err(err))
		}
		return encoded, nil
	})
	if err != nil {
		return err
	}
	return c.serializer.Unmarshal(data.([]byte), dest)
}

func (c *redisCache) MGet(ctx context.Context, keys ...string) (map[string][]byte, error) {
	if len(keys) == 0 {
		return map[string][]byte{}, nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.fullKey(k)
	}
	values, err := c.client.MGet(ctx, full...).Result()
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeCacheError, "cache mget failed")
	}
	out := make(map[string][]byte, len(keys))
	for i, v := range values {
		s, ok := v.(string)
		if !ok || s == nullMarker {
			continue
		}
		out[keys[i]] = []byte(s)
	}
	return out, nil
}

func (c *redisCache) Increment(ctx context.Context, key string, delta int64) (int64, error) {
	n, err := c.client.IncrBy(ctx, c.fullKey(key), delta).Result()
	if err != nil {
		return 0, errors.Wrap(err, errors.CodeCacheError, "cache increment failed")
	}
	return n, nil
}

func (c *redisCache) Expire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := c.client.Expire(ctx, c.fullKey(key), ttl).Result()
	if err != nil {
		return false, errors.Wrap(err, errors.CodeCacheError, "cache expire failed")
	}
	return ok, nil
}

// DeleteByPrefix walks the keyspace with SCAN and removes matching keys in
// batches. The prefix is relative to the cache namespace.
func (c *redisCache) DeleteByPrefix(ctx context.Context, prefix string) (int64, error) {
	var (
		cursor  uint64
		removed int64
	)
	pattern := c.fullKey(prefix) + "*"
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return removed, errors.Wrap(err, errors.CodeCacheError, "cache scan failed")
		}
		if len(keys) > 0 {
			n, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				return removed, errors.Wrap(err, errors.CodeCacheError, "cache delete failed")
			}
			removed += n
		}
		cursor = next
		if cursor == 0 {
			return removed, nil
		}
	}
}
