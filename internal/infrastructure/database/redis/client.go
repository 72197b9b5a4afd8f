// Package redis wraps the go-redis client with the connection lifecycle,
// caching, and coordination primitives used across the platform: the warning
// cache, notification suppression, and distributed job locks.
package redis

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/SeaGuard-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SeaGuard-Intelligence/pkg/errors"
)

var (
	// ErrClientClosed is returned by every command issued after Close.
	ErrClientClosed = errors.New(errors.CodeCacheError, "redis client closed")

	// ErrConnectionFailed is returned when the initial ping fails.
	ErrConnectionFailed = errors.New(errors.CodeCacheError, "redis connection failed")
)

// Config holds connection parameters for a standalone Redis instance.
type Config struct {
	Addr         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func (c *Config) applyDefaults() {
	if c.PoolSize == 0 {
		c.PoolSize = 10 * runtime.GOMAXPROCS(0)
	}
	if c.MinIdleConns == 0 {
		c.MinIdleConns = 2
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = 5 * time.Second
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 3 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 3 * time.Second
	}
}

// Client wraps a go-redis universal client with a closed guard so commands
// issued after shutdown fail fast instead of hitting a drained pool.
type Client struct {
	rdb    redis.UniversalClient
	config *Config
	logger logging.Logger

	mu     sync.RWMutex
	closed bool
}

// NewClient connects to Redis and verifies the connection with a ping.
func NewClient(cfg *Config, log logging.Logger) (*Client, error) {
	if cfg == nil || cfg.Addr == "" {
		return nil, errors.New(errors.CodeConfigInvalid, "redis address is required")
	}
	cfg.applyDefaults()

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, errors.Wrap(err, errors.CodeCacheError, "redis connection failed")
	}

	log.Info("Connected to Redis",
		logging.String("addr", cfg.Addr),
		logging.Int("db", cfg.DB),
		logging.Int("pool_size", cfg.PoolSize),
	)

	return &Client{rdb: rdb, config: cfg, logger: log}, nil
}

// Ping checks connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if c.isClosed() {
		return ErrClientClosed
	}
	return c.rdb.Ping(ctx).Err()
}

// Close shuts down the connection pool. Safe to call more than once.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.rdb.Close()
}

// GetUnderlyingClient exposes the raw go-redis client for script execution
// and pipelines. Callers must not close it.
func (c *Client) GetUnderlyingClient() redis.UniversalClient {
	return c.rdb
}

// PoolStats reports connection pool counters.
func (c *Client) PoolStats() *redis.PoolStats {
	return c.rdb.PoolStats()
}

// Pipeline returns a new command pipeline.
func (c *Client) Pipeline() redis.Pipeliner {
	return c.rdb.Pipeline()
}

func (c *Client) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// ─────────────────────────────────────────────────────────────────────────────
// Delegated commands. Each checks the closed guard first so callers get a
// stable sentinel instead of a pool error.
// ─────────────────────────────────────────────────────────────────────────────

func (c *Client) Get(ctx context.Context, key string) *redis.StringCmd {
	if c.isClosed() {
		return errStringCmd(ctx)
	}
	return c.rdb.Get(ctx, key)
}

func (c *Client) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) *redis.StatusCmd {
	if c.isClosed() {
		return errStatusCmd(ctx)
	}
	return c.rdb.Set(ctx, key, value, ttl)
}

func (c *Client) SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) *redis.BoolCmd {
	if c.isClosed() {
		return errBoolCmd(ctx)
	}
	return c.rdb.SetNX(ctx, key, value, ttl)
}

func (c *Client) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	if c.isClosed() {
		return errIntCmd(ctx)
	}
	return c.rdb.Del(ctx, keys...)
}

func (c *Client) Exists(ctx context.Context, keys ...string) *redis.IntCmd {
	if c.isClosed() {
		return errIntCmd(ctx)
	}
	return c.rdb.Exists(ctx, keys...)
}

func (c *Client) Expire(ctx context.Context, key string, ttl time.Duration) *redis.BoolCmd {
	if c.isClosed() {
		return errBoolCmd(ctx)
	}
	return c.rdb.Expire(ctx, key, ttl)
}

func (c *Client) TTL(ctx context.Context, key string) *redis.DurationCmd {
	if c.isClosed() {
		return errDurationCmd(ctx)
	}
	return c.rdb.TTL(ctx, key)
}

func (c *Client) Incr(ctx context.Context, key string) *redis.IntCmd {
	if c.isClosed() {
		return errIntCmd(ctx)
	}
	return c.rdb.Incr(ctx, key)
}

func (c *Client) IncrBy(ctx context.Context, key string, value int64) *redis.IntCmd {
	if c.isClosed() {
		return errIntCmd(ctx)
	}
	return c.rdb.IncrBy(ctx, key, value)
}

func (c *Client) MGet(ctx context.Context, keys ...string) *redis.SliceCmd {
	if c.isClosed() {
		return errSliceCmd(ctx)
	}
	return c.rdb.MGet(ctx, keys...)
}

func (c *Client) Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd {
	if c.isClosed() {
		return errScanCmd(ctx)
	}
	return c.rdb.Scan(ctx, cursor, match, count)
}

func errStringCmd(ctx context.Context) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx)
	cmd.SetErr(ErrClientClosed)
	return cmd
}

func errStatusCmd(ctx context.Context) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	cmd.SetErr(ErrClientClosed)
	return cmd
}

func errIntCmd(ctx context.Context) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	cmd.SetErr(ErrClientClosed)
	return cmd
}

func errBoolCmd(ctx context.Context) *redis.BoolCmd {
	cmd := redis.NewBoolCmd(ctx)
	cmd.SetErr(ErrClientClosed)
	return cmd
}

func errDurationCmd(ctx context.Context) *redis.DurationCmd {
	cmd := redis.NewDurationCmd(ctx, time.Second)
	cmd.SetErr(ErrClientClosed)
	return cmd
}

func errSliceCmd(ctx context.Context) *redis.SliceCmd {
	cmd := redis.NewSliceCmd(ctx)
	cmd.SetErr(ErrClientClosed)
	return cmd
}

func errScanCmd(ctx context.Context) *redis.ScanCmd {
	cmd := redis.NewScanCmd(ctx, nil)
	cmd.SetErr(ErrClientClosed)
	return cmd
}
