package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/turtacn/SeaGuard-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SeaGuard-Intelligence/pkg/errors"
)

var (
	// ErrLockNotAcquired is returned when the retry budget runs out.
	ErrLockNotAcquired = errors.New(errors.CodeConflict, "failed to acquire lock")

	// ErrLockNotHeld is returned by Unlock when the lock belongs to another
	// owner or has already expired.
	ErrLockNotHeld = errors.New(errors.CodeConflict, "lock not held by this owner")
)

// DistributedLock serializes a job across process replicas. Typical holders
// are the bulletin scrape cycle and the retention cleanup job, which must
// each run on exactly one worker at a time.
type DistributedLock interface {
	Lock(ctx context.Context) error
	TryLock(ctx context.Context) (bool, error)
	Unlock(ctx context.Context) error
	Extend(ctx context.Context, ttl time.Duration) (bool, error)
	TTL(ctx context.Context) (time.Duration, error)
}

// LockFactory builds named locks on a shared Redis client.
type LockFactory interface {
	NewMutex(name string, opts ...LockOption) DistributedLock
}

// LockOption customizes a lock.
type LockOption func(*lockConfig)

func WithLockTTL(ttl time.Duration) LockOption {
	return func(c *lockConfig) { c.ttl = ttl }
}

func WithRetryDelay(delay time.Duration) LockOption {
	return func(c *lockConfig) { c.retryDelay = delay }
}

func WithRetryCount(count int) LockOption {
	return func(c *lockConfig) { c.retryCount = count }
}

// WithWatchdog keeps the lock alive while the holder is still working, for
// jobs whose duration can exceed the lock TTL.
func WithWatchdog(enabled bool) LockOption {
	return func(c *lockConfig) { c.watchdogEnabled = enabled }
}

func WithWatchdogInterval(interval time.Duration) LockOption {
	return func(c *lockConfig) { c.watchdogInterval = interval }
}

type lockConfig struct {
	ttl              time.Duration
	retryDelay       time.Duration
	retryCount       int
	watchdogEnabled  bool
	watchdogInterval time.Duration
}

type redisLockFactory struct {
	client *Client
	log    logging.Logger
}

// NewLockFactory builds a LockFactory backed by client.
func NewLockFactory(client *Client, log logging.Logger) LockFactory {
	return &redisLockFactory{client: client, log: log}
}

func (f *redisLockFactory) NewMutex(name string, opts ...LockOption) DistributedLock {
	cfg := lockConfig{
		ttl:              30 * time.Second,
		retryDelay:       100 * time.Millisecond,
		retryCount:       30,
		watchdogInterval: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.watchdogEnabled && cfg.watchdogInterval == 0 {
		cfg.watchdogInterval = cfg.ttl / 3
	}

	return &redisMutex{
		client: f.client,
		key:    lockKey(name),
		value:  uuid.New().String(),
		config: cfg,
		logger: f.log,
	}
}

func lockKey(name string) string {
	return "seaguard:lock:" + name
}

// redisMutex is a single-owner lock. The random value makes Unlock and
// Extend owner-checked, so an expired lock reacquired by another replica
// cannot be released by the stale holder.
type redisMutex struct {
	client *Client
	key    string
	value  string
	config lockConfig
	logger logging.Logger

	watchdogCancel context.CancelFunc
	watchdogDone   chan struct{}
}

var mutexUnlockScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	else
		return 0
	end
`)

var mutexExtendScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("PEXPIRE", KEYS[1], ARGV[2])
	else
		return 0
	end
`)

func (m *redisMutex) Lock(ctx context.Context) error {
	for i := 0; i < m.config.retryCount; i++ {
		ok, err := m.client.SetNX(ctx, m.key, m.value, m.config.ttl).Result()
		if err != nil {
			return errors.Wrap(err, errors.CodeCacheError, "failed to set lock")
		}
		if ok {
			if m.config.watchdogEnabled {
				m.startWatchdog()
			}
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.config.retryDelay):
		}
	}
	return ErrLockNotAcquired
}

func (m *redisMutex) TryLock(ctx context.Context) (bool, error) {
	ok, err := m.client.SetNX(ctx, m.key, m.value, m.config.ttl).Result()
	if err != nil {
		return false, errors.Wrap(err, errors.CodeCacheError, "failed to set lock")
	}
	if ok && m.config.watchdogEnabled {
		m.startWatchdog()
	}
	return ok, nil
}

func (m *redisMutex) Unlock(ctx context.Context) error {
	m.stopWatchdog()
	res, err := mutexUnlockScript.Run(ctx, m.client.GetUnderlyingClient(), []string{m.key}, m.value).Result()
	if err != nil {
		return errors.Wrap(err, errors.CodeCacheError, "failed to release lock")
	}
	if res.(int64) == 0 {
		return ErrLockNotHeld
	}
	return nil
}

func (m *redisMutex) Extend(ctx context.Context, ttl time.Duration) (bool, error) {
	res, err := mutexExtendScript.Run(ctx, m.client.GetUnderlyingClient(), []string{m.key}, m.value, ttl.Milliseconds()).Result()
	if err != nil {
		return false, errors.Wrap(err, errors.CodeCacheError, "failed to extend lock")
	}
	return res.(int64) == 1, nil
}

func (m *redisMutex) TTL(ctx context.Context) (time.Duration, error) {
	return m.client.GetUnderlyingClient().PTTL(ctx, m.key).Result()
}

func (m *redisMutex) startWatchdog() {
	ctx, cancel := context.WithCancel(context.Background())
	m.watchdogCancel = cancel
	m.watchdogDone = make(chan struct{})

	go func() {
		defer close(m.watchdogDone)
		ticker := time.NewTicker(m.config.watchdogInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				ok, err := m.Extend(ctx, m.config.ttl)
				if err != nil {
					m.logger.Error("Watchdog failed to extend lock",
						logging.String("key", m.key), logging.Err(err))
					return
				}
				if !ok {
					m.logger.Warn("Watchdog lost lock", logging.String("key", m.key))
					return
				}
			}
		}
	}()
}

func (m *redisMutex) stopWatchdog() {
	if m.watchdogCancel != nil {
		m.watchdogCancel()
		<-m.watchdogDone
		m.watchdogCancel = nil
	}
}
