// Package postgres manages the PostgreSQL connection pool and schema
// migrations for the platform's warning store.
package postgres

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/turtacn/SeaGuard-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SeaGuard-Intelligence/pkg/errors"
)

// Config holds the database connection parameters.
type Config struct {
	Host             string
	Port             int
	User             string
	Password         string
	Database         string
	SSLMode          string
	MaxConns         int
	MinConns         int
	ConnMaxLifetime  time.Duration
	ConnMaxIdleTime  time.Duration
	StatementTimeout time.Duration
}

// Client owns the pgx connection pool.
type Client struct {
	pool   *pgxpool.Pool
	cfg    Config
	logger logging.Logger
	once   sync.Once
}

// NewClient connects to PostgreSQL and verifies the connection with a ping.
func NewClient(ctx context.Context, cfg Config, log logging.Logger) (*Client, error) {
	poolCfg, err := pgxpool.ParseConfig(BuildDSN(cfg))
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeConfigInvalid, "invalid database configuration")
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxConns)
	} else {
		poolCfg.MaxConns = 25
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = int32(cfg.MinConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	} else {
		poolCfg.MaxConnLifetime = 30 * time.Minute
	}
	if cfg.ConnMaxIdleTime > 0 {
		poolCfg.MaxConnIdleTime = cfg.ConnMaxIdleTime
	} else {
		poolCfg.MaxConnIdleTime = 5 * time.Minute
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to create connection pool")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "database connection failed")
	}

	log.Info("Connected to PostgreSQL database",
		logging.String("host", cfg.Host),
		logging.Int("port", cfg.Port),
		logging.String("database", cfg.Database),
	)

	return &Client{
		pool:   pool,
		cfg:    cfg,
		logger: log,
	}, nil
}

// Pool returns the underlying pgx pool.
func (c *Client) Pool() *pgxpool.Pool {
	return c.pool
}

// HealthCheck pings the database and warns on high pool usage.
func (c *Client) HealthCheck(ctx context.Context) error {
	if err := c.pool.Ping(ctx); err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "database health check failed")
	}

	stat := c.pool.Stat()
	if stat.TotalConns() > 0 {
		usage := float64(stat.AcquiredConns()) / float64(stat.TotalConns())
		if usage > 0.8 {
			c.logger.Warn("High database connection pool usage",
				logging.Int("acquired", int(stat.AcquiredConns())),
				logging.Int("total", int(stat.TotalConns())),
				logging.Float64("usage", usage),
			)
		}
	}

	return nil
}

// Stat returns a pool statistics snapshot.
func (c *Client) Stat() *pgxpool.Stat {
	return c.pool.Stat()
}

// Close releases the pool. Safe to call more than once.
func (c *Client) Close() {
	c.once.Do(func() {
		c.pool.Close()
		c.logger.Info("Closed PostgreSQL connection pool")
	})
}

// BuildDSN constructs the PostgreSQL connection string. The same DSN is
// used by the pool and by the migration runner.
func BuildDSN(cfg Config) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:   cfg.Database,
	}

	q := u.Query()
	if cfg.SSLMode != "" {
		q.Set("sslmode", cfg.SSLMode)
	} else {
		q.Set("sslmode", "disable")
	}
	if cfg.StatementTimeout > 0 {
		q.Set("statement_timeout", fmt.Sprintf("%d", cfg.StatementTimeout.Milliseconds()))
	} else {
		q.Set("statement_timeout", "30000")
	}

	u.RawQuery = q.Encode()
	return u.String()
}
