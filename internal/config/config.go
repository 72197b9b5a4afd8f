// Package config defines all configuration structures for the
// SeaGuard-Intelligence platform.  No I/O or parsing logic lives here — only
// plain data types and validation.
package config

import (
	"fmt"
	"time"

	"github.com/turtacn/SeaGuard-Intelligence/internal/geospatial/validator"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int           `mapstructure:"max_conns"`
	MinConns        int           `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	MigrationPath   string        `mapstructure:"migration_path"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	DefaultTTL   time.Duration `mapstructure:"default_ttl"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// KafkaConfig holds Apache Kafka producer/consumer parameters.
type KafkaConfig struct {
	Brokers         []string      `mapstructure:"brokers"`
	GroupID         string        `mapstructure:"group_id"`
	AutoOffsetReset string        `mapstructure:"auto_offset_reset"` // "earliest" | "latest"
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ProducerRetries int           `mapstructure:"producer_retries"`
	BatchSize       int           `mapstructure:"batch_size"`
	TopicPrefix     string        `mapstructure:"topic_prefix"`
}

// NotificationConfig holds webhook delivery parameters for the Teams-style
// adaptive-card channel.
type NotificationConfig struct {
	WebhookURL     string        `mapstructure:"webhook_url"`
	Timeout        time.Duration `mapstructure:"timeout"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryBackoff   time.Duration `mapstructure:"retry_backoff"`
	BatchSize      int           `mapstructure:"batch_size"`
	SuppressWindow time.Duration `mapstructure:"suppress_window"`
}

// GeospatialConfig holds extraction pipeline tunables.
type GeospatialConfig struct {
	// DedupThresholdKm is the clustering distance for merging duplicate
	// coordinate mentions within one bulletin.
	DedupThresholdKm float64 `mapstructure:"dedup_threshold_km"`
	// DefaultBufferKm is the hazard buffer applied to zones whose bulletin
	// does not state one.
	DefaultBufferKm float64 `mapstructure:"default_buffer_km"`
	// Region, when enabled, rejects extracted points outside the bounding
	// box. Disabled by default so worldwide bulletins pass through.
	RegionEnabled bool                  `mapstructure:"region_enabled"`
	Region        validator.BoundingBox `mapstructure:"region"`
}

// KeywordConfig holds the watch list override.
type KeywordConfig struct {
	// Keywords replaces the built-in bilingual list when non-empty.
	Keywords []string `mapstructure:"keywords"`
}

// WorkerConfig holds background-worker execution parameters.
type WorkerConfig struct {
	Concurrency  int           `mapstructure:"concurrency"`
	QueueDepth   int           `mapstructure:"queue_depth"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	MaxRetries   int           `mapstructure:"max_retries"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
	// RetentionDays bounds how long warnings are kept before cleanup.
	RetentionDays int `mapstructure:"retention_days"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level            string `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format           string `mapstructure:"format"` // "json" | "console"
	Output           string `mapstructure:"output"`
	EnableCaller     bool   `mapstructure:"enable_caller"`
	EnableStacktrace bool   `mapstructure:"enable_stacktrace"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure for the entire platform.
// Every infrastructure component and application service reads its settings
// from the relevant sub-struct.
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Kafka        KafkaConfig        `mapstructure:"kafka"`
	Notification NotificationConfig `mapstructure:"notification"`
	Geospatial   GeospatialConfig   `mapstructure:"geospatial"`
	Keyword      KeywordConfig      `mapstructure:"keyword"`
	Worker       WorkerConfig       `mapstructure:"worker"`
	Log          LogConfig          `mapstructure:"log"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered; callers should treat any error as
// fatal and refuse to start the application.
func (c *Config) Validate() error {
	// Server
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}

	// Database
	if c.Database.Host == "" {
		return fmt.Errorf("config: database.host is required")
	}
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("config: database.port %d is out of range [1, 65535]", c.Database.Port)
	}
	if c.Database.User == "" {
		return fmt.Errorf("config: database.user is required")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("config: database.db_name is required")
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("config: database.max_conns must be >= 1, got %d", c.Database.MaxConns)
	}

	// Redis
	if c.Redis.Addr == "" {
		return fmt.Errorf("config: redis.addr is required")
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("config: redis.db must be >= 0, got %d", c.Redis.DB)
	}

	// Kafka
	if len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("config: kafka.brokers must contain at least one broker address")
	}
	if c.Kafka.GroupID == "" {
		return fmt.Errorf("config: kafka.group_id is required")
	}

	// Notification
	if c.Notification.BatchSize < 1 {
		return fmt.Errorf("config: notification.batch_size must be >= 1, got %d", c.Notification.BatchSize)
	}

	// Geospatial
	if c.Geospatial.DedupThresholdKm <= 0 {
		return fmt.Errorf("config: geospatial.dedup_threshold_km must be > 0, got %g", c.Geospatial.DedupThresholdKm)
	}
	if c.Geospatial.DefaultBufferKm <= 0 {
		return fmt.Errorf("config: geospatial.default_buffer_km must be > 0, got %g", c.Geospatial.DefaultBufferKm)
	}
	if c.Geospatial.RegionEnabled {
		r := c.Geospatial.Region
		if r.MinLat >= r.MaxLat || r.MinLon >= r.MaxLon {
			return fmt.Errorf("config: geospatial.region is degenerate")
		}
	}

	// Worker
	if c.Worker.Concurrency < 1 {
		return fmt.Errorf("config: worker.concurrency must be >= 1, got %d", c.Worker.Concurrency)
	}
	if c.Worker.RetentionDays < 1 {
		return fmt.Errorf("config: worker.retention_days must be >= 1, got %d", c.Worker.RetentionDays)
	}

	// Log
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	return nil
}
