// Package config provides configuration loading, defaults, and validation for
// the SeaGuard-Intelligence platform.
package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerPort = 8080
	DefaultServerMode = "debug"

	DefaultDBHost     = "localhost"
	DefaultDBPort     = 5432
	DefaultDBUser     = "seaguard"
	DefaultDBName     = "seaguard"
	DefaultDBMaxConns = 25

	DefaultRedisAddr = "localhost:6379"
	DefaultRedisDB   = 0

	DefaultKafkaBroker  = "localhost:9092"
	DefaultKafkaGroupID = "seaguard-group"
	DefaultTopicPrefix  = "seaguard"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultWorkerConcurrency = 4
	DefaultRetentionDays     = 30

	DefaultNotifyBatchSize = 8

	DefaultDedupThresholdKm = 1.0
	DefaultBufferKm         = 5.0
)

// ApplyDefaults fills every zero-value field in cfg with the platform default.
// It must be called after unmarshalling raw config data and before Validate()
// so that optional-but-defaulted fields are never seen as missing.  Fields
// that have already been set by the caller are left unchanged so explicit
// configuration always wins.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 15 * time.Second
	}

	// ── Database ──────────────────────────────────────────────────────────────
	if cfg.Database.Host == "" {
		cfg.Database.Host = DefaultDBHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultDBPort
	}
	if cfg.Database.User == "" {
		cfg.Database.User = DefaultDBUser
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = DefaultDBName
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = DefaultDBMaxConns
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = "seaguard:"
	}
	if cfg.Redis.DefaultTTL == 0 {
		cfg.Redis.DefaultTTL = time.Hour
	}
	// DB is an int; 0 is a valid explicit value so we cannot distinguish "not
	// set" from "set to 0".  We leave it as-is (0 is also the default).

	// ── Kafka ─────────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = DefaultKafkaGroupID
	}
	if cfg.Kafka.AutoOffsetReset == "" {
		cfg.Kafka.AutoOffsetReset = "earliest"
	}
	if cfg.Kafka.TopicPrefix == "" {
		cfg.Kafka.TopicPrefix = DefaultTopicPrefix
	}
	if cfg.Kafka.WriteTimeout == 0 {
		cfg.Kafka.WriteTimeout = 10 * time.Second
	}

	// ── Notification ──────────────────────────────────────────────────────────
	if cfg.Notification.BatchSize == 0 {
		cfg.Notification.BatchSize = DefaultNotifyBatchSize
	}
	if cfg.Notification.Timeout == 0 {
		cfg.Notification.Timeout = 10 * time.Second
	}
	if cfg.Notification.MaxRetries == 0 {
		cfg.Notification.MaxRetries = 3
	}
	if cfg.Notification.RetryBackoff == 0 {
		cfg.Notification.RetryBackoff = 2 * time.Second
	}
	if cfg.Notification.SuppressWindow == 0 {
		cfg.Notification.SuppressWindow = 6 * time.Hour
	}

	// ── Geospatial ────────────────────────────────────────────────────────────
	if cfg.Geospatial.DedupThresholdKm == 0 {
		cfg.Geospatial.DedupThresholdKm = DefaultDedupThresholdKm
	}
	if cfg.Geospatial.DefaultBufferKm == 0 {
		cfg.Geospatial.DefaultBufferKm = DefaultBufferKm
	}

	// ── Worker ────────────────────────────────────────────────────────────────
	if cfg.Worker.Concurrency == 0 {
		cfg.Worker.Concurrency = DefaultWorkerConcurrency
	}
	if cfg.Worker.MaxRetries == 0 {
		cfg.Worker.MaxRetries = 3
	}
	if cfg.Worker.PollInterval == 0 {
		cfg.Worker.PollInterval = 5 * time.Minute
	}
	if cfg.Worker.RetentionDays == 0 {
		cfg.Worker.RetentionDays = DefaultRetentionDays
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}
