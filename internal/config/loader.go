// Package config provides configuration loading, defaults, and validation for
// the SeaGuard-Intelligence platform.
package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all platform settings.
const envPrefix = "SEAGUARD"

// newViper builds a pre-configured Viper instance with the platform's standard
// settings: YAML file type, SEAGUARD_ env prefix, automatic env binding, and a
// key replacer that maps "." → "_" so that nested keys like "database.host"
// resolve to "SEAGUARD_DATABASE_HOST".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	bindEnvKeys(v)
	return v
}

// envKeys enumerates every config key so that Unmarshal sees values supplied
// only through the environment.  Viper does not surface unbound env vars to
// Unmarshal, so each key is registered explicitly.
var envKeys = []string{
	"server.port", "server.mode", "server.read_timeout", "server.write_timeout",
	"server.max_body_size", "server.shutdown_timeout",
	"database.host", "database.port", "database.user", "database.password",
	"database.db_name", "database.ssl_mode", "database.max_conns", "database.min_conns",
	"database.conn_max_lifetime", "database.conn_max_idle_time", "database.migration_path",
	"redis.addr", "redis.password", "redis.db", "redis.pool_size", "redis.min_idle_conns",
	"redis.dial_timeout", "redis.read_timeout", "redis.write_timeout",
	"redis.default_ttl", "redis.key_prefix",
	"kafka.brokers", "kafka.group_id", "kafka.auto_offset_reset", "kafka.write_timeout",
	"kafka.producer_retries", "kafka.batch_size", "kafka.topic_prefix",
	"notification.webhook_url", "notification.timeout", "notification.max_retries",
	"notification.retry_backoff", "notification.batch_size", "notification.suppress_window",
	"geospatial.dedup_threshold_km", "geospatial.default_buffer_km",
	"geospatial.region_enabled", "geospatial.region.min_lat", "geospatial.region.max_lat",
	"geospatial.region.min_lon", "geospatial.region.max_lon",
	"keyword.keywords",
	"worker.concurrency", "worker.queue_depth", "worker.poll_interval",
	"worker.max_retries", "worker.retry_backoff", "worker.retention_days",
	"log.level", "log.format", "log.output", "log.enable_caller", "log.enable_stacktrace",
}

func bindEnvKeys(v *viper.Viper) {
	for _, key := range envKeys {
		// BindEnv only fails on an empty key.
		_ = v.BindEnv(key)
	}
}

// Load reads the YAML file at configPath, merges any SEAGUARD_* environment
// variable overrides, applies platform defaults for unset fields, and
// validates the result.  It returns a fully-populated *Config or a
// descriptive error.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from SEAGUARD_* environment variables,
// with no config file required.  This is the preferred loading strategy for
// containerised (12-factor) deployments.
//
// Environment variable naming convention:
//
//	SEAGUARD_<SECTION>_<FIELD>   e.g.  SEAGUARD_DATABASE_HOST, SEAGUARD_NOTIFICATION_WEBHOOK_URL
func LoadFromEnv() (*Config, error) {
	v := newViper()
	// No config file; rely solely on env vars and defaults.
	return unmarshalAndFinalize(v)
}

// unmarshalAndFinalize unmarshals viper state into a Config struct, applies
// defaults, and validates the result.
func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch monitors configPath for changes and invokes onChange with the newly
// parsed Config whenever the file is modified on disk.  It is intended for
// hot-reloading non-critical settings such as log level and the keyword
// watch list; callers are responsible for applying only the safe subset of
// changes at runtime.
//
// Watch is non-blocking; it starts a background goroutine managed by viper.
// If the changed file fails to parse or validate, onChange is NOT called.
func Watch(configPath string, onChange func(*Config)) {
	v := newViper()
	v.SetConfigFile(configPath)

	// Initial read. Errors are ignored here; callers should call Load first.
	_ = v.ReadInConfig()

	v.WatchConfig()
	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			// The changed file produced an invalid config; skip the callback
			// so the application never enters a broken state.
			return
		}
		onChange(cfg)
	})
}

// MustLoad is a convenience wrapper around Load that panics on any error.
// It is intended for use in main() where a config-load failure is always fatal.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}
