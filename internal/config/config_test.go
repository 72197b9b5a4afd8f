package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/SeaGuard-Intelligence/internal/config"
	"github.com/turtacn/SeaGuard-Intelligence/internal/geospatial/validator"
)

// validConfig returns a Config that passes Validate() with all required fields set.
func validConfig() *config.Config {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	// Fill required fields that have no default.
	cfg.Database.User = "seaguard"
	return cfg
}

func TestConfig_Validate_DefaultsPlusUserIsValid(t *testing.T) {
	t.Parallel()
	assert.NoError(t, validConfig().Validate())
}

func TestConfig_Validate_Rejections(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		mutate  func(cfg *config.Config)
		wantMsg string
	}{
		{
			name:    "port out of range",
			mutate:  func(c *config.Config) { c.Server.Port = 70000 },
			wantMsg: "server.port",
		},
		{
			name:    "bad server mode",
			mutate:  func(c *config.Config) { c.Server.Mode = "production" },
			wantMsg: "server.mode",
		},
		{
			name:    "missing database host",
			mutate:  func(c *config.Config) { c.Database.Host = "" },
			wantMsg: "database.host",
		},
		{
			name:    "missing database user",
			mutate:  func(c *config.Config) { c.Database.User = "" },
			wantMsg: "database.user",
		},
		{
			name:    "missing redis addr",
			mutate:  func(c *config.Config) { c.Redis.Addr = "" },
			wantMsg: "redis.addr",
		},
		{
			name:    "no kafka brokers",
			mutate:  func(c *config.Config) { c.Kafka.Brokers = nil },
			wantMsg: "kafka.brokers",
		},
		{
			name:    "negative notification batch",
			mutate:  func(c *config.Config) { c.Notification.BatchSize = -1 },
			wantMsg: "notification.batch_size",
		},
		{
			name:    "negative dedup threshold",
			mutate:  func(c *config.Config) { c.Geospatial.DedupThresholdKm = -2 },
			wantMsg: "dedup_threshold_km",
		},
		{
			name: "degenerate region when enabled",
			mutate: func(c *config.Config) {
				c.Geospatial.RegionEnabled = true
				c.Geospatial.Region = validator.BoundingBox{MinLat: 10, MaxLat: 5, MinLon: 0, MaxLon: 1}
			},
			wantMsg: "geospatial.region",
		},
		{
			name:    "bad log level",
			mutate:  func(c *config.Config) { c.Log.Level = "verbose" },
			wantMsg: "log.level",
		},
		{
			name:    "bad log format",
			mutate:  func(c *config.Config) { c.Log.Format = "text" },
			wantMsg: "log.format",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tc.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantMsg)
		})
	}
}

func TestConfig_Validate_RegionIgnoredWhenDisabled(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Geospatial.RegionEnabled = false
	cfg.Geospatial.Region = validator.BoundingBox{MinLat: 10, MaxLat: 5}

	assert.NoError(t, cfg.Validate())
}
