package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfigYAML = `
server:
  port: 8088
  mode: release
database:
  host: db.internal
  user: seaguard
  password: secret
  db_name: warnings
redis:
  addr: redis.internal:6379
kafka:
  brokers: ["kafka.internal:9092"]
  group_id: seaguard-api
notification:
  webhook_url: https://example.webhook.office.com/webhookb2/abc
geospatial:
  dedup_threshold_km: 0.5
log:
  level: debug
`

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_ValidFile(t *testing.T) {
	path := createTempConfigFile(t, validConfigYAML)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8088, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "warnings", cfg.Database.DBName)
	assert.Equal(t, 0.5, cfg.Geospatial.DedupThresholdKm)
	assert.Equal(t, "debug", cfg.Log.Level)

	// Unset fields fall back to defaults.
	assert.Equal(t, DefaultBufferKm, cfg.Geospatial.DefaultBufferKm)
	assert.Equal(t, DefaultNotifyBatchSize, cfg.Notification.BatchSize)
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("does_not_exist.yaml")
	assert.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := createTempConfigFile(t, "broken: [")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_ValidationFailure(t *testing.T) {
	bad := validConfigYAML + "\nworker:\n  concurrency: -1\n"
	path := createTempConfigFile(t, bad)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "worker.concurrency")
}

func TestLoadFromEnv_OverridesDefaults(t *testing.T) {
	t.Setenv("SEAGUARD_DATABASE_USER", "ops")
	t.Setenv("SEAGUARD_DATABASE_HOST", "pg.internal")
	t.Setenv("SEAGUARD_SERVER_PORT", "9090")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "ops", cfg.Database.User)
	assert.Equal(t, "pg.internal", cfg.Database.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, DefaultRedisAddr, cfg.Redis.Addr)
}

func TestMustLoad_PanicsOnMissingFile(t *testing.T) {
	assert.Panics(t, func() { MustLoad("missing.yaml") })
}
