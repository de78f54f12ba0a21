package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("missing file falls back to defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, 3000, cfg.Server.Port)
		assert.Equal(t, "X-Tenant-ID", cfg.Server.TenantHeader)
		assert.Equal(t, 10, cfg.Orders.LowStockThreshold)
		assert.True(t, cfg.Orders.AllowNegativeTotal)
	})

	t.Run("yaml overrides defaults", func(t *testing.T) {
		path := writeConfig(t, `
server:
  port: 8081
  read_timeout: 5s
database:
  host: db
  database: shop
redis:
  enabled: true
  ttl: 30s
orders:
  allow_negative_total: false
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 8081, cfg.Server.Port)
		assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
		assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)
		assert.Equal(t, "db", cfg.Database.Host)
		assert.True(t, cfg.Redis.Enabled)
		assert.Equal(t, 30*time.Second, cfg.Redis.TTL)
		assert.False(t, cfg.Orders.AllowNegativeTotal)
	})

	t.Run("env overrides yaml", func(t *testing.T) {
		path := writeConfig(t, "database:\n  host: db\n")
		t.Setenv("DATABASE_HOST", "pg.internal")
		t.Setenv("HTTP_PORT", "9000")
		t.Setenv("REDIS_ENABLED", "true")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "pg.internal", cfg.Database.Host)
		assert.Equal(t, 9000, cfg.Server.Port)
		assert.True(t, cfg.Redis.Enabled)
	})

	t.Run("bad env value", func(t *testing.T) {
		t.Setenv("HTTP_PORT", "abc")
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := writeConfig(t, "server: [")
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("validation", func(t *testing.T) {
		path := writeConfig(t, "server:\n  port: 70000\n")
		_, err := Load(path)
		assert.ErrorContains(t, err, "invalid server port")
	})
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "h", Port: 5432, User: "u", Password: "p", Database: "d", SSLMode: "disable"}
	assert.Equal(t, "host=h port=5432 user=u password=p dbname=d sslmode=disable", d.DSN())
}
