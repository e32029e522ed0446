package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/cashledger/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("REDIS_URL", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.StorageDriverPostgres, cfg.StorageDriver)
	assert.NotEmpty(t, cfg.DatabaseURL)
	assert.Equal(t, 5*time.Second, cfg.DatabaseLockTimeout)
	assert.True(t, cfg.DatabaseMigrateOnStart)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, config.OutboxPublisherLog, cfg.OutboxPublisher)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("DATABASE_LOCK_TIMEOUT", "250ms")
	t.Setenv("REDIS_URL", "redis://example:6379/0")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("OUTBOX_PUBLISHER", "redis")
	t.Setenv("OUTBOX_STREAM", "events")
	t.Setenv("ACCOUNT_LIST_CACHE_TTL", "1m")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.StorageDriverMemory, cfg.StorageDriver)
	assert.Equal(t, 250*time.Millisecond, cfg.DatabaseLockTimeout)
	assert.Equal(t, "redis://example:6379/0", cfg.RedisURL)
	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, config.OutboxPublisherRedis, cfg.OutboxPublisher)
	assert.Equal(t, "events", cfg.OutboxStream)
	assert.Equal(t, time.Minute, cfg.AccountListCacheTTL)
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("HTTP_READ_TIMEOUT", "not-a-duration")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() config.Config {
		return config.Config{
			StorageDriver:    config.StorageDriverPostgres,
			DatabaseURL:      "postgres://localhost/db",
			DatabaseMaxConns: 10,
			DatabaseMinConns: 1,
			OutboxEnabled:    true,
			OutboxPublisher:  config.OutboxPublisherLog,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		wantErr bool
	}{
		{"valid", func(c *config.Config) {}, false},
		{"unknown driver", func(c *config.Config) { c.StorageDriver = "sqlite" }, true},
		{"postgres without url", func(c *config.Config) { c.DatabaseURL = "" }, true},
		{"memory without url", func(c *config.Config) {
			c.StorageDriver = config.StorageDriverMemory
			c.DatabaseURL = ""
		}, false},
		{"redis publisher without redis", func(c *config.Config) { c.OutboxPublisher = config.OutboxPublisherRedis }, true},
		{"redis publisher with outbox disabled", func(c *config.Config) {
			c.OutboxPublisher = config.OutboxPublisherRedis
			c.OutboxEnabled = false
		}, false},
		{"unknown publisher", func(c *config.Config) { c.OutboxPublisher = "kafka" }, true},
		{"min above max", func(c *config.Config) { c.DatabaseMinConns = 20 }, true},
		{"negative rate limit", func(c *config.Config) { c.HTTPRateLimitRPS = -1 }, true},
		{"rate limit without burst", func(c *config.Config) { c.HTTPRateLimitRPS = 10 }, true},
		{"rate limit with burst", func(c *config.Config) {
			c.HTTPRateLimitRPS = 10
			c.HTTPRateLimitBurst = 5
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
