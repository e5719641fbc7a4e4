package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validSecret = "config-test-secret-32-characters!!!"

func TestLoad(t *testing.T) {
	t.Run("env vars with defaults", func(t *testing.T) {
		t.Setenv("HIFDH_DATABASE_URL", "postgres://localhost:5432/hifdh")
		t.Setenv("HIFDH_AUTH_JWT_SECRET", validSecret)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, "info", cfg.Server.LogLevel)
		assert.Equal(t, "postgres://localhost:5432/hifdh", cfg.Database.URL)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Empty(t, cfg.Cache.RedisURL)
		assert.Equal(t, 300, cfg.Cache.TTLSeconds)
	})

	t.Run("env overrides defaults", func(t *testing.T) {
		t.Setenv("HIFDH_DATABASE_URL", "postgres://localhost:5432/hifdh")
		t.Setenv("HIFDH_AUTH_JWT_SECRET", validSecret)
		t.Setenv("HIFDH_SERVER_PORT", "9090")
		t.Setenv("HIFDH_SERVER_LOG_LEVEL", "debug")
		t.Setenv("HIFDH_CACHE_REDIS_URL", "redis://localhost:6379")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, "debug", cfg.Server.LogLevel)
		assert.Equal(t, "redis://localhost:6379", cfg.Cache.RedisURL)
	})

	t.Run("missing database url fails validation", func(t *testing.T) {
		t.Setenv("HIFDH_AUTH_JWT_SECRET", validSecret)

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("short jwt secret fails validation", func(t *testing.T) {
		t.Setenv("HIFDH_DATABASE_URL", "postgres://localhost:5432/hifdh")
		t.Setenv("HIFDH_AUTH_JWT_SECRET", "short")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("invalid log level fails validation", func(t *testing.T) {
		t.Setenv("HIFDH_DATABASE_URL", "postgres://localhost:5432/hifdh")
		t.Setenv("HIFDH_AUTH_JWT_SECRET", validSecret)
		t.Setenv("HIFDH_SERVER_LOG_LEVEL", "verbose")

		_, err := Load()
		assert.Error(t, err)
	})
}
