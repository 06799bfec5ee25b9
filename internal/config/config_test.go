package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, "http://localhost:3000", cfg.ProductAPIURL)
	assert.Equal(t, 10*time.Second, cfg.ProductAPITimeout)
	assert.Equal(t, config.StateSQLite, cfg.StateDriver)
	assert.Equal(t, 720*time.Hour, cfg.StateTTL)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PRODUCT_API_URL", "http://api.internal:9000/ ")
	t.Setenv("STATE_DRIVER", "Redis")
	t.Setenv("REDIS_ADDR", "cache:6379")
	t.Setenv("PRODUCT_API_TIMEOUT", "3s")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "http://api.internal:9000", cfg.ProductAPIURL)
	assert.Equal(t, config.StateRedis, cfg.StateDriver)
	assert.Equal(t, "cache:6379", cfg.RedisAddr)
	assert.Equal(t, 3*time.Second, cfg.ProductAPITimeout)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("STATE_DRIVER", "etcd")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoadAPI(t *testing.T) {
	t.Setenv("API_PORT", "4000")
	cfg, err := config.LoadAPI()
	require.NoError(t, err)
	assert.Equal(t, "4000", cfg.Port)
	assert.Equal(t, "productapi.db", cfg.DBDSN)
}
