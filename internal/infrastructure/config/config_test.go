package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func TestApplyDefaults(t *testing.T) {
	cfg := defaultConfig()

	assert.Equal(t, "storefront-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpiration)
	assert.Equal(t, 10, cfg.JWT.MaxRefreshCount)
	assert.Equal(t, "memory", cfg.Cart.GuestStore)
	assert.Equal(t, 720*time.Hour, cfg.Cart.GuestTTL)
	assert.Equal(t, 2*time.Second, cfg.Checkout.PaymentDelay)
	assert.Equal(t, "stub", cfg.Storage.Provider)
	assert.Empty(t, cfg.HTTP.CORSAllowOrigins)
}

func TestValidate(t *testing.T) {
	t.Run("defaults pass", func(t *testing.T) {
		require.NoError(t, defaultConfig().validate())
	})

	t.Run("rejects idle conns above open conns", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.Database.MaxIdleConns = 100
		assert.Error(t, cfg.validate())
	})

	t.Run("rejects unknown guest store", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.Cart.GuestStore = "etcd"
		assert.Error(t, cfg.validate())
	})

	t.Run("rejects unknown storage provider", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.Storage.Provider = "gcs"
		assert.Error(t, cfg.validate())
	})
}

func TestValidateProduction(t *testing.T) {
	productionConfig := func() *Config {
		cfg := defaultConfig()
		cfg.App.Env = "production"
		cfg.JWT.Secret = "0123456789abcdef0123456789abcdef"
		cfg.Database.Password = "secret"
		cfg.Database.SSLMode = "require"
		cfg.Cart.GuestStore = "redis"
		return cfg
	}

	t.Run("valid production config passes", func(t *testing.T) {
		require.NoError(t, productionConfig().validate())
	})

	t.Run("requires jwt secret", func(t *testing.T) {
		cfg := productionConfig()
		cfg.JWT.Secret = ""
		assert.Error(t, cfg.validate())
	})

	t.Run("requires long jwt secret", func(t *testing.T) {
		cfg := productionConfig()
		cfg.JWT.Secret = "short"
		assert.Error(t, cfg.validate())
	})

	t.Run("requires database password", func(t *testing.T) {
		cfg := productionConfig()
		cfg.Database.Password = ""
		assert.Error(t, cfg.validate())
	})

	t.Run("rejects sslmode disable", func(t *testing.T) {
		cfg := productionConfig()
		cfg.Database.SSLMode = "disable"
		assert.Error(t, cfg.validate())
	})

	t.Run("rejects wildcard cors origin", func(t *testing.T) {
		cfg := productionConfig()
		cfg.HTTP.CORSAllowOrigins = []string{"*"}
		assert.Error(t, cfg.validate())
	})

	t.Run("rejects memory guest store", func(t *testing.T) {
		cfg := productionConfig()
		cfg.Cart.GuestStore = "memory"
		assert.Error(t, cfg.validate())
	})
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "store",
		Password: "p@ss/word",
		DBName:   "storefront",
		SSLMode:  "require",
	}

	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "db.internal:5432")
	assert.Contains(t, dsn, "sslmode=require")
	// password must be escaped, not raw
	assert.NotContains(t, dsn, "p@ss/word")
}

func TestRedisAddr(t *testing.T) {
	r := RedisConfig{Host: "cache", Port: 6380}
	assert.Equal(t, "cache:6380", r.Addr())
}
