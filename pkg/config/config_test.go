package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "edupay", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenTTL)
	assert.Equal(t, 168*time.Hour, cfg.JWT.RefreshTokenTTL)
	assert.Equal(t, 5, cfg.Login.MaxAttempts)
	assert.Equal(t, 15*time.Minute, cfg.Login.LockoutDuration)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 10, cfg.RateLimit.AuthMax)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.Kafka.Enabled)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("LOGIN_MAX_ATTEMPTS", "3")
	t.Setenv("RATE_LIMIT_AUTH_MAX", "20")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 3, cfg.Login.MaxAttempts)
	assert.Equal(t, 20, cfg.RateLimit.AuthMax)
}

func TestConfig_Validate(t *testing.T) {
	base := func() *Config {
		return &Config{
			App:    AppConfig{Name: "edupay", Environment: "development"},
			Server: ServerConfig{Port: 8080},
			JWT: JWTConfig{
				AccessSecret:  "access-secret",
				RefreshSecret: "refresh-secret",
			},
			RateLimit: RateLimitConfig{
				Enabled: true,
				Max:     100, Window: time.Minute,
				AuthMax: 10, AuthWindow: time.Minute,
			},
			Login: LoginConfig{MaxAttempts: 5, LockoutDuration: 15 * time.Minute},
		}
	}

	t.Run("valid config passes", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})

	t.Run("missing app name rejected", func(t *testing.T) {
		cfg := base()
		cfg.App.Name = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("identical secrets rejected", func(t *testing.T) {
		cfg := base()
		cfg.JWT.RefreshSecret = cfg.JWT.AccessSecret
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must differ")
	})

	t.Run("dev secret rejected in production", func(t *testing.T) {
		cfg := base()
		cfg.App.Environment = "production"
		cfg.JWT.AccessSecret = "dev-access-secret-change-in-production"
		assert.Error(t, cfg.Validate())
	})

	t.Run("zero lockout duration rejected", func(t *testing.T) {
		cfg := base()
		cfg.Login.LockoutDuration = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("zero rate limit window rejected when enabled", func(t *testing.T) {
		cfg := base()
		cfg.RateLimit.Window = 0
		assert.Error(t, cfg.Validate())
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "edupay",
		Password: "secret",
		DBName:   "edupay",
		SSLMode:  "require",
	}
	assert.Equal(t,
		"host=db.internal port=5433 user=edupay password=secret dbname=edupay sslmode=require",
		d.DSN())
}

func TestRedisConfig_Addr(t *testing.T) {
	r := RedisConfig{Host: "cache.internal", Port: 6380}
	assert.Equal(t, "cache.internal:6380", r.Addr())
}
