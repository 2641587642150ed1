package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.Debug)
	assert.Equal(t, DefaultSecretKey, cfg.SecretKey)
	assert.Equal(t, SessionStoreMemory, cfg.SessionStore)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.Empty(t, cfg.TrustedProxies)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SECRET_KEY", "s3cr3t")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/clinic")
	t.Setenv("DEBUG", "false")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.1,172.16.0.0/12")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "s3cr3t", cfg.SecretKey)
	assert.Equal(t, "postgres://u:p@db:5432/clinic", cfg.DatabaseURL)
	assert.False(t, cfg.Debug)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, []string{"10.0.0.1", "172.16.0.0/12"}, cfg.TrustedProxies)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	base := Config{
		SecretKey:    "x",
		DatabaseURL:  "postgres://localhost/clinic",
		SessionStore: SessionStoreMemory,
		SessionTTL:   time.Hour,
	}

	c := base
	c.SessionStore = SessionStoreRedis
	assert.Error(t, c.Validate())
	c.RedisURL = "redis://localhost:6379/0"
	assert.NoError(t, c.Validate())

	c = base
	c.SessionStore = "files"
	assert.Error(t, c.Validate())

	c = base
	c.SecretKey = DefaultSecretKey
	assert.Error(t, c.Validate())
	c.Debug = true
	assert.NoError(t, c.Validate())

	c = base
	c.TrustedProxies = []string{"10.0.0.0/8", "::1"}
	assert.NoError(t, c.Validate())
	c.TrustedProxies = []string{"proxy.internal"}
	assert.Error(t, c.Validate())
}
