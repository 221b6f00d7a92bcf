package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("NODE_ENV", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("PORT", "")
	t.Setenv("STORE_TIMEOUT", "")
	t.Setenv("CERT_CACHE_TTL", "")
	t.Setenv("ISSUE_MAX_ATTEMPTS", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.StoreTimeout)
	assert.Equal(t, 24*time.Hour, cfg.CertCacheTTL)
	assert.Equal(t, 5, cfg.IssueMaxAttempts)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("NODE_ENV", "")
	t.Setenv("DATABASE_URL_TEST", "sqlite://:memory:")
	t.Setenv("CERT_SIGNING_SECRET", testSecret)
	t.Setenv("STORE_TIMEOUT", "750ms")
	t.Setenv("ISSUE_MAX_ATTEMPTS", "3")
	t.Setenv("ALLOW_CROSS_SITE_DEV", "TRUE")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "test", cfg.Env)
	assert.Equal(t, "sqlite://:memory:", cfg.DatabaseURL)
	assert.Equal(t, testSecret, cfg.SigningSecret)
	assert.Equal(t, 750*time.Millisecond, cfg.StoreTimeout)
	assert.Equal(t, 3, cfg.IssueMaxAttempts)
	assert.True(t, cfg.AllowCrossSiteDev)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_BadDuration(t *testing.T) {
	t.Setenv("STORE_TIMEOUT", "five seconds")
	_, err := Load()
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Env:              "development",
			SigningSecret:    testSecret,
			StoreTimeout:     time.Second,
			IssueMaxAttempts: 5,
			CertCacheTTL:     time.Hour,
		}
	}
	require.NoError(t, valid().Validate())

	cases := map[string]func(c *Config){
		"missing secret":      func(c *Config) { c.SigningSecret = "" },
		"short secret":        func(c *Config) { c.SigningSecret = "short" },
		"zero timeout":        func(c *Config) { c.StoreTimeout = 0 },
		"zero attempts":       func(c *Config) { c.IssueMaxAttempts = 0 },
		"negative ttl":        func(c *Config) { c.CertCacheTTL = -time.Second },
		"prod no session key": func(c *Config) { c.Env = "production" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := valid()
			mutate(c)
			assert.ErrorIs(t, c.Validate(), ErrInvalidConfig)
		})
	}
}
