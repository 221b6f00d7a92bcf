package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// MinSigningSecretLength matches the signing service's minimum key size.
const MinSigningSecretLength = 32

const (
	defaultStoreTimeout = 5 * time.Second
	defaultMaxAttempts  = 5
	defaultCacheTTL     = 24 * time.Hour
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds application configuration (env + Viper).
type Config struct {
	Env                 string
	Port                string
	SessionSecret       string
	DatabaseURL         string
	RedisURL            string
	SigningSecret       string // CERT_SIGNING_SECRET, HMAC key for certificate signatures; never logged
	StoreTimeout        time.Duration
	IssueMaxAttempts    int
	CertCacheTTL        time.Duration
	FrontendURLEndsWith string
	DevPassword         string
	AllowCrossSiteDev   bool
	HealthAdminKey      string
	LogLevel            string
	LogFile             string
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	port := v.GetString("PORT")
	if port == "" {
		port = "8080"
	}
	env := v.GetString("NODE_ENV")
	if env == "" {
		env = v.GetString("APP_ENV")
	}
	if env == "" {
		env = "development"
	}

	dbURL := v.GetString("DATABASE_URL_DEV")
	if env == "production" {
		dbURL = v.GetString("DATABASE_URL_PROD")
	} else if env == "test" {
		dbURL = v.GetString("DATABASE_URL_TEST")
	}
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL_DEV")
	}

	storeTimeout, err := duration(v, "STORE_TIMEOUT", defaultStoreTimeout)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := duration(v, "CERT_CACHE_TTL", defaultCacheTTL)
	if err != nil {
		return nil, err
	}
	attempts := defaultMaxAttempts
	if v.IsSet("ISSUE_MAX_ATTEMPTS") && v.GetString("ISSUE_MAX_ATTEMPTS") != "" {
		attempts = v.GetInt("ISSUE_MAX_ATTEMPTS")
	}

	return &Config{
		Env:                 env,
		Port:                port,
		SessionSecret:       v.GetString("SESSION_SECRET"),
		DatabaseURL:         dbURL,
		RedisURL:            v.GetString("REDIS_URL"),
		SigningSecret:       v.GetString("CERT_SIGNING_SECRET"),
		StoreTimeout:        storeTimeout,
		IssueMaxAttempts:    attempts,
		CertCacheTTL:        cacheTTL,
		FrontendURLEndsWith: v.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:         v.GetString("DEV_PASSWORD"),
		AllowCrossSiteDev:   strings.EqualFold(v.GetString("ALLOW_CROSS_SITE_DEV"), "true"),
		HealthAdminKey:      v.GetString("HEALTH_ADMIN_KEY"),
		LogLevel:            v.GetString("LOG_LEVEL"),
		LogFile:             v.GetString("LOG_FILE"),
	}, nil
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks the settings the certificate engine cannot run without.
func (c *Config) Validate() error {
	if c.SigningSecret == "" {
		return fmt.Errorf("%w: CERT_SIGNING_SECRET is required", ErrInvalidConfig)
	}
	if len(c.SigningSecret) < MinSigningSecretLength {
		return fmt.Errorf("%w: CERT_SIGNING_SECRET must be at least %d bytes", ErrInvalidConfig, MinSigningSecretLength)
	}
	if c.StoreTimeout <= 0 {
		return fmt.Errorf("%w: STORE_TIMEOUT must be positive", ErrInvalidConfig)
	}
	if c.IssueMaxAttempts <= 0 {
		return fmt.Errorf("%w: ISSUE_MAX_ATTEMPTS must be positive", ErrInvalidConfig)
	}
	if c.CertCacheTTL < 0 {
		return fmt.Errorf("%w: CERT_CACHE_TTL must not be negative", ErrInvalidConfig)
	}
	if c.IsProduction() && c.SessionSecret == "" {
		return fmt.Errorf("%w: SESSION_SECRET is required in production", ErrInvalidConfig)
	}
	return nil
}

func duration(v *viper.Viper, key string, def time.Duration) (time.Duration, error) {
	s := strings.TrimSpace(v.GetString(key))
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s is invalid: %v", ErrInvalidConfig, key, err)
	}
	return d, nil
}
