package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App     AppConfig
	Redis   RedisConfig
	Catalog CatalogConfig
	Woo     WooConfig
	Session SessionConfig
	Promo   PromoConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"WICKHAVEN_APP_ENV" required:"true"`
	Port         string `envconfig:"WICKHAVEN_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"WICKHAVEN_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"WICKHAVEN_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// RedisConfig is optional: when no URL or address is set the storefront keeps
// session state in process memory instead.
type RedisConfig struct {
	URL          string        `envconfig:"WICKHAVEN_REDIS_URL"`
	Address      string        `envconfig:"WICKHAVEN_REDIS_ADDR"`
	Password     string        `envconfig:"WICKHAVEN_REDIS_PASSWORD"`
	DB           int           `envconfig:"WICKHAVEN_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"WICKHAVEN_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"WICKHAVEN_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"WICKHAVEN_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"WICKHAVEN_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"WICKHAVEN_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Configured reports whether a Redis backend was supplied at all.
func (r RedisConfig) Configured() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type CatalogConfig struct {
	DSN        string `envconfig:"WICKHAVEN_CATALOG_DSN" default:"file::memory:?cache=shared"`
	RemoteSync bool   `envconfig:"WICKHAVEN_CATALOG_REMOTE_SYNC" default:"true"`
}

// WooConfig points at the commerce backend. All remote-backed features stay
// disabled unless the base URL and both credentials are present.
type WooConfig struct {
	BaseURL        string        `envconfig:"WICKHAVEN_WOO_BASE_URL"`
	ConsumerKey    string        `envconfig:"WICKHAVEN_WOO_CONSUMER_KEY"`
	ConsumerSecret string        `envconfig:"WICKHAVEN_WOO_CONSUMER_SECRET"`
	Timeout        time.Duration `envconfig:"WICKHAVEN_WOO_TIMEOUT" default:"10s"`
}

func (w WooConfig) Enabled() bool {
	return strings.TrimSpace(w.BaseURL) != "" &&
		strings.TrimSpace(w.ConsumerKey) != "" &&
		strings.TrimSpace(w.ConsumerSecret) != ""
}

type SessionConfig struct {
	Secret     string `envconfig:"WICKHAVEN_SESSION_SECRET" required:"true"`
	Issuer     string `envconfig:"WICKHAVEN_SESSION_ISSUER" default:"wickhaven"`
	TTLMinutes int    `envconfig:"WICKHAVEN_SESSION_TTL_MINUTES" default:"43200"`
}

// TTL returns the guest session lifetime configured in minutes.
func (s SessionConfig) TTL() time.Duration {
	if s.TTLMinutes <= 0 {
		return 0
	}
	return time.Duration(s.TTLMinutes) * time.Minute
}

type PromoConfig struct {
	LookupTimeout time.Duration `envconfig:"WICKHAVEN_PROMO_LOOKUP_TIMEOUT" default:"5s"`
}
