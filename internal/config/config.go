package config

import (
	"fmt"
	"net/url"
	"time"

	pkgconfig "github.com/screenhall/web/pkg/config"
)

// Config holds all configuration for the web client service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"WEB_HTTP_PORT" envDefault:"8080"`

	// Ticketing backend
	BackendURL            string `env:"BACKEND_URL" envDefault:"http://localhost:9000"`
	BackendTimeoutSeconds int    `env:"BACKEND_TIMEOUT_SECONDS" envDefault:"15"`
	// Catalog reads may be retried; checkout writes never are, so the
	// booking client always runs with zero retries regardless of this.
	BackendMaxRetries int `env:"BACKEND_MAX_RETRIES" envDefault:"2"`

	// Session auth. The backend signs tokens with this secret; the web
	// layer only verifies them.
	JWTSecret           string `env:"JWT_SECRET,required"`
	SessionCookieMaxAge int    `env:"SESSION_COOKIE_MAX_AGE_HOURS" envDefault:"24"`
	SecureCookies       bool   `env:"SECURE_COOKIES" envDefault:"false"`
	CheckoutTTLMinutes  int    `env:"CHECKOUT_TTL_MINUTES" envDefault:"30"`
	SessionStore        string `env:"SESSION_STORE" envDefault:"redis"`

	// Redis (checkout session store)
	RedisHost string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Circuit breaker settings for backend calls
	CBMaxRequests  uint32  `env:"CB_MAX_REQUESTS" envDefault:"1"`
	CBInterval     int     `env:"CB_INTERVAL_SECONDS" envDefault:"60"`
	CBTimeout      int     `env:"CB_TIMEOUT_SECONDS" envDefault:"30"`
	CBFailureRatio float64 `env:"CB_FAILURE_RATIO" envDefault:"0.5"`
	CBMinRequests  uint32  `env:"CB_MIN_REQUESTS" envDefault:"5"`

	// Background poller
	KeepAliveIntervalSeconds int `env:"KEEP_ALIVE_INTERVAL_SECONDS" envDefault:"30"`
	CatalogRefreshMinutes    int `env:"CATALOG_REFRESH_MINUTES" envDefault:"5"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load web config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.BackendURL == "" {
		return fmt.Errorf("BACKEND_URL is required")
	}
	if _, err := url.ParseRequestURI(c.BackendURL); err != nil {
		return fmt.Errorf("invalid BACKEND_URL %q: %w", c.BackendURL, err)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.SessionStore != "redis" && c.SessionStore != "memory" {
		return fmt.Errorf("SESSION_STORE must be redis or memory, got %q", c.SessionStore)
	}
	if c.CheckoutTTLMinutes < 1 {
		return fmt.Errorf("CHECKOUT_TTL_MINUTES must be positive, got %d", c.CheckoutTTLMinutes)
	}
	if len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required")
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1.0 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", c.OTELSampleRate)
	}
	return nil
}

// CheckoutTTL is how long an untouched checkout session survives.
func (c *Config) CheckoutTTL() time.Duration {
	return time.Duration(c.CheckoutTTLMinutes) * time.Minute
}

// CookieMaxAge is the session cookie lifetime.
func (c *Config) CookieMaxAge() time.Duration {
	return time.Duration(c.SessionCookieMaxAge) * time.Hour
}
