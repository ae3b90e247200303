// Package config loads server settings from ARK_* environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds everything `ark serve` needs at startup.
type Config struct {
	Port           int           `env:"ARK_PORT"            envDefault:"8080"`
	DevMode        bool          `env:"ARK_DEV_MODE"`
	DBPath         string        `env:"ARK_DB"`
	BackendURL     string        `env:"ARK_BACKEND_URL"`
	BackendAnonKey string        `env:"ARK_BACKEND_ANON_KEY"`
	JWTSecret      string        `env:"ARK_JWT_SECRET"`
	GeocodeURL     string        `env:"ARK_GEOCODE_URL"`
	UserAgent      string        `env:"ARK_USER_AGENT"      envDefault:"ark-property/1.0"`
	RequestTimeout time.Duration `env:"ARK_REQUEST_TIMEOUT" envDefault:"15s"`
	OTelEndpoint   string        `env:"ARK_OTEL_ENDPOINT"`
	SecureCookies  bool          `env:"ARK_SECURE_COOKIES"`

	// Email notifications are sent only when SMTPHost and SMTPFrom are set.
	SiteURL  string   `env:"ARK_SITE_URL"  envDefault:"http://localhost:8080"`
	SMTPHost string   `env:"ARK_SMTP_HOST"`
	SMTPPort string   `env:"ARK_SMTP_PORT" envDefault:"587"`
	SMTPUser string   `env:"ARK_SMTP_USER"`
	SMTPPass string   `env:"ARK_SMTP_PASS"`
	SMTPFrom string   `env:"ARK_SMTP_FROM"`
	NotifyTo []string `env:"ARK_NOTIFY_TO" envSeparator:","`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Hosted reports whether a hosted backend is configured. Otherwise the
// local SQLite store serves data and identity.
func (c Config) Hosted() bool {
	return c.BackendURL != ""
}

// Validate checks combinations env tags cannot express.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("ARK_PORT must be between 1 and 65535, got %d", c.Port)
	}
	if c.RequestTimeout <= 0 {
		return errors.New("ARK_REQUEST_TIMEOUT must be positive")
	}
	if c.Hosted() {
		u, err := url.Parse(c.BackendURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("ARK_BACKEND_URL is not an absolute URL: %q", c.BackendURL)
		}
		if c.BackendAnonKey == "" {
			return errors.New("ARK_BACKEND_ANON_KEY is required with ARK_BACKEND_URL")
		}
		return nil
	}
	if c.JWTSecret == "" && !c.DevMode {
		return errors.New("ARK_JWT_SECRET is required for the local store outside dev mode")
	}
	return nil
}
