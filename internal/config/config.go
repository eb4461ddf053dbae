// Package config loads the webstore CLI configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config selects and tunes the backends, codec and logger of the CLI.
type Config struct {
	Backend     string `env:"WEBSTORE_BACKEND" envDefault:"sqlite"`
	DBPath      string `env:"WEBSTORE_DB_PATH" envDefault:"webstore.db"`
	MaxPages    int    `env:"WEBSTORE_MAX_PAGES"`
	RedisURL    string `env:"WEBSTORE_REDIS_URL" envDefault:"redis://localhost:6379/0"`
	RedisPrefix string `env:"WEBSTORE_REDIS_PREFIX" envDefault:"webstore:"`

	SessionBackend string `env:"WEBSTORE_SESSION_BACKEND" envDefault:"memory"`
	// SessionQuota is the session store budget in bytes; 0 = backend default.
	SessionQuota int `env:"WEBSTORE_SESSION_QUOTA"`

	Codec         string `env:"WEBSTORE_CODEC" envDefault:"json"`
	MaxValueBytes int    `env:"WEBSTORE_MAX_VALUE_BYTES"`

	Log      string `env:"WEBSTORE_LOG" envDefault:"zap"`
	LogLevel string `env:"WEBSTORE_LOG_LEVEL" envDefault:"warn"`
	Warnings bool   `env:"WEBSTORE_WARNINGS"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses and validates Config.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	c.SessionBackend = strings.ToLower(strings.TrimSpace(c.SessionBackend))
	c.Codec = strings.ToLower(strings.TrimSpace(c.Codec))
	c.Log = strings.ToLower(strings.TrimSpace(c.Log))
	c.DBPath = strings.TrimSpace(c.DBPath)
}

func oneOf(field, v string, allowed ...string) error {
	for _, a := range allowed {
		if v == a {
			return nil
		}
	}
	return fmt.Errorf("%s: %q is not one of %s", field, v, strings.Join(allowed, "|"))
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	errs := []error{
		oneOf("WEBSTORE_BACKEND", c.Backend, "sqlite", "redis"),
		oneOf("WEBSTORE_SESSION_BACKEND", c.SessionBackend, "memory", "bigcache", "ristretto"),
		oneOf("WEBSTORE_CODEC", c.Codec, "json", "cbor", "msgpack"),
		oneOf("WEBSTORE_LOG", c.Log, "zap", "logrus", "slog"),
	}
	if c.Backend == "sqlite" && c.DBPath == "" {
		errs = append(errs, errors.New("WEBSTORE_DB_PATH is required for the sqlite backend"))
	}
	if c.MaxPages < 0 || c.SessionQuota < 0 || c.MaxValueBytes < 0 {
		errs = append(errs, errors.New("size limits must not be negative"))
	}
	return errors.Join(errs...)
}

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
