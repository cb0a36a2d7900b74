// Package config reads the service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the calculator service configuration.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	ServiceName     string
	OTelEnabled     bool
	MaxSessions     int
	ShutdownTimeout time.Duration
}

// Default returns the configuration used when no variables are set.
func Default() Config {
	return Config{
		HTTPAddr:        ":8080",
		LogLevel:        "info",
		ServiceName:     "keypad-calc",
		OTelEnabled:     true,
		MaxSessions:     1024,
		ShutdownTimeout: 5 * time.Second,
	}
}

// Load reads .env when present and then the process environment.
func Load() (Config, error) {
	if err := loadDotEnv(); err != nil {
		return Config{}, err
	}
	return FromLookup(os.LookupEnv)
}

// loadDotEnv loads environment variables from .env when present.
// Existing process environment variables are not overridden.
func loadDotEnv() error {
	err := godotenv.Load()
	if err == nil {
		return nil
	}

	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("load .env: %w", err)
}

// FromLookup builds a Config from lookup, falling back to Default for
// unset variables.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if v, ok := lookup("HTTP_ADDR"); ok && v != "" {
		cfg.HTTPAddr = v
	}
	if v, ok := lookup("LOG_LEVEL"); ok && v != "" {
		cfg.LogLevel = v
	}
	if v, ok := lookup("OTEL_SERVICE_NAME"); ok && v != "" {
		cfg.ServiceName = v
	}

	if v, ok := lookup("OTEL_ENABLED"); ok && v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("OTEL_ENABLED: %w", err)
		}
		cfg.OTelEnabled = enabled
	}

	if v, ok := lookup("CALC_MAX_SESSIONS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("CALC_MAX_SESSIONS: %w", err)
		}
		if n < 0 {
			return Config{}, fmt.Errorf("CALC_MAX_SESSIONS: must not be negative, got %d", n)
		}
		cfg.MaxSessions = n
	}

	if v, ok := lookup("SHUTDOWN_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("SHUTDOWN_TIMEOUT: %w", err)
		}
		cfg.ShutdownTimeout = d
	}

	return cfg, nil
}
