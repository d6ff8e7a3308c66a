// Package config loads runtime settings from FORMFLOW_* environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/aretw0/formflow/internal/logging"
	"github.com/aretw0/formflow/pkg/i18n"
	"github.com/aretw0/formflow/pkg/validation"
)

// Config holds all configuration for formflow
type Config struct {
	// Server settings
	Addr         string
	SessionLimit int

	// Presentation settings
	LogLevel string
	Lang     string

	// Catalog file; empty means the embedded catalog
	Catalog string

	// Redis settings; empty address means in-process locks
	RedisAddr   string
	RedisPrefix string

	// Validation settings
	FormALatency    time.Duration
	FormBLatency    time.Duration
	ValidationLease time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Addr:            getEnv("FORMFLOW_ADDR", ":8080"),
		SessionLimit:    getEnvInt("FORMFLOW_SESSION_LIMIT", 1000),
		LogLevel:        getEnv("FORMFLOW_LOG_LEVEL", "info"),
		Lang:            getEnv("FORMFLOW_LANG", "en"),
		Catalog:         os.Getenv("FORMFLOW_CATALOG"),
		RedisAddr:       os.Getenv("FORMFLOW_REDIS_ADDR"),
		RedisPrefix:     getEnv("FORMFLOW_REDIS_PREFIX", "formflow:"),
		FormALatency:    getEnvDuration("FORMFLOW_FORM_A_LATENCY", validation.DefaultFormALatency),
		FormBLatency:    getEnvDuration("FORMFLOW_FORM_B_LATENCY", validation.DefaultFormBLatency),
		ValidationLease: getEnvDuration("FORMFLOW_VALIDATION_LEASE", 30*time.Second),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.FormALatency < 0 {
		return fmt.Errorf("FORMFLOW_FORM_A_LATENCY must not be negative, got %v", c.FormALatency)
	}
	if c.FormBLatency < 0 {
		return fmt.Errorf("FORMFLOW_FORM_B_LATENCY must not be negative, got %v", c.FormBLatency)
	}
	if c.ValidationLease <= 0 {
		return fmt.Errorf("FORMFLOW_VALIDATION_LEASE must be positive, got %v", c.ValidationLease)
	}
	if c.SessionLimit <= 0 {
		return fmt.Errorf("FORMFLOW_SESSION_LIMIT must be positive, got %d", c.SessionLimit)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("FORMFLOW_LOG_LEVEL: %w", err)
	}
	if _, err := i18n.New(c.Lang); err != nil {
		return fmt.Errorf("FORMFLOW_LANG: %w", err)
	}
	return nil
}

// Latencies returns the validator delays.
func (c *Config) Latencies() validation.Latencies {
	return validation.Latencies{FormA: c.FormALatency, FormB: c.FormBLatency}
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
