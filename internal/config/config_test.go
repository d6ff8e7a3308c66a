package config

import (
	"strings"
	"testing"
	"time"
)

var allKeys = []string{
	"FORMFLOW_ADDR", "FORMFLOW_SESSION_LIMIT", "FORMFLOW_LOG_LEVEL", "FORMFLOW_LANG",
	"FORMFLOW_CATALOG", "FORMFLOW_REDIS_ADDR", "FORMFLOW_REDIS_PREFIX",
	"FORMFLOW_FORM_A_LATENCY", "FORMFLOW_FORM_B_LATENCY", "FORMFLOW_VALIDATION_LEASE",
}

func clearEnv(t *testing.T) {
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %s, want :8080", cfg.Addr)
	}
	if cfg.Lang != "en" {
		t.Errorf("Lang = %s, want en", cfg.Lang)
	}
	if cfg.FormALatency != 500*time.Millisecond {
		t.Errorf("FormALatency = %v, want 500ms", cfg.FormALatency)
	}
	if cfg.FormBLatency != time.Second {
		t.Errorf("FormBLatency = %v, want 1s", cfg.FormBLatency)
	}
	if cfg.RedisAddr != "" {
		t.Errorf("RedisAddr = %q, want empty", cfg.RedisAddr)
	}
	if cfg.RedisPrefix != "formflow:" {
		t.Errorf("RedisPrefix = %q, want formflow:", cfg.RedisPrefix)
	}
	if cfg.SessionLimit != 1000 {
		t.Errorf("SessionLimit = %d, want 1000", cfg.SessionLimit)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("FORMFLOW_ADDR", "127.0.0.1:9000")
	t.Setenv("FORMFLOW_LANG", "ja")
	t.Setenv("FORMFLOW_LOG_LEVEL", "debug")
	t.Setenv("FORMFLOW_FORM_A_LATENCY", "0s")
	t.Setenv("FORMFLOW_FORM_B_LATENCY", "250ms")
	t.Setenv("FORMFLOW_REDIS_ADDR", "localhost:6379")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Addr != "127.0.0.1:9000" {
		t.Errorf("Addr = %s", cfg.Addr)
	}
	if cfg.FormALatency != 0 {
		t.Errorf("FormALatency = %v, want 0", cfg.FormALatency)
	}
	if got := cfg.Latencies().FormB; got != 250*time.Millisecond {
		t.Errorf("Latencies().FormB = %v, want 250ms", got)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("RedisAddr = %s", cfg.RedisAddr)
	}
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("FORMFLOW_SESSION_LIMIT", "many")
	t.Setenv("FORMFLOW_FORM_B_LATENCY", "soon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.SessionLimit != 1000 || cfg.FormBLatency != time.Second {
		t.Errorf("expected defaults, got limit=%d latency=%v", cfg.SessionLimit, cfg.FormBLatency)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"negative latency", func(c *Config) { c.FormALatency = -time.Second }, "FORMFLOW_FORM_A_LATENCY"},
		{"zero limit", func(c *Config) { c.SessionLimit = 0 }, "FORMFLOW_SESSION_LIMIT"},
		{"zero lease", func(c *Config) { c.ValidationLease = 0 }, "FORMFLOW_VALIDATION_LEASE"},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, "FORMFLOW_LOG_LEVEL"},
		{"bad language", func(c *Config) { c.Lang = "not a tag" }, "FORMFLOW_LANG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() failed: %v", err)
			}
			tt.mutate(cfg)
			err = cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error mentioning %s", err, tt.wantErr)
			}
		})
	}
}
