package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadEnvOverridesAndDefaults(t *testing.T) {
	t.Setenv("NEETGENIE_BACKEND_BASE_URL", "http://backend.internal:9000")
	t.Setenv("NEETGENIE_VERIFY_RATE_LIMIT_PER_MINUTE", "5")
	t.Setenv("NEETGENIE_MAX_UPLOAD_BYTES", "1048576")
	t.Setenv("NEETGENIE_SESSION_TTL", "45m")

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	content := `
port: "8080"
logLevel: "info"
redisAddr: "localhost:6379"
databaseDSN: "host=localhost user=neetgenie dbname=neetgenie sslmode=disable"
`
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.BackendBaseURL != "http://backend.internal:9000" {
		t.Fatalf("backendBaseURL = %q, want env override", cfg.BackendBaseURL)
	}
	if cfg.VerifyRateLimitPerMinute != 5 {
		t.Fatalf("verifyRateLimitPerMinute = %d, want 5", cfg.VerifyRateLimitPerMinute)
	}
	if cfg.MaxUploadBytes != 1048576 {
		t.Fatalf("maxUploadBytes = %d, want 1048576", cfg.MaxUploadBytes)
	}
	if cfg.SessionTTL != "45m" {
		t.Fatalf("sessionTTL = %q, want 45m", cfg.SessionTTL)
	}
}

func TestLoadDefaultBackendBaseURL(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	content := `
port: "8080"
redisAddr: "localhost:6379"
`
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.BackendBaseURL != "http://localhost:8000" {
		t.Fatalf("backendBaseURL = %q, want default http://localhost:8000", cfg.BackendBaseURL)
	}
	if cfg.MaxUploadBytes != 50<<20 {
		t.Fatalf("maxUploadBytes = %d, want default 50MiB", cfg.MaxUploadBytes)
	}
}

func TestValidateConfigRejectsMissingRedis(t *testing.T) {
	cfg := FileConfig{Port: "8080"}
	if err := validateConfig(cfg); err == nil {
		t.Fatalf("validateConfig() expected error for missing redisAddr")
	}
}

func TestValidateConfigRejectsBadDurations(t *testing.T) {
	cfg := FileConfig{
		Port:             "8080",
		RedisAddr:        "localhost:6379",
		AssistantTimeout: "soon",
	}
	if err := validateConfig(cfg); err == nil {
		t.Fatalf("validateConfig() expected error for invalid assistantTimeout")
	}
}

func TestParseDuration(t *testing.T) {
	if d, err := ParseDuration(""); err != nil || d != 0 {
		t.Fatalf("ParseDuration(\"\") = %v, %v, want 0, nil", d, err)
	}
	if d, err := ParseDuration("30s"); err != nil || d != 30*time.Second {
		t.Fatalf("ParseDuration(30s) = %v, %v", d, err)
	}
	if _, err := ParseDuration("-5s"); err == nil {
		t.Fatalf("ParseDuration(-5s) should fail")
	}
}
