// Package config loads gateway configuration from YAML with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigPath is the default config file location.
const ConfigPath = "config.yaml"

// FileConfig represents configuration loaded from YAML.
type FileConfig struct {
	Port     string `yaml:"port"`
	LogLevel string `yaml:"logLevel"`

	BackendBaseURL string `yaml:"backendBaseURL"`
	AllowedOrigin  string `yaml:"allowedOrigin"`

	RedisAddr     string `yaml:"redisAddr"`
	RedisPassword string `yaml:"redisPassword"`

	DatabaseDSN string `yaml:"databaseDSN"`

	MinioEndpoint  string `yaml:"minioEndpoint"`
	MinioAccessKey string `yaml:"minioAccessKey"`
	MinioSecretKey string `yaml:"minioSecretKey"`
	MinioBucket    string `yaml:"minioBucket"`
	MinioUseSSL    bool   `yaml:"minioUseSSL"`

	TrustedProxyCIDRs        []string `yaml:"trustedProxyCidrs"`
	VerifyRateLimitPerMinute int      `yaml:"verifyRateLimitPerMinute"`

	SessionTTL         string `yaml:"sessionTTL"`
	AssistantTimeout   string `yaml:"assistantTimeout"`
	MaxUploadBytes     int64  `yaml:"maxUploadBytes"`
	BackendHTTPTimeout string `yaml:"backendHTTPTimeout"`
}

// Load reads config from path (defaults to config.yaml) and applies
// NEETGENIE_* environment overrides.
func Load(path string) (FileConfig, error) {
	cfg := FileConfig{}
	if path == "" {
		path = ConfigPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if v := os.Getenv("NEETGENIE_PORT"); v != "" {
		cfg.Port = strings.TrimSpace(v)
	}
	if v := os.Getenv("NEETGENIE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.TrimSpace(v)
	}
	if v := os.Getenv("NEETGENIE_BACKEND_BASE_URL"); v != "" {
		cfg.BackendBaseURL = strings.TrimSpace(v)
	}
	if v := os.Getenv("NEETGENIE_ALLOWED_ORIGIN"); v != "" {
		cfg.AllowedOrigin = strings.TrimSpace(v)
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}
	if v := os.Getenv("NEETGENIE_DATABASE_DSN"); v != "" {
		cfg.DatabaseDSN = v
	}
	if v := os.Getenv("NEETGENIE_MINIO_ENDPOINT"); v != "" {
		cfg.MinioEndpoint = strings.TrimSpace(v)
	}
	if v := os.Getenv("NEETGENIE_MINIO_ACCESS_KEY"); v != "" {
		cfg.MinioAccessKey = v
	}
	if v := os.Getenv("NEETGENIE_MINIO_SECRET_KEY"); v != "" {
		cfg.MinioSecretKey = v
	}
	if v := os.Getenv("NEETGENIE_MINIO_BUCKET"); v != "" {
		cfg.MinioBucket = strings.TrimSpace(v)
	}
	if v := os.Getenv("NEETGENIE_MINIO_USE_SSL"); v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			cfg.MinioUseSSL = b
		}
	}
	if v := os.Getenv("NEETGENIE_TRUSTED_PROXY_CIDRS"); v != "" {
		cfg.TrustedProxyCIDRs = splitCSV(v)
	}
	if v := os.Getenv("NEETGENIE_VERIFY_RATE_LIMIT_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			cfg.VerifyRateLimitPerMinute = n
		}
	}
	if v := os.Getenv("NEETGENIE_SESSION_TTL"); v != "" {
		cfg.SessionTTL = strings.TrimSpace(v)
	}
	if v := os.Getenv("NEETGENIE_ASSISTANT_TIMEOUT"); v != "" {
		cfg.AssistantTimeout = strings.TrimSpace(v)
	}
	if v := os.Getenv("NEETGENIE_MAX_UPLOAD_BYTES"); v != "" {
		if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			cfg.MaxUploadBytes = n
		}
	}
	if v := os.Getenv("NEETGENIE_BACKEND_HTTP_TIMEOUT"); v != "" {
		cfg.BackendHTTPTimeout = strings.TrimSpace(v)
	}
	applyDefaults(&cfg)
	if err := validateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyDefaults(cfg *FileConfig) {
	if strings.TrimSpace(cfg.BackendBaseURL) == "" {
		cfg.BackendBaseURL = "http://localhost:8000"
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 50 << 20
	}
	if cfg.VerifyRateLimitPerMinute == 0 {
		cfg.VerifyRateLimitPerMinute = 30
	}
}

func validateConfig(cfg FileConfig) error {
	if cfg.Port == "" {
		return errors.New("config: port is required (set in config.yaml)")
	}
	if strings.TrimSpace(cfg.RedisAddr) == "" {
		return errors.New("config: redisAddr is required for sessions and rate limiting")
	}
	if cfg.VerifyRateLimitPerMinute < 0 {
		return errors.New("config: verifyRateLimitPerMinute must be >= 0")
	}
	if _, err := ParseDuration(cfg.SessionTTL); err != nil {
		return fmt.Errorf("config: invalid sessionTTL: %w", err)
	}
	if _, err := ParseDuration(cfg.AssistantTimeout); err != nil {
		return fmt.Errorf("config: invalid assistantTimeout: %w", err)
	}
	if _, err := ParseDuration(cfg.BackendHTTPTimeout); err != nil {
		return fmt.Errorf("config: invalid backendHTTPTimeout: %w", err)
	}
	return nil
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

// ParseDuration parses an optional duration string. Empty means zero,
// letting the consumer apply its own default.
func ParseDuration(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	dur, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if dur < 0 {
		return 0, errors.New("duration must be >= 0")
	}
	return dur, nil
}
