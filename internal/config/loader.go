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

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "spendsum.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// YAML file is optional; missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV. The YAML file is optional.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is validated by caller
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.Server.Port, "SPENDSUM_PORT")
	setString(&cfg.Server.CORSOrigin, "SPENDSUM_CORS_ORIGIN")
	setString(&cfg.Logging.Level, "SPENDSUM_LOG_LEVEL")
	setString(&cfg.Logging.Service, "SPENDSUM_LOG_SERVICE")
	setBool(&cfg.Logging.Async, "SPENDSUM_LOG_ASYNC")
	setInt(&cfg.Aggregator.MaxConcurrent, "SPENDSUM_AGG_MAX_CONCURRENT")
	setInt64(&cfg.Cache.MaxSizeMB, "SPENDSUM_CACHE_SIZE_MB")
	setDuration(&cfg.Cache.TTL, "SPENDSUM_CACHE_TTL")
	setInt(&cfg.Breaker.MaxFailures, "SPENDSUM_BREAKER_MAX_FAILURES")
	setDuration(&cfg.Breaker.Timeout, "SPENDSUM_BREAKER_TIMEOUT")
	setDuration(&cfg.HTTPClient.Timeout, "SPENDSUM_HTTP_TIMEOUT")
	setString(&cfg.Otel.Endpoint, "SPENDSUM_OTEL_ENDPOINT")

	// Per-provider base URL overrides, e.g. SPENDSUM_BASEURL_ANTHROPIC.
	for _, id := range []string{"anthropic", "openai", "google", "minimax", "mistral", "groq", "together", "replicate"} {
		if v := os.Getenv("SPENDSUM_BASEURL_" + strings.ToUpper(id)); v != "" {
			if cfg.Providers.BaseURLs == nil {
				cfg.Providers.BaseURLs = make(map[string]string)
			}
			cfg.Providers.BaseURLs[id] = v
		}
	}
}

// validate checks that required fields are set.
func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if cfg.Aggregator.MaxConcurrent < 1 {
		return errors.New("aggregator.max_concurrent must be >= 1")
	}
	if cfg.Breaker.MaxFailures < 1 {
		return errors.New("breaker.max_failures must be >= 1")
	}
	if cfg.Cache.TTL < 0 {
		return errors.New("cache.ttl must not be negative")
	}
	if cfg.HTTPClient.Timeout <= 0 {
		return errors.New("http_client.timeout must be positive")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
