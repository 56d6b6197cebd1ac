// Package config provides hierarchical configuration loading for spendsum.
// Precedence: defaults < YAML file < environment variables.
package config

import "time"

// Config holds all runtime configuration for the spendsum service.
type Config struct {
	Server     Server     `yaml:"server"`
	Logging    Logging    `yaml:"logging"`
	Aggregator Aggregator `yaml:"aggregator"`
	Cache      Cache      `yaml:"cache"`
	Breaker    Breaker    `yaml:"breaker"`
	HTTPClient HTTPClient `yaml:"http_client"`
	Otel       Otel       `yaml:"otel"`
	Providers  Providers  `yaml:"providers"`
}

// Server holds HTTP server configuration.
type Server struct {
	Port       string `yaml:"port"`
	CORSOrigin string `yaml:"cors_origin"`
}

// Logging holds structured logging configuration.
type Logging struct {
	Level   string `yaml:"level"`
	Service string `yaml:"service"`
	Async   bool   `yaml:"async"`
}

// Aggregator bounds the fan-out to provider usage APIs.
type Aggregator struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

// Cache holds the in-process usage result cache configuration.
// A TTL of 0 disables caching entirely.
type Cache struct {
	MaxSizeMB int64         `yaml:"max_size_mb"`
	TTL       time.Duration `yaml:"ttl"`
}

// Breaker holds circuit breaker configuration, applied per provider.
type Breaker struct {
	MaxFailures int           `yaml:"max_failures"`
	Timeout     time.Duration `yaml:"timeout"`
}

// HTTPClient holds the outbound HTTP client configuration shared by all
// provider adapters.
type HTTPClient struct {
	Timeout time.Duration `yaml:"timeout"`
}

// Otel holds OpenTelemetry exporter configuration. An empty endpoint
// disables export.
type Otel struct {
	Endpoint string `yaml:"endpoint"`
}

// Providers holds per-provider overrides, keyed by provider id. Base URL
// overrides exist for staging environments and tests.
type Providers struct {
	BaseURLs map[string]string `yaml:"base_urls"`
}

// Defaults returns a Config with sensible default values for local development.
func Defaults() Config {
	return Config{
		Server: Server{
			Port:       "8080",
			CORSOrigin: "http://localhost:3000",
		},
		Logging: Logging{
			Level:   "info",
			Service: "spendsum",
		},
		Aggregator: Aggregator{
			MaxConcurrent: 8,
		},
		Cache: Cache{
			MaxSizeMB: 32,
			TTL:       5 * time.Minute,
		},
		Breaker: Breaker{
			MaxFailures: 5,
			Timeout:     30 * time.Second,
		},
		HTTPClient: HTTPClient{
			Timeout: 15 * time.Second,
		},
	}
}
