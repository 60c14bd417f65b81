package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Storage drivers understood by the snapshot repository.
const (
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config struct to hold the configuration settings
type Config struct {
	Storage       StorageConfig       `yaml:"storage" envPrefix:"GHOSTLOG_STORAGE_"`
	HTTP          HTTPConfig          `yaml:"http" envPrefix:"GHOSTLOG_HTTP_"`
	Logging       LoggingConfig       `yaml:"logging" envPrefix:"GHOSTLOG_LOG_"`
	Observability ObservabilityConfig `yaml:"observability" envPrefix:"GHOSTLOG_"`
}

// StorageConfig selects where the snapshot lives.
type StorageConfig struct {
	Driver string `yaml:"driver" env:"DRIVER"`
	// Dir is the data directory for the file and sqlite drivers.
	Dir string `yaml:"dir" env:"DIR"`
	// DSN is used by the postgres driver, and by sqlite when set.
	DSN string `yaml:"dsn" env:"DSN"`
	Key string `yaml:"key" env:"KEY"`
}

// HTTPConfig holds the local API settings.
type HTTPConfig struct {
	Addr           string   `yaml:"addr" env:"ADDR"`
	AllowedOrigins []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" envSeparator:","`
	RateLimit      float64  `yaml:"rate_limit" env:"RATE_LIMIT"`
	RateBurst      int      `yaml:"rate_burst" env:"RATE_BURST"`
}

// LoggingConfig holds slog settings.
type LoggingConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"` // text|json
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	MetricsEnabled bool   `yaml:"metrics_enabled" env:"METRICS_ENABLED"`
	ServiceName    string `yaml:"service_name" env:"SERVICE_NAME"`
	Environment    string `yaml:"environment" env:"ENV"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Driver: DriverSQLite,
			Dir:    "data",
			Key:    "ghostlog.snapshot",
		},
		HTTP: HTTPConfig{
			Addr:      "127.0.0.1:8787",
			RateLimit: 20,
			RateBurst: 40,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Observability: ObservabilityConfig{
			MetricsEnabled: true,
			ServiceName:    "ghostlog",
			Environment:    "local",
		},
	}
}

// LoadConfig loads the configuration from a YAML file.
// A missing file is not an error: defaults plus environment overrides are used instead.
func LoadConfig(filename string) (*Config, error) {
	cfg := Default()

	if filename != "" {
		data, err := os.ReadFile(filename)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to unmarshal config: %w", err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	// --- OVERRIDE WITH ENV VARS IF PRESENT ---
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate normalizes and checks the configuration.
func (c *Config) Validate() error {
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	switch c.Storage.Driver {
	case DriverFile, DriverSQLite, DriverMemory:
	case DriverPostgres:
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if strings.TrimSpace(c.Storage.Key) == "" {
		return fmt.Errorf("storage.key cannot be empty")
	}
	if c.HTTP.RateLimit < 0 || c.HTTP.RateBurst < 0 {
		return fmt.Errorf("http rate limit and burst must not be negative")
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Logging.Format)
	}
	return nil
}
