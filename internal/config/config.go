package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const configFileEnv = "PARKING_CONFIG_FILE"

type Config struct {
	Mode            string        `yaml:"mode"`
	Port            string        `yaml:"port"`
	Capacity        int           `yaml:"capacity"`
	OTelServiceName string        `yaml:"service_name"`
	OTelEndpoint    string        `yaml:"otlp_endpoint"`
	Environment     string        `yaml:"environment"`
	LogLevel        string        `yaml:"log_level"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

func defaults() *Config {
	return &Config{
		Mode:            "cli",
		Port:            "8080",
		OTelServiceName: "parking-allocator",
		OTelEndpoint:    "http://localhost:4318",
		Environment:     "development",
		LogLevel:        "info",
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load resolves configuration from defaults, then the YAML file named by
// PARKING_CONFIG_FILE, then environment variables. A Capacity of 0 means no
// lot is created at startup.
func Load() (*Config, error) {
	cfg := defaults()

	if path, ok := os.LookupEnv(configFileEnv); ok && path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	cfg.Mode = envOr("APP_MODE", cfg.Mode)
	cfg.Port = envOr("APP_PORT", cfg.Port)
	cfg.Capacity = envOrInt("PARKING_CAPACITY", cfg.Capacity)
	cfg.OTelServiceName = envOr("OTEL_SERVICE_NAME", cfg.OTelServiceName)
	cfg.OTelEndpoint = envOr("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OTelEndpoint)
	cfg.Environment = envOr("SCOUT_ENVIRONMENT", cfg.Environment)
	cfg.LogLevel = envOr("LOG_LEVEL", cfg.LogLevel)
	if _, ok := os.LookupEnv("SHUTDOWN_TIMEOUT_SECONDS"); ok {
		cfg.ShutdownTimeout = time.Duration(envOrInt("SHUTDOWN_TIMEOUT_SECONDS", int(cfg.ShutdownTimeout/time.Second))) * time.Second
	}

	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func envOrInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
