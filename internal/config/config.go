// Package config loads service configuration from environment variables.
// Registry and blob driver selection stay with their own factories; this
// package covers the HTTP server and ambient concerns.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the runtime parameters of the photo tracking service.
type Config struct {
	// HTTP listen port.
	Port int
	// Root directory of the photo tree.
	PhotoRoot string
	// How long a registry snapshot stays fresh before the next read
	// refreshes it from the backend.
	RegistryTTL time.Duration
	// Log level: debug, info, warn, error.
	LogLevel slog.Level
	// Log format: json or text.
	LogFormat string
	// Grace period for in-flight requests on shutdown.
	ShutdownTimeout time.Duration
}

// Load reads configuration from the process environment, applying defaults
// and validating values.
func Load() (*Config, error) {
	cfg := &Config{}

	port, err := getEnvInt("MOUSETRACK_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("MOUSETRACK_PORT: %w", err)
	}
	if port < 1 || port > 65535 {
		return nil, fmt.Errorf("MOUSETRACK_PORT: %d out of range", port)
	}
	cfg.Port = port

	cfg.PhotoRoot = getEnvDefault("MOUSETRACK_PHOTO_ROOT", "./photos")

	ttl, err := getEnvDuration("MOUSETRACK_REGISTRY_TTL", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("MOUSETRACK_REGISTRY_TTL: %w", err)
	}
	if ttl < 0 {
		return nil, fmt.Errorf("MOUSETRACK_REGISTRY_TTL: must not be negative")
	}
	cfg.RegistryTTL = ttl

	level, err := parseLogLevel(getEnvDefault("MOUSETRACK_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("MOUSETRACK_LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = level

	cfg.LogFormat = strings.ToLower(getEnvDefault("MOUSETRACK_LOG_FORMAT", "json"))
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("MOUSETRACK_LOG_FORMAT: %q not one of json, text", cfg.LogFormat)
	}

	shutdown, err := getEnvDuration("MOUSETRACK_SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("MOUSETRACK_SHUTDOWN_TIMEOUT: %w", err)
	}
	cfg.ShutdownTimeout = shutdown

	return cfg, nil
}

// SetupLogger builds the process logger from the configured level and
// format and installs it as the slog default.
func (c *Config) SetupLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	var handler slog.Handler
	if c.LogFormat == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%q not one of debug, info, warn, error", s)
	}
}

func getEnvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", v)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", v)
	}
	return d, nil
}
