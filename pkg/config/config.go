// Package config provides environment-based configuration for the dashboard.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all configuration for the dashboard server.
type Config struct {
	// Server configuration
	Host string
	Port int

	// Env is "development" or "production". In production mode the server
	// additionally serves built client assets from StaticDir when present.
	Env       string
	StaticDir string

	// WorkspaceDir is the root containing agents/, workflows/, tasks/,
	// tools/, config/ and (by default) logs/.
	WorkspaceDir string

	// LogDir is the directory watched for *.log / *.json log files.
	LogDir string

	// TailBacklog controls the startup policy for files already present in
	// LogDir: true replays their content from offset 0 once, false starts
	// tailing from the current end of file.
	TailBacklog bool

	// TailDebounce is the settle window applied to file-change events so a
	// file is not read mid-write.
	TailDebounce time.Duration

	// HistoryLimit caps the hub's in-memory ring of recent records.
	HistoryLimit int

	// Logging
	LogLevel  string
	LogFormat string

	// Graceful shutdown timeout
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	workspace := getEnv("WORKSPACE_DIR", ".")

	cfg := &Config{
		Host:            getEnv("DASHBOARD_HOST", "0.0.0.0"),
		Port:            getIntEnv("DASHBOARD_PORT", 3001),
		Env:             getEnv("ENV", "development"),
		StaticDir:       getEnv("STATIC_DIR", filepath.Join(workspace, "web", "dist")),
		WorkspaceDir:    workspace,
		LogDir:          getEnv("LOG_DIR", filepath.Join(workspace, "logs")),
		TailBacklog:     getBoolEnv("TAIL_BACKLOG", true),
		TailDebounce:    getDurationEnv("TAIL_DEBOUNCE", 500*time.Millisecond),
		HistoryLimit:    getIntEnv("HISTORY_LIMIT", 1000),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "text"),
		ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that configuration values are usable.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("DASHBOARD_PORT must be between 1 and 65535, got %d", c.Port)
	}
	if c.Env != "development" && c.Env != "production" {
		return fmt.Errorf("ENV must be \"development\" or \"production\", got %q", c.Env)
	}
	if c.TailDebounce < 0 {
		return fmt.Errorf("TAIL_DEBOUNCE must not be negative")
	}
	if c.HistoryLimit < 1 {
		return fmt.Errorf("HISTORY_LIMIT must be at least 1, got %d", c.HistoryLimit)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
