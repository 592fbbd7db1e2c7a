// Package config contains everything related to configuration
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/models"
)

// Config holds the application configuration.
type Config struct {
	APIBaseURL       string
	SessionPath      string
	CacheDBPath      string
	LogPath          string
	RefreshInterval  time.Duration
	ProbeInterval    time.Duration
	RequestTimeout   time.Duration
	DefaultTimeRange models.TimeRange
	Debug            bool
}

// Default values
const (
	defaultRefreshInterval = 60 * time.Second
	defaultProbeInterval   = 15 * time.Second
	defaultRequestTimeout  = 30 * time.Second
)

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	// Try loading .env from multiple locations
	envPaths := getEnvPaths()
	for _, path := range envPaths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	cfg := &Config{
		APIBaseURL:      getEnvString("API_BASE_URL", ""),
		SessionPath:     getEnvString("SESSION_PATH", getDefaultSessionPath()),
		CacheDBPath:     getEnvString("CACHE_DB_PATH", getDefaultCachePath()),
		LogPath:         getEnvString("LOG_PATH", getDefaultLogPath()),
		RefreshInterval: getEnvDuration("REFRESH_INTERVAL", defaultRefreshInterval),
		ProbeInterval:   getEnvDuration("PROBE_INTERVAL", defaultProbeInterval),
		RequestTimeout:  getEnvDuration("REQUEST_TIMEOUT", defaultRequestTimeout),
		Debug:           getEnvBool("DEBUG", false),
	}

	cfg.DefaultTimeRange = models.TimeRangeWeek
	if raw := os.Getenv("TIME_RANGE"); raw != "" {
		tr, err := models.ParseTimeRange(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid TIME_RANGE: %w", err)
		}
		cfg.DefaultTimeRange = tr
	}

	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("API_BASE_URL is required (set via env or .env file)")
	}
	if _, err := url.ParseRequestURI(cfg.APIBaseURL); err != nil {
		return nil, fmt.Errorf("invalid API_BASE_URL: %w", err)
	}

	// Ensure cache directory exists
	if err := ensureDir(filepath.Dir(cfg.CacheDBPath)); err != nil {
		return nil, err
	}

	// Ensure log directory exists
	if err := ensureDir(filepath.Dir(cfg.LogPath)); err != nil {
		return nil, err
	}

	return cfg, nil
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	// Home directory locations
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "advancedrag", "tui", ".env"),
			filepath.Join(home, ".config", "advancedrag", ".env"),
			filepath.Join(home, ".advancedrag", ".env"),
		)
	}

	return paths
}

// getDefaultSessionPath returns the default path for the session file
// written by the web login flow.
func getDefaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "session.json"
	}
	return filepath.Join(home, ".config", "advancedrag", "session.json")
}

// getDefaultCachePath returns the default path for the SQLite cache.
func getDefaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "dashboard-cache.db"
	}
	return filepath.Join(home, ".config", "advancedrag", "tui", "dashboard-cache.db")
}

// getDefaultLogPath returns the default path for the log file.
func getDefaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "ardt.log"
	}
	return filepath.Join(home, ".config", "advancedrag", "tui", "ardt.log")
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "500ms".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as seconds if no unit specified
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns the default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
