// File path: internal/data/orchestrator/config.go
package orchestrator

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config controls the construction of the orchestrator.
type Config struct {
	SQLitePath       string
	IndexTimeout     time.Duration
	IndexConcurrency int
}

// DefaultConfig returns the baseline configuration used when no overrides are
// supplied.
func DefaultConfig() Config {
	return Config{
		SQLitePath:       filepath.Join("data", "menucard.db"),
		IndexTimeout:     2 * time.Minute,
		IndexConcurrency: 4,
	}
}

// LoadConfig builds a Config from defaults and environment variables.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	if value := strings.TrimSpace(os.Getenv("MENUCARD_DB_PATH")); value != "" {
		cfg.SQLitePath = value
	}
	if value := strings.TrimSpace(os.Getenv("MENUCARD_INDEX_TIMEOUT")); value != "" {
		dur, err := time.ParseDuration(value)
		if err != nil {
			return Config{}, fmt.Errorf("parse MENUCARD_INDEX_TIMEOUT: %w", err)
		}
		cfg.IndexTimeout = dur
	}
	if value := strings.TrimSpace(os.Getenv("MENUCARD_INDEX_CONCURRENCY")); value != "" {
		limit, err := strconv.Atoi(value)
		if err != nil {
			return Config{}, fmt.Errorf("parse MENUCARD_INDEX_CONCURRENCY: %w", err)
		}
		cfg.IndexConcurrency = limit
	}
	return applyDefaults(cfg), nil
}

func applyDefaults(cfg Config) Config {
	defaults := DefaultConfig()
	if strings.TrimSpace(cfg.SQLitePath) == "" {
		cfg.SQLitePath = defaults.SQLitePath
	}
	if cfg.IndexTimeout <= 0 {
		cfg.IndexTimeout = defaults.IndexTimeout
	}
	if cfg.IndexConcurrency <= 0 {
		cfg.IndexConcurrency = defaults.IndexConcurrency
	}
	return cfg
}

func (c Config) validate() error {
	if strings.TrimSpace(c.SQLitePath) == "" {
		return fmt.Errorf("sqlite path required")
	}
	if c.IndexTimeout <= 0 {
		return fmt.Errorf("index timeout must be positive")
	}
	if c.IndexConcurrency <= 0 {
		return fmt.Errorf("index concurrency must be positive")
	}
	return nil
}
