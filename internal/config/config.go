// Package config resolves skytune settings from defaults, a TOML file,
// a .env file and the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	DefaultServiceURL = "https://public.api.bsky.app"
	DefaultPageSize   = 30
	MaxPageSize       = 100
)

// Config holds resolved settings.
type Config struct {
	Dir         string `toml:"-"`
	ServiceURL  string `toml:"service_url"`
	AccessToken string `toml:"access_token"` // #nosec G117 -- read from user config, never logged
	PageSize    int    `toml:"page_size"`
	LogLevel    string `toml:"log_level"`
	LogFile     string `toml:"log_file"`
}

// Dir returns the configuration directory path.
func Dir() string {
	if dir := os.Getenv("SKYTUNE_CONFIG_DIR"); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "skytune")
}

// Load resolves the configuration. A missing config.toml or .env is not
// an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{
		Dir:        Dir(),
		ServiceURL: DefaultServiceURL,
		PageSize:   DefaultPageSize,
		LogLevel:   "warn",
	}

	path := filepath.Join(cfg.Dir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	cfg.PageSize = clampPageSize(cfg.PageSize)
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("SKYTUNE_SERVICE_URL"); v != "" {
		c.ServiceURL = v
	}
	if v := os.Getenv("SKYTUNE_ACCESS_TOKEN"); v != "" {
		c.AccessToken = v
	}
	if v := os.Getenv("SKYTUNE_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("SKYTUNE_LOG_FILE"); v != "" {
		c.LogFile = v
	}
	if v := os.Getenv("SKYTUNE_PAGE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid SKYTUNE_PAGE_SIZE %q: %w", v, err)
		}
		c.PageSize = n
	}
	return nil
}

func clampPageSize(n int) int {
	switch {
	case n < 1:
		return 1
	case n > MaxPageSize:
		return MaxPageSize
	default:
		return n
	}
}
