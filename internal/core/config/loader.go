package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v2"
)

// Default returns the configuration used when no config file is present.
func Default() *AppConfig {
	cfg := &AppConfig{}
	applyDefaults(cfg)
	return cfg
}

// Load reads configuration from a YAML file. A missing file is not an
// error: the hook must keep working with defaults on a fresh install.
func Load(path string) (*AppConfig, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AppConfig
	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		cfg.Root = filepath.Join(home, ".nsip-plugin")
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 60 * time.Minute
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry.MaxAttempts = 3
	}
	if len(cfg.Retry.Backoff) == 0 {
		cfg.Retry.Backoff = []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
	}
	if cfg.Tracker.Window == 0 {
		cfg.Tracker.Window = 5 * time.Minute
	}
	if cfg.Tracker.Threshold == 0 {
		cfg.Tracker.Threshold = 3
	}
	if cfg.Tracker.Cooldown == 0 {
		cfg.Tracker.Cooldown = 10 * time.Minute
	}
}

// CacheDir returns the cache directory beneath the state root.
func (c *AppConfig) CacheDir() string {
	return filepath.Join(c.Root, "cache")
}

// LogDir returns the log directory beneath the state root.
func (c *AppConfig) LogDir() string {
	return filepath.Join(c.Root, "logs")
}
