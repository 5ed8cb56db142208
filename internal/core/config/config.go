package config

import "time"

// AppConfig represents the top-level configuration.
type AppConfig struct {
	// Root is the state directory; cache/ and logs/ live beneath it.
	Root    string        `yaml:"root"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Cache   CacheConfig   `yaml:"cache"`
	Retry   RetryConfig   `yaml:"retry"`
	Tracker TrackerConfig `yaml:"tracker"`
}

// ServerConfig holds health/metrics HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// CacheConfig holds result cache settings.
type CacheConfig struct {
	TTL time.Duration `yaml:"ttl"`
	// Operations restricts write-through caching to the listed tool
	// names. Empty means every successful call is cached.
	Operations []string `yaml:"operations"`
}

// RetryConfig holds retry pacing settings.
type RetryConfig struct {
	MaxAttempts int             `yaml:"max_attempts"`
	Backoff     []time.Duration `yaml:"backoff"`
}

// TrackerConfig holds failure alerting settings.
type TrackerConfig struct {
	Window    time.Duration `yaml:"window"`
	Threshold int           `yaml:"threshold"`
	Cooldown  time.Duration `yaml:"cooldown"`
}
