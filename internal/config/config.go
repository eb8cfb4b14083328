package config

import "time"

// Config is the root configuration for the market-data core.
type Config struct {
	API       APIConfig       `yaml:"api"`
	Watchlist WatchlistConfig `yaml:"watchlist"`
	Snapshot  SnapshotConfig  `yaml:"snapshot"`
	Cache     CacheConfig     `yaml:"cache"`
	History   HistoryConfig   `yaml:"history"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// APIConfig holds Client Portal gateway settings.
type APIConfig struct {
	BaseURL            string        `yaml:"base_url"`
	Timeout            time.Duration `yaml:"timeout"`
	MaxRetries         int           `yaml:"max_retries"`
	RetryBackoff       time.Duration `yaml:"retry_backoff"`
	InsecureSkipVerify bool          `yaml:"insecure_skip_verify"` // local gateway self-signed cert
}

// WatchlistConfig holds the predefined instrument set kept warm in the cache.
type WatchlistConfig struct {
	Symbols []string `yaml:"symbols"`
	Fields  []string `yaml:"fields"` // numeric snapshot field codes
}

// SnapshotConfig holds the poll-until-valid settings.
type SnapshotConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	Delay       time.Duration `yaml:"delay"`
}

// CacheConfig holds the watchlist cache's outer populate-retry settings.
type CacheConfig struct {
	RefreshAttempts int           `yaml:"refresh_attempts"`
	RefreshDelay    time.Duration `yaml:"refresh_delay"`
}

// HistoryConfig holds historical-bar batch settings.
type HistoryConfig struct {
	Concurrency int    `yaml:"concurrency"`
	Bar         string `yaml:"bar"`
	Period      string `yaml:"period"`
	OutsideRTH  bool   `yaml:"outside_rth"`
}

// MetricsConfig holds Prometheus metrics settings.
type MetricsConfig struct {
	Port int    `yaml:"port"`
	Path string `yaml:"path"`
}
