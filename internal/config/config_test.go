package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	yaml := `
api:
  base_url: https://localhost:5001/v1/api
  timeout: 10s
watchlist:
  symbols: [SPY, QQQ]
  fields: ["31", "70", "71"]
snapshot:
  max_attempts: 5
  delay: 250ms
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.API.BaseURL != "https://localhost:5001/v1/api" {
		t.Errorf("API.BaseURL = %q, want %q", cfg.API.BaseURL, "https://localhost:5001/v1/api")
	}
	if cfg.API.Timeout != 10*time.Second {
		t.Errorf("API.Timeout = %v, want %v", cfg.API.Timeout, 10*time.Second)
	}
	if len(cfg.Watchlist.Symbols) != 2 || cfg.Watchlist.Symbols[0] != "SPY" {
		t.Errorf("Watchlist.Symbols = %v, want [SPY QQQ]", cfg.Watchlist.Symbols)
	}
	if cfg.Snapshot.MaxAttempts != 5 {
		t.Errorf("Snapshot.MaxAttempts = %d, want 5", cfg.Snapshot.MaxAttempts)
	}
	if cfg.Snapshot.Delay != 250*time.Millisecond {
		t.Errorf("Snapshot.Delay = %v, want 250ms", cfg.Snapshot.Delay)
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_GATEWAY_URL", "https://gw.internal:5000/v1/api")

	yaml := `
api:
  base_url: ${TEST_GATEWAY_URL}
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.API.BaseURL != "https://gw.internal:5000/v1/api" {
		t.Errorf("API.BaseURL = %q, env var not expanded", cfg.API.BaseURL)
	}
}

func TestLoadWithDefaults(t *testing.T) {
	path := writeTempFile(t, "api:\n  timeout: 5s\n")

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	if cfg.API.BaseURL != DefaultBaseURL {
		t.Errorf("API.BaseURL = %q, want default %q", cfg.API.BaseURL, DefaultBaseURL)
	}
	if cfg.API.Timeout != 5*time.Second {
		t.Errorf("API.Timeout = %v, explicit value overridden", cfg.API.Timeout)
	}
	if cfg.Snapshot.MaxAttempts != DefaultSnapshotAttempts {
		t.Errorf("Snapshot.MaxAttempts = %d, want %d", cfg.Snapshot.MaxAttempts, DefaultSnapshotAttempts)
	}
	if cfg.Snapshot.Delay != DefaultSnapshotDelay {
		t.Errorf("Snapshot.Delay = %v, want %v", cfg.Snapshot.Delay, DefaultSnapshotDelay)
	}
	if len(cfg.Watchlist.Symbols) != len(DefaultWatchlistSymbols) {
		t.Errorf("len(Watchlist.Symbols) = %d, want %d", len(cfg.Watchlist.Symbols), len(DefaultWatchlistSymbols))
	}
	if len(cfg.Watchlist.Fields) != len(DefaultFieldCodes) {
		t.Errorf("len(Watchlist.Fields) = %d, want %d", len(cfg.Watchlist.Fields), len(DefaultFieldCodes))
	}
	if cfg.Cache.RefreshAttempts != DefaultRefreshAttempts {
		t.Errorf("Cache.RefreshAttempts = %d, want %d", cfg.Cache.RefreshAttempts, DefaultRefreshAttempts)
	}
	if cfg.Metrics.Path != DefaultMetricsPath {
		t.Errorf("Metrics.Path = %q, want %q", cfg.Metrics.Path, DefaultMetricsPath)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"missing base url", func(c *Config) { c.API.BaseURL = "" }, true},
		{"empty symbols", func(c *Config) { c.Watchlist.Symbols = nil }, true},
		{"empty fields", func(c *Config) { c.Watchlist.Fields = nil }, true},
		{"non-numeric field code", func(c *Config) { c.Watchlist.Fields = []string{"31", "last"} }, true},
		{"zero attempts", func(c *Config) { c.Snapshot.MaxAttempts = 0 }, true},
		{"negative delay", func(c *Config) { c.Snapshot.Delay = -1 }, true},
		{"zero refresh attempts", func(c *Config) { c.Cache.RefreshAttempts = 0 }, true},
		{"zero history concurrency", func(c *Config) { c.History.Concurrency = 0 }, true},
		{"bad metrics port", func(c *Config) { c.Metrics.Port = 70000 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() err = %v, wantErr=%v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}
