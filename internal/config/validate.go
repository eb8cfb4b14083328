package config

import (
	"errors"
	"fmt"
	"strconv"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("api.base_url is required")
	}

	if len(c.Watchlist.Symbols) == 0 {
		return errors.New("watchlist.symbols must not be empty")
	}
	if len(c.Watchlist.Fields) == 0 {
		return errors.New("watchlist.fields must not be empty")
	}
	for _, f := range c.Watchlist.Fields {
		if _, err := strconv.Atoi(f); err != nil {
			return fmt.Errorf("watchlist.fields: %q is not a numeric field code", f)
		}
	}

	if c.Snapshot.MaxAttempts < 1 {
		return errors.New("snapshot.max_attempts must be >= 1")
	}
	if c.Snapshot.Delay < 0 {
		return errors.New("snapshot.delay must not be negative")
	}

	if c.Cache.RefreshAttempts < 1 {
		return errors.New("cache.refresh_attempts must be >= 1")
	}
	if c.Cache.RefreshDelay < 0 {
		return errors.New("cache.refresh_delay must not be negative")
	}

	if c.History.Concurrency < 1 {
		return errors.New("history.concurrency must be >= 1")
	}

	if c.Metrics.Port < 1 || c.Metrics.Port > 65535 {
		return fmt.Errorf("metrics.port must be between 1 and 65535, got %d", c.Metrics.Port)
	}

	return nil
}
