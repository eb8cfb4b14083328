package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultBaseURL            = "https://localhost:5000/v1/api"
	DefaultAPITimeout         = 30 * time.Second
	DefaultMaxRetries         = 3
	DefaultRetryBackoff       = 1 * time.Second
	DefaultSnapshotAttempts   = 10
	DefaultSnapshotDelay      = 1 * time.Second
	DefaultRefreshAttempts    = 3
	DefaultRefreshDelay       = 500 * time.Millisecond
	DefaultHistoryConcurrency = 4
	DefaultHistoryBar         = "1d"
	DefaultHistoryPeriod      = "1m"
	DefaultMetricsPort        = 9090
	DefaultMetricsPath        = "/metrics"
)

// DefaultWatchlistSymbols is the predefined instrument set: volatility
// complex, index ETFs, rates, metals, and the micro futures used as
// around-the-clock proxies.
var DefaultWatchlistSymbols = []string{
	"VVIX", "VIX", "VXM", "MBT", "MES", "MCL", "MGC",
	"USD.JPY", "SPX", "SPY", "RSP", "DIA", "QQQ", "IWM",
	"HSI", "FXI", "XINA50", "N225", "XAGUSD", "DX",
	"FVX", "TNX", "TYX",
	"VOLI", "SDEX", "TDEX",
	"VIX1D", "VIX9D", "VIX3M", "VIX6M", "VIX1Y",
}

// DefaultFieldCodes are the snapshot field codes requested when a caller
// supplies none.
var DefaultFieldCodes = []string{
	"55", "7051", "7635", "31", "70", "71", "7295", "7741",
	"7293", "7294", "7681", "7724", "7679", "7678", "7283", "7087",
}

func (c *Config) applyDefaults() {
	// API defaults
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}
	if c.API.MaxRetries == 0 {
		c.API.MaxRetries = DefaultMaxRetries
	}
	if c.API.RetryBackoff == 0 {
		c.API.RetryBackoff = DefaultRetryBackoff
	}

	// Watchlist defaults
	if len(c.Watchlist.Symbols) == 0 {
		c.Watchlist.Symbols = append([]string(nil), DefaultWatchlistSymbols...)
	}
	if len(c.Watchlist.Fields) == 0 {
		c.Watchlist.Fields = append([]string(nil), DefaultFieldCodes...)
	}

	// Snapshot poller defaults
	if c.Snapshot.MaxAttempts == 0 {
		c.Snapshot.MaxAttempts = DefaultSnapshotAttempts
	}
	if c.Snapshot.Delay == 0 {
		c.Snapshot.Delay = DefaultSnapshotDelay
	}

	// Cache defaults
	if c.Cache.RefreshAttempts == 0 {
		c.Cache.RefreshAttempts = DefaultRefreshAttempts
	}
	if c.Cache.RefreshDelay == 0 {
		c.Cache.RefreshDelay = DefaultRefreshDelay
	}

	// History defaults
	if c.History.Concurrency == 0 {
		c.History.Concurrency = DefaultHistoryConcurrency
	}
	if c.History.Bar == "" {
		c.History.Bar = DefaultHistoryBar
	}
	if c.History.Period == "" {
		c.History.Period = DefaultHistoryPeriod
	}

	// Metrics defaults
	if c.Metrics.Port == 0 {
		c.Metrics.Port = DefaultMetricsPort
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
}
