package watchlist

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/johnlam1968/ibkr-data/internal/metrics"
	"github.com/johnlam1968/ibkr-data/internal/model"
)

// Resolver supplies contract IDs for the configured symbols.
type Resolver interface {
	ConIDs(ctx context.Context, symbols []string) []model.ConID
}

// Poller fetches a validated snapshot.
type Poller interface {
	Poll(ctx context.Context, conids []model.ConID, fieldCodes []string) (model.Snapshot, error)
}

// Config holds watchlist cache configuration.
type Config struct {
	Symbols []string
	Fields  []string // numeric snapshot field codes

	// Outer retry loop around the poller's own attempt budget. Conid
	// resolution is cached lazily on first use and can race with
	// instrument availability right after gateway start; each outer
	// attempt re-runs resolution plus a full poll.
	RefreshAttempts int
	RefreshDelay    time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		RefreshAttempts: 3,
		RefreshDelay:    500 * time.Millisecond,
	}
}

// Cache holds the latest validated watchlist snapshot. A single mutex guards
// the whole read-check-populate-write sequence, so concurrent readers never
// trigger overlapping populate cycles.
type Cache struct {
	cfg      Config
	resolver Resolver
	poller   Poller
	logger   *slog.Logger

	mu          sync.Mutex
	snap        model.Snapshot
	populatedAt time.Time
}

// New creates a Cache.
func New(cfg Config, resolver Resolver, poller Poller, logger *slog.Logger) *Cache {
	if cfg.RefreshAttempts <= 0 {
		cfg.RefreshAttempts = DefaultConfig().RefreshAttempts
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		cfg:      cfg,
		resolver: resolver,
		poller:   poller,
		logger:   logger,
	}
}

// Get returns the cached snapshot, populating it first when the cache is
// empty or forceRefresh is set. A populate that fails after all retries
// returns the last error and leaves the cache empty; the previous value is
// discarded rather than served stale.
func (c *Cache) Get(ctx context.Context, forceRefresh bool) (model.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !forceRefresh && c.snap != nil {
		metrics.CacheReads.WithLabelValues("hit").Inc()
		return c.snap, nil
	}

	metrics.CacheReads.WithLabelValues("populate").Inc()

	snap, err := c.populate(ctx)
	if err != nil {
		// Freshness over staleness: never keep a value a refresh
		// could not reproduce.
		c.snap = nil
		c.populatedAt = time.Time{}
		metrics.CacheReads.WithLabelValues("empty").Inc()
		return nil, err
	}

	c.snap = snap
	c.populatedAt = time.Now()
	return snap, nil
}

// PopulatedAt returns when the current value was stored, zero when empty.
func (c *Cache) PopulatedAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.populatedAt
}

func (c *Cache) populate(ctx context.Context) (model.Snapshot, error) {
	cycle := uuid.NewString()

	var lastErr error
	for attempt := 1; attempt <= c.cfg.RefreshAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.cfg.RefreshDelay):
			}
		}

		conids := c.resolver.ConIDs(ctx, c.cfg.Symbols)
		snap, err := c.poller.Poll(ctx, conids, c.cfg.Fields)
		if err == nil {
			c.logger.Info("watchlist populated",
				"cycle", cycle,
				"attempt", attempt,
				"instruments", len(snap),
			)
			return snap, nil
		}

		lastErr = err
		c.logger.Warn("watchlist populate attempt failed",
			"cycle", cycle,
			"attempt", attempt,
			"err", err,
		)
	}

	return nil, lastErr
}
