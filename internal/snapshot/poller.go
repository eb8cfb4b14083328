package snapshot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/johnlam1968/ibkr-data/internal/api"
	"github.com/johnlam1968/ibkr-data/internal/fields"
	"github.com/johnlam1968/ibkr-data/internal/metrics"
	"github.com/johnlam1968/ibkr-data/internal/model"
)

// ErrNoData signals that every attempt completed without a valid snapshot.
// Distinct from a transport failure on the final attempt, which is returned
// as-is.
var ErrNoData = errors.New("no market data after retries")

// Client provides the single-shot snapshot call.
type Client interface {
	LiveSnapshot(ctx context.Context, conids []model.ConID, fieldCodes []string) ([]api.SnapshotEntry, error)
}

// Config holds poller configuration.
type Config struct {
	MaxAttempts int           // Attempt budget per Poll call (default: 10)
	Delay       time.Duration // Wait between attempts (default: 1s)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 10,
		Delay:       time.Second,
	}
}

// Poller repeatedly fetches a snapshot until it passes the validity check or
// the attempt budget runs out.
type Poller struct {
	cfg    Config
	client Client
	logger *slog.Logger
}

// New creates a Poller.
func New(cfg Config, client Client, logger *slog.Logger) *Poller {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultConfig().MaxAttempts
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		cfg:    cfg,
		client: client,
		logger: logger,
	}
}

// Poll fetches a snapshot for conids x fieldCodes, retrying with a fixed
// delay until the result passes Valid. Attempts run strictly one at a time;
// the wait between attempts is cancellable through ctx. On success the
// returned snapshot always satisfies Valid. Exhaustion returns ErrNoData; a
// transport failure on the final attempt is returned instead, so the two are
// distinguishable.
func (p *Poller) Poll(ctx context.Context, conids []model.ConID, fieldCodes []string) (model.Snapshot, error) {
	// Nothing to request: indistinguishable from symbols that never
	// resolved, and that distinction belongs to the caller.
	if len(conids) == 0 {
		metrics.PollOutcomes.WithLabelValues("no_data").Inc()
		return nil, fmt.Errorf("%w (empty contract set)", ErrNoData)
	}

	cycle := uuid.NewString()

	for attempt := 1; attempt <= p.cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(p.cfg.Delay):
			}
		}

		metrics.PollAttempts.Inc()

		entries, err := p.client.LiveSnapshot(ctx, conids, fieldCodes)
		if err != nil {
			if attempt == p.cfg.MaxAttempts {
				metrics.PollOutcomes.WithLabelValues("error").Inc()
				return nil, fmt.Errorf("snapshot attempt %d/%d: %w", attempt, p.cfg.MaxAttempts, err)
			}
			p.logger.Warn("snapshot attempt failed",
				"cycle", cycle,
				"attempt", attempt,
				"err", err,
			)
			continue
		}

		snap := p.build(entries)
		if Valid(snap) {
			metrics.PollOutcomes.WithLabelValues("valid").Inc()
			p.logger.Debug("snapshot valid",
				"cycle", cycle,
				"attempt", attempt,
				"instruments", len(snap),
			)
			return snap, nil
		}

		p.logger.Debug("snapshot not yet live",
			"cycle", cycle,
			"attempt", attempt,
			"entries", len(entries),
		)
	}

	metrics.PollOutcomes.WithLabelValues("no_data").Inc()
	p.logger.Warn("snapshot attempts exhausted",
		"cycle", cycle,
		"attempts", p.cfg.MaxAttempts,
	)
	return nil, fmt.Errorf("%w (%d attempts)", ErrNoData, p.cfg.MaxAttempts)
}

// build translates raw entries into a Snapshot. Field codes the catalog
// knows become semantic names; everything else passes through.
func (p *Poller) build(entries []api.SnapshotEntry) model.Snapshot {
	snap := make(model.Snapshot, len(entries))
	for _, entry := range entries {
		conid, err := entry.ConID()
		if err != nil {
			p.logger.Warn("skipping snapshot entry", "err", err)
			continue
		}
		translated := fields.Translate(map[string]any(entry))
		snap[conid] = model.TickFromFields(conid, translated)
	}
	return snap
}
