package resolve

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/johnlam1968/ibkr-data/internal/api"
	"github.com/johnlam1968/ibkr-data/internal/metrics"
	"github.com/johnlam1968/ibkr-data/internal/model"
)

// SearchClient provides the symbol-search call.
type SearchClient interface {
	SearchBySymbol(ctx context.Context, symbol string) ([]api.SearchResult, error)
}

// Resolution is the outcome of resolving one symbol. Err is nil iff the
// symbol resolved; ConID is only meaningful then.
type Resolution struct {
	Symbol string
	ConID  model.ConID
	Err    error
}

// Resolved reports whether the symbol produced a contract ID.
func (r Resolution) Resolved() bool { return r.Err == nil }

// Resolver resolves symbols via the search endpoint. Resolved conids are
// cached for the life of the process; the cache is mutex-guarded so
// concurrent callers never observe a partial write.
type Resolver struct {
	client SearchClient
	logger *slog.Logger

	mu    sync.Mutex
	cache map[string]model.ConID
}

// New creates a Resolver.
func New(client SearchClient, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		client: client,
		logger: logger,
		cache:  make(map[string]model.ConID),
	}
}

// Resolve maps each symbol to a contract ID, one Resolution per input symbol
// in input order. First search hit wins; per-symbol failures are recorded on
// the Resolution and logged, and the rest of the batch continues.
func (r *Resolver) Resolve(ctx context.Context, symbols []string) []Resolution {
	out := make([]Resolution, 0, len(symbols))

	for _, symbol := range symbols {
		res := Resolution{Symbol: symbol}

		if conid, ok := r.cached(symbol); ok {
			res.ConID = conid
			out = append(out, res)
			continue
		}

		conid, err := r.lookup(ctx, symbol)
		if err != nil {
			res.Err = err
			metrics.ResolveFailures.Inc()
			r.logger.Warn("symbol resolution failed",
				"symbol", symbol,
				"err", err,
			)
			out = append(out, res)
			continue
		}

		r.store(symbol, conid)
		res.ConID = conid
		out = append(out, res)
	}

	return out
}

// ConIDs is the compacted form of Resolve: resolved contract IDs only, in
// input order. The result may be shorter than symbols.
func (r *Resolver) ConIDs(ctx context.Context, symbols []string) []model.ConID {
	resolutions := r.Resolve(ctx, symbols)
	conids := make([]model.ConID, 0, len(resolutions))
	for _, res := range resolutions {
		if res.Resolved() {
			conids = append(conids, res.ConID)
		}
	}
	return conids
}

// Invalidate clears the conid cache; the next Resolve hits the gateway.
func (r *Resolver) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[string]model.ConID)
}

func (r *Resolver) lookup(ctx context.Context, symbol string) (model.ConID, error) {
	results, err := r.client.SearchBySymbol(ctx, symbol)
	if err != nil {
		return 0, fmt.Errorf("search %s: %w", symbol, err)
	}
	if len(results) == 0 {
		return 0, fmt.Errorf("no contract found for %s", symbol)
	}
	if results[0].ConID == 0 {
		return 0, fmt.Errorf("search result for %s has no conid", symbol)
	}
	return results[0].ConID, nil
}

func (r *Resolver) cached(symbol string) (model.ConID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conid, ok := r.cache[symbol]
	return conid, ok
}

func (r *Resolver) store(symbol string, conid model.ConID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache[symbol] = conid
}
