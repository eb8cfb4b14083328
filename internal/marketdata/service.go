package marketdata

import (
	"context"
	"log/slog"

	"github.com/johnlam1968/ibkr-data/internal/history"
	"github.com/johnlam1968/ibkr-data/internal/model"
	"github.com/johnlam1968/ibkr-data/internal/resolve"
	"github.com/johnlam1968/ibkr-data/internal/sanitize"
)

// Resolver maps ticker symbols to contract IDs.
type Resolver interface {
	Resolve(ctx context.Context, symbols []string) []resolve.Resolution
}

// Poller fetches a validated snapshot for a set of conids.
type Poller interface {
	Poll(ctx context.Context, conids []model.ConID, fieldCodes []string) (model.Snapshot, error)
}

// WatchlistCache serves the process-wide watchlist snapshot.
type WatchlistCache interface {
	Get(ctx context.Context, forceRefresh bool) (model.Snapshot, error)
}

// HistoryFetcher fetches historical bars for a batch of contracts.
type HistoryFetcher interface {
	Fetch(ctx context.Context, reqs []history.Request) []history.Result
}

// Service wires the resolver, poller, watchlist cache and history
// fetcher behind JSON-producing operations.
type Service struct {
	resolver Resolver
	poller   Poller
	cache    WatchlistCache
	fetcher  HistoryFetcher
	logger   *slog.Logger
}

// New creates a Service. Any component a caller does not need may be
// nil as long as the corresponding operations are never invoked.
func New(resolver Resolver, poller Poller, cache WatchlistCache, fetcher HistoryFetcher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		resolver: resolver,
		poller:   poller,
		cache:    cache,
		fetcher:  fetcher,
		logger:   logger,
	}
}

// MarketData polls a snapshot for the given conids and renders it as a
// JSON object keyed by conid, with gateway metadata stripped.
func (s *Service) MarketData(ctx context.Context, conids []model.ConID, fieldCodes []string) []byte {
	snap, err := s.poller.Poll(ctx, conids, fieldCodes)
	if err != nil {
		s.logger.Error("market data poll failed", "conids", len(conids), "err", err)
		return errorJSON(err)
	}
	return encodeSnapshot(snap)
}

// MarketDataBySymbols resolves the symbols first and polls the conids
// that resolved. The payload is keyed by conid; symbols that failed to
// resolve are reported under a separate "unresolved" key so the two
// namespaces never mix.
func (s *Service) MarketDataBySymbols(ctx context.Context, symbols []string, fieldCodes []string) []byte {
	conids, unresolved := s.resolveSymbols(ctx, symbols)
	if len(conids) == 0 {
		return errorMessageJSON("no symbols resolved")
	}

	snap, err := s.poller.Poll(ctx, conids, fieldCodes)
	if err != nil {
		s.logger.Error("market data poll failed", "symbols", symbols, "err", err)
		return errorJSON(err)
	}

	entries := sanitize.StripMetadata(snap.Entries(), nil)
	out := make(map[string]any, len(entries)+1)
	for conid, entry := range entries {
		out[conid] = entry
	}
	if len(unresolved) > 0 {
		out["unresolved"] = unresolved
	}
	return encode(out)
}

// Watchlist returns the cached watchlist snapshot, populating or
// refreshing it as needed.
func (s *Service) Watchlist(ctx context.Context, forceRefresh bool) []byte {
	snap, err := s.cache.Get(ctx, forceRefresh)
	if err != nil {
		s.logger.Error("watchlist fetch failed", "force_refresh", forceRefresh, "err", err)
		return errorJSON(err)
	}
	return encodeSnapshot(snap)
}

// History fetches historical bars for each request and renders a JSON
// object keyed by conid. A failed contract carries an "error" key; the
// rest of the batch is unaffected.
func (s *Service) History(ctx context.Context, reqs []history.Request) []byte {
	results := s.fetcher.Fetch(ctx, reqs)
	return encode(historyPayload(results))
}

// HistoryBySymbols resolves the symbols first and fetches bars for the
// conids that resolved, carrying tmpl's bar/period/exchange settings
// into every request. The payload is keyed by conid, with symbols that
// failed to resolve under "unresolved", like MarketDataBySymbols.
func (s *Service) HistoryBySymbols(ctx context.Context, symbols []string, tmpl history.Request) []byte {
	conids, unresolved := s.resolveSymbols(ctx, symbols)
	if len(conids) == 0 {
		return errorMessageJSON("no symbols resolved")
	}

	reqs := make([]history.Request, len(conids))
	for i, conid := range conids {
		reqs[i] = tmpl
		reqs[i].ConID = conid
	}

	results := s.fetcher.Fetch(ctx, reqs)
	out := historyPayload(results)
	if len(unresolved) > 0 {
		out["unresolved"] = unresolved
	}
	return encode(out)
}

// resolveSymbols splits a symbol batch into resolved conids (input
// order) and a symbol-keyed map of resolution errors.
func (s *Service) resolveSymbols(ctx context.Context, symbols []string) ([]model.ConID, map[string]any) {
	resolutions := s.resolver.Resolve(ctx, symbols)

	conids := make([]model.ConID, 0, len(resolutions))
	unresolved := make(map[string]any)
	for _, res := range resolutions {
		if res.Resolved() {
			conids = append(conids, res.ConID)
			continue
		}
		unresolved[res.Symbol] = map[string]any{"error": res.Err.Error()}
	}
	return conids, unresolved
}

func historyPayload(results []history.Result) map[string]any {
	out := make(map[string]any, len(results))
	for _, res := range results {
		key := res.ConID.String()
		if res.Err != nil {
			out[key] = map[string]any{"error": res.Err.Error()}
			continue
		}
		bars := make([]map[string]any, 0, len(res.Bars))
		for _, b := range res.Bars {
			bars = append(bars, map[string]any{
				"time":   b.Time,
				"open":   b.Open,
				"high":   b.High,
				"low":    b.Low,
				"close":  b.Close,
				"volume": b.Volume,
			})
		}
		out[key] = map[string]any{
			"symbol": res.Symbol,
			"bars":   bars,
		}
	}
	return out
}

func encodeSnapshot(snap model.Snapshot) []byte {
	return encode(sanitize.StripMetadata(snap.Entries(), nil))
}

func encode(v any) []byte {
	data, err := sanitize.Encode(v)
	if err != nil {
		// sanitize.Value makes this unreachable for map-shaped input,
		// but a malformed payload must still come out as JSON.
		return []byte(`{"error":"failed to encode response"}`)
	}
	return data
}

func errorJSON(err error) []byte {
	return errorMessageJSON(err.Error())
}

func errorMessageJSON(msg string) []byte {
	return encode(map[string]any{"error": msg})
}
