package history

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/johnlam1968/ibkr-data/internal/api"
	"github.com/johnlam1968/ibkr-data/internal/model"
)

// Client provides the historical-bar call.
type Client interface {
	History(ctx context.Context, opts api.HistoryOptions) (*api.HistoryResponse, error)
}

// Request describes one contract's bar fetch.
type Request struct {
	ConID      model.ConID
	Bar        string
	Period     string
	Exchange   string
	OutsideRTH bool
}

// Result is the outcome for one contract. Err is nil iff bars were fetched.
type Result struct {
	ConID  model.ConID
	Symbol string
	Bars   []model.Bar
	Err    error
}

// Fetcher runs batched history requests with bounded concurrency.
type Fetcher struct {
	client      Client
	concurrency int
	logger      *slog.Logger
}

// New creates a Fetcher. concurrency <= 0 means sequential.
func New(client Client, concurrency int, logger *slog.Logger) *Fetcher {
	if concurrency <= 0 {
		concurrency = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		client:      client,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Fetch retrieves bars for every request, one Result per Request in input
// order. Branches run concurrently up to the configured limit and do not
// share retry state; a failed branch yields a Result with Err set.
func (f *Fetcher) Fetch(ctx context.Context, reqs []Request) []Result {
	results := make([]Result, len(reqs))

	var g errgroup.Group
	g.SetLimit(f.concurrency)

	for i, req := range reqs {
		g.Go(func() error {
			results[i] = f.fetchOne(ctx, req)
			return nil
		})
	}

	// Branch errors live in the results; the group never fails.
	_ = g.Wait()

	return results
}

func (f *Fetcher) fetchOne(ctx context.Context, req Request) Result {
	res := Result{ConID: req.ConID}

	resp, err := f.client.History(ctx, api.HistoryOptions{
		ConID:      req.ConID,
		Bar:        req.Bar,
		Period:     req.Period,
		Exchange:   req.Exchange,
		OutsideRTH: req.OutsideRTH,
	})
	if err != nil {
		res.Err = err
		f.logger.Warn("history fetch failed", "conid", req.ConID, "err", err)
		return res
	}

	if len(resp.Data) == 0 {
		res.Err = fmt.Errorf("no historical data for conid %s", req.ConID)
		return res
	}

	res.Symbol = resp.Symbol
	res.Bars = resp.Bars()
	return res
}
