package api

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/johnlam1968/ibkr-data/internal/model"
)

// History fetches historical OHLCV bars for a single contract. This is a
// plain single-shot call: the endpoint has none of the snapshot warm-up
// semantics.
func (c *Client) History(ctx context.Context, opts HistoryOptions) (*HistoryResponse, error) {
	query := url.Values{}
	query.Set("conid", opts.ConID.String())
	if opts.Bar != "" {
		query.Set("bar", opts.Bar)
	}
	if opts.Period != "" {
		query.Set("period", opts.Period)
	}
	if opts.Exchange != "" {
		query.Set("exchange", opts.Exchange)
	}
	if opts.OutsideRTH {
		query.Set("outsideRth", "true")
	}

	var resp HistoryResponse
	if err := c.get(ctx, "/iserver/marketdata/history", query, &resp); err != nil {
		return nil, fmt.Errorf("history conid %s: %w", opts.ConID, err)
	}

	return &resp, nil
}

// Bars converts the raw response to model bars with decimal prices.
func (r *HistoryResponse) Bars() []model.Bar {
	bars := make([]model.Bar, 0, len(r.Data))
	for _, b := range r.Data {
		bars = append(bars, model.Bar{
			Time:   time.UnixMilli(b.TimeMS).UTC(),
			Open:   decimal.NewFromFloat(b.Open),
			High:   decimal.NewFromFloat(b.High),
			Low:    decimal.NewFromFloat(b.Low),
			Close:  decimal.NewFromFloat(b.Close),
			Volume: decimal.NewFromFloat(b.Volume),
		})
	}
	return bars
}
