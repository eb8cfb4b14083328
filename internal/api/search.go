package api

import (
	"context"
	"fmt"
	"net/url"
)

// SearchBySymbol fetches contract candidates for a ticker symbol. Results
// come back in the gateway's relevance order; the first entry is the primary
// match.
func (c *Client) SearchBySymbol(ctx context.Context, symbol string) ([]SearchResult, error) {
	query := url.Values{}
	query.Set("symbol", symbol)

	var results []SearchResult
	if err := c.get(ctx, "/iserver/secdef/search", query, &results); err != nil {
		return nil, fmt.Errorf("search symbol %s: %w", symbol, err)
	}

	return results, nil
}
