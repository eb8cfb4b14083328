package api

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/johnlam1968/ibkr-data/internal/model"
)

// LiveSnapshot fetches one market-data snapshot for the given contracts and
// field codes. The gateway arms a subscription on the first request per
// contract and only returns populated fields on subsequent calls, so callers
// own the re-request loop; this method issues exactly one request.
func (c *Client) LiveSnapshot(ctx context.Context, conids []model.ConID, fieldCodes []string) ([]SnapshotEntry, error) {
	if len(conids) == 0 {
		return nil, nil
	}

	ids := make([]string, len(conids))
	for i, id := range conids {
		ids[i] = id.String()
	}

	query := url.Values{}
	query.Set("conids", strings.Join(ids, ","))
	if len(fieldCodes) > 0 {
		query.Set("fields", strings.Join(fieldCodes, ","))
	}

	var entries []SnapshotEntry
	if err := c.getOnce(ctx, "/iserver/marketdata/snapshot", query, &entries); err != nil {
		return nil, fmt.Errorf("live snapshot: %w", err)
	}

	return entries, nil
}
