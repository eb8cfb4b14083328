package api

import (
	"fmt"

	"github.com/johnlam1968/ibkr-data/internal/model"
)

// SearchResult is one contract candidate from /iserver/secdef/search.
type SearchResult struct {
	ConID         model.ConID     `json:"conid"`
	CompanyHeader string          `json:"companyHeader"`
	CompanyName   string          `json:"companyName"`
	Symbol        string          `json:"symbol"`
	Description   string          `json:"description"`
	SecType       string          `json:"secType"`
	Sections      []SearchSection `json:"sections"`
}

// SearchSection lists the instrument types a search hit trades as.
type SearchSection struct {
	SecType   string `json:"secType"`
	Months    string `json:"months"`
	Exchange  string `json:"exchange"`
	LegSecTyp string `json:"legSecType"`
}

// SnapshotEntry is one instrument's raw snapshot row. Keys are numeric field
// codes plus gateway bookkeeping fields; the shape is open-world, so it stays
// a map rather than a struct.
type SnapshotEntry map[string]any

// ConID extracts the numeric contract ID from an entry.
func (e SnapshotEntry) ConID() (model.ConID, error) {
	v, ok := e["conid"]
	if !ok {
		return 0, fmt.Errorf("snapshot entry has no conid")
	}
	switch id := v.(type) {
	case float64:
		return model.ConID(id), nil
	case int64:
		return model.ConID(id), nil
	case int:
		return model.ConID(id), nil
	case string:
		return model.ParseConID(id)
	}
	return 0, fmt.Errorf("snapshot entry conid has type %T", v)
}

// HistoryResponse from GET /iserver/marketdata/history.
type HistoryResponse struct {
	ServerID       string   `json:"serverId"`
	Symbol         string   `json:"symbol"`
	Text           string   `json:"text"`
	Points         int      `json:"points"`
	MDAvailability string   `json:"mdAvailability"`
	BarLength      int      `json:"barLength"`
	Data           []APIBar `json:"data"`
}

// APIBar is one raw OHLCV bar.
type APIBar struct {
	Open   float64 `json:"o"`
	Close  float64 `json:"c"`
	High   float64 `json:"h"`
	Low    float64 `json:"l"`
	Volume float64 `json:"v"`
	TimeMS int64   `json:"t"`
}

// HistoryOptions configures a History request.
type HistoryOptions struct {
	ConID      model.ConID
	Bar        string // e.g. "1d", "1h", "5min"
	Period     string // e.g. "1m", "1w"; gateway default when empty
	Exchange   string
	OutsideRTH bool
}
