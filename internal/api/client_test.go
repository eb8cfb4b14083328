package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/johnlam1968/ibkr-data/internal/model"
)

func TestNewClient(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		c := NewClient("https://localhost:5000/v1/api")

		if c.baseURL != "https://localhost:5000/v1/api" {
			t.Errorf("baseURL = %q, want %q", c.baseURL, "https://localhost:5000/v1/api")
		}
		if c.httpClient.Timeout != 30*time.Second {
			t.Errorf("Timeout = %v, want %v", c.httpClient.Timeout, 30*time.Second)
		}
		if c.maxRetries != 3 {
			t.Errorf("maxRetries = %d, want %d", c.maxRetries, 3)
		}
		if c.retryBackoff != time.Second {
			t.Errorf("retryBackoff = %v, want %v", c.retryBackoff, time.Second)
		}
		if c.logger == nil {
			t.Error("logger should not be nil")
		}
	})

	t.Run("with options", func(t *testing.T) {
		c := NewClient("https://localhost:5000/v1/api",
			WithTimeout(5*time.Second),
			WithRetries(5, 2*time.Second),
		)
		if c.httpClient.Timeout != 5*time.Second {
			t.Errorf("Timeout = %v, want %v", c.httpClient.Timeout, 5*time.Second)
		}
		if c.maxRetries != 5 {
			t.Errorf("maxRetries = %d, want %d", c.maxRetries, 5)
		}
	})

	t.Run("with insecure TLS", func(t *testing.T) {
		c := NewClient("https://localhost:5000/v1/api", WithInsecureTLS())
		tr, ok := c.httpClient.Transport.(*http.Transport)
		if !ok {
			t.Fatal("transport not set")
		}
		if !tr.TLSClientConfig.InsecureSkipVerify {
			t.Error("InsecureSkipVerify not set")
		}
	})
}

func TestAPIError(t *testing.T) {
	err := &APIError{StatusCode: 404, Message: "Not Found"}
	if got, want := err.Error(), "gateway error 404: Not Found"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	tests := []struct {
		code      int
		retryable bool
	}{
		{500, true},
		{502, true},
		{429, true},
		{400, false},
		{401, false},
		{404, false},
	}
	for _, tt := range tests {
		e := &APIError{StatusCode: tt.code}
		if got := e.IsRetryable(); got != tt.retryable {
			t.Errorf("IsRetryable(%d) = %v, want %v", tt.code, got, tt.retryable)
		}
	}
}

func TestSearchBySymbol(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/iserver/secdef/search" {
			t.Errorf("path = %q, want /iserver/secdef/search", r.URL.Path)
		}
		if got := r.URL.Query().Get("symbol"); got != "AAPL" {
			t.Errorf("symbol = %q, want AAPL", got)
		}
		json.NewEncoder(w).Encode([]map[string]any{
			{"conid": 265598, "symbol": "AAPL", "companyName": "Apple Inc."},
			{"conid": 38708077, "symbol": "AAPL", "companyName": "Apple Inc. CDR"},
		})
	}))
	defer server.Close()

	c := NewClient(server.URL)
	results, err := c.SearchBySymbol(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("SearchBySymbol failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	if results[0].ConID != 265598 {
		t.Errorf("results[0].ConID = %d, want 265598", results[0].ConID)
	}
	if results[0].CompanyName != "Apple Inc." {
		t.Errorf("results[0].CompanyName = %q, want %q", results[0].CompanyName, "Apple Inc.")
	}
}

func TestSearchRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode([]map[string]any{{"conid": 1}})
	}))
	defer server.Close()

	c := NewClient(server.URL, WithRetries(2, time.Millisecond))
	results, err := c.SearchBySymbol(context.Background(), "SPY")
	if err != nil {
		t.Fatalf("SearchBySymbol failed: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("len(results) = %d, want 1", len(results))
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("calls = %d, want 2", got)
	}
}

// TestSearchRetriesZeroBackoff pins the fallback for a zero retry
// backoff: the retry must wait the default second instead of panicking
// on an empty jitter span.
func TestSearchRetriesZeroBackoff(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode([]map[string]any{{"conid": 1}})
	}))
	defer server.Close()

	c := NewClient(server.URL, WithRetries(1, 0))
	results, err := c.SearchBySymbol(context.Background(), "SPY")
	if err != nil {
		t.Fatalf("SearchBySymbol failed: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("len(results) = %d, want 1", len(results))
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("calls = %d, want 2", got)
	}
}

func TestLiveSnapshot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/iserver/marketdata/snapshot" {
			t.Errorf("path = %q, want /iserver/marketdata/snapshot", r.URL.Path)
		}
		if got := r.URL.Query().Get("conids"); got != "265598,8314" {
			t.Errorf("conids = %q, want %q", got, "265598,8314")
		}
		if got := r.URL.Query().Get("fields"); got != "31,70,71" {
			t.Errorf("fields = %q, want %q", got, "31,70,71")
		}
		json.NewEncoder(w).Encode([]map[string]any{
			{"conid": 265598, "31": "150.25", "70": "151.0", "71": "149.5"},
			{"conid": 8314, "31": "172.10"},
		})
	}))
	defer server.Close()

	c := NewClient(server.URL)
	entries, err := c.LiveSnapshot(context.Background(), []model.ConID{265598, 8314}, []string{"31", "70", "71"})
	if err != nil {
		t.Fatalf("LiveSnapshot failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}

	conid, err := entries[0].ConID()
	if err != nil {
		t.Fatalf("ConID failed: %v", err)
	}
	if conid != 265598 {
		t.Errorf("conid = %d, want 265598", conid)
	}
	if entries[0]["31"] != "150.25" {
		t.Errorf("field 31 = %v, want 150.25", entries[0]["31"])
	}
}

// TestLiveSnapshotSingleShot pins the no-transport-retry contract: even a
// retryable status must surface after exactly one request.
func TestLiveSnapshotSingleShot(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewClient(server.URL, WithRetries(5, time.Millisecond))
	_, err := c.LiveSnapshot(context.Background(), []model.ConID{1}, []string{"31"})
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
}

func TestLiveSnapshotEmptyConids(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	c := NewClient(server.URL)
	entries, err := c.LiveSnapshot(context.Background(), nil, []string{"31"})
	if err != nil {
		t.Fatalf("LiveSnapshot failed: %v", err)
	}
	if entries != nil {
		t.Errorf("entries = %v, want nil", entries)
	}
	if got := calls.Load(); got != 0 {
		t.Errorf("calls = %d, want 0 (no request for empty conids)", got)
	}
}

func TestHistory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/iserver/marketdata/history" {
			t.Errorf("path = %q, want /iserver/marketdata/history", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("conid") != "265598" || q.Get("bar") != "1d" || q.Get("period") != "1m" {
			t.Errorf("unexpected query: %v", q)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"serverId": "20954",
			"symbol":   "AAPL",
			"points":   2,
			"data": []map[string]any{
				{"o": 150.1, "c": 151.2, "h": 152.0, "l": 149.9, "v": 1000, "t": 1700000000000},
				{"o": 151.2, "c": 150.8, "h": 151.8, "l": 150.2, "v": 900, "t": 1700086400000},
			},
		})
	}))
	defer server.Close()

	c := NewClient(server.URL)
	resp, err := c.History(context.Background(), HistoryOptions{
		ConID:  265598,
		Bar:    "1d",
		Period: "1m",
	})
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if resp.Symbol != "AAPL" {
		t.Errorf("Symbol = %q, want AAPL", resp.Symbol)
	}

	bars := resp.Bars()
	if len(bars) != 2 {
		t.Fatalf("len(bars) = %d, want 2", len(bars))
	}
	if got := bars[0].Close.String(); got != "151.2" {
		t.Errorf("bars[0].Close = %s, want 151.2", got)
	}
	if got := bars[0].Time.UnixMilli(); got != 1700000000000 {
		t.Errorf("bars[0].Time = %d, want 1700000000000", got)
	}
}

func TestRequestContextCancellation(t *testing.T) {
	block := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer server.Close()
	defer close(block)

	c := NewClient(server.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.SearchBySymbol(ctx, "AAPL")
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
}
