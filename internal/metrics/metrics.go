package metrics

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// PollAttempts counts individual snapshot requests issued by the poller.
	PollAttempts = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "snapshot_poll_attempts_total",
		Help: "Snapshot requests issued, including invalid and failed attempts.",
	})

	// PollOutcomes counts completed poll calls by outcome.
	PollOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "snapshot_polls_total",
		Help: "Completed poll calls by outcome: valid, no_data, error.",
	}, []string{"outcome"})

	// ResolveFailures counts symbols that failed to resolve to a conid.
	ResolveFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "symbol_resolve_failures_total",
		Help: "Symbols skipped because search failed or returned nothing.",
	})

	// CacheReads counts watchlist cache reads by result.
	CacheReads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "watchlist_cache_reads_total",
		Help: "Watchlist cache reads by result: hit, populate, empty.",
	}, []string{"result"})
)

// NewRegistry returns a registry with all core collectors registered.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		PollAttempts,
		PollOutcomes,
		ResolveFailures,
		CacheReads,
		collectors.NewGoCollector(),
	)
	return reg
}

// Server returns an HTTP server exposing the registry at path. The caller
// owns startup and shutdown.
func Server(port int, path string, logger *slog.Logger) *http.Server {
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	mux.Handle(path, promhttp.HandlerFor(NewRegistry(), promhttp.HandlerOpts{}))

	logger.Info("metrics server configured", "port", port, "path", path)

	return &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}
}
