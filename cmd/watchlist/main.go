package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/johnlam1968/ibkr-data/internal/api"
	"github.com/johnlam1968/ibkr-data/internal/config"
	"github.com/johnlam1968/ibkr-data/internal/marketdata"
	"github.com/johnlam1968/ibkr-data/internal/metrics"
	"github.com/johnlam1968/ibkr-data/internal/resolve"
	"github.com/johnlam1968/ibkr-data/internal/snapshot"
	"github.com/johnlam1968/ibkr-data/internal/version"
	"github.com/johnlam1968/ibkr-data/internal/watchlist"
)

func main() {
	configPath := flag.String("config", "configs/watchlist.local.yaml", "path to config file")
	forceRefresh := flag.Bool("force", false, "bypass the cache and repoll the gateway")
	interval := flag.Duration("interval", 0, "refetch continuously at this interval (0 = fetch once)")
	symbolsFlag := flag.String("symbols", "", "comma-separated symbols to fetch instead of the watchlist")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	// Optional .env for local runs; absence is fine
	_ = godotenv.Load()

	// Set up structured logging on stderr so stdout stays pure JSON
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("starting watchlist",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	cfg, err := config.LoadAndValidate(*configPath)
	if errors.Is(err, os.ErrNotExist) {
		logger.Info("config file not found, using defaults", "path", *configPath)
		cfg = config.Default()
		err = nil
	}
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"base_url", cfg.API.BaseURL,
		"symbols", len(cfg.Watchlist.Symbols),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	if cfg.Metrics.Port > 0 {
		metricsServer := metrics.Server(cfg.Metrics.Port, cfg.Metrics.Path, logger)
		go func() {
			logger.Info("starting metrics server", "port", cfg.Metrics.Port)
			if err := metricsServer.ListenAndServe(); err != nil {
				logger.Warn("metrics server stopped", "error", err)
			}
		}()
		defer metricsServer.Close()
	}

	clientOpts := []api.ClientOption{
		api.WithLogger(logger),
	}
	if cfg.API.Timeout > 0 {
		clientOpts = append(clientOpts, api.WithTimeout(cfg.API.Timeout))
	}
	if cfg.API.MaxRetries > 0 {
		clientOpts = append(clientOpts, api.WithRetries(cfg.API.MaxRetries, cfg.API.RetryBackoff))
	}
	if cfg.API.InsecureSkipVerify {
		clientOpts = append(clientOpts, api.WithInsecureTLS())
	}
	apiClient := api.NewClient(cfg.API.BaseURL, clientOpts...)

	resolver := resolve.New(apiClient, logger)
	poller := snapshot.New(snapshot.Config{
		MaxAttempts: cfg.Snapshot.MaxAttempts,
		Delay:       cfg.Snapshot.Delay,
	}, apiClient, logger)

	cache := watchlist.New(watchlist.Config{
		Symbols:         cfg.Watchlist.Symbols,
		Fields:          cfg.Watchlist.Fields,
		RefreshAttempts: cfg.Cache.RefreshAttempts,
		RefreshDelay:    cfg.Cache.RefreshDelay,
	}, resolver, poller, logger)

	svc := marketdata.New(resolver, poller, cache, nil, logger)

	fetch := func(force bool) []byte {
		if *symbolsFlag != "" {
			symbols := splitSymbols(*symbolsFlag)
			logger.Info("fetching ad-hoc snapshot", "symbols", symbols)
			return svc.MarketDataBySymbols(ctx, symbols, cfg.Watchlist.Fields)
		}
		return svc.Watchlist(ctx, force)
	}

	fmt.Println(string(fetch(*forceRefresh)))

	if *interval <= 0 {
		return
	}

	// Looped mode: every tick forces a refresh so the cache repolls
	ticker := time.NewTicker(*interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return
		case <-ticker.C:
			fmt.Println(string(fetch(true)))
		}
	}
}

func splitSymbols(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, strings.ToUpper(p))
		}
	}
	return out
}
