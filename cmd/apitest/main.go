// apitest exercises the gateway endpoints end to end: search a symbol,
// poll a live snapshot for it, then fetch a few daily bars.
// Usage: go run ./cmd/apitest --config configs/watchlist.local.yaml --symbol AAPL
//
// The Client Portal gateway must be running and authenticated; hit
// https://localhost:5000 in a browser first if the calls return 401.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/johnlam1968/ibkr-data/internal/api"
	"github.com/johnlam1968/ibkr-data/internal/config"
	"github.com/johnlam1968/ibkr-data/internal/history"
	"github.com/johnlam1968/ibkr-data/internal/marketdata"
	"github.com/johnlam1968/ibkr-data/internal/model"
	"github.com/johnlam1968/ibkr-data/internal/resolve"
	"github.com/johnlam1968/ibkr-data/internal/snapshot"
)

func main() {
	configPath := flag.String("config", "configs/watchlist.local.yaml", "path to config file")
	symbol := flag.String("symbol", "AAPL", "symbol to exercise")
	withHistory := flag.Bool("history", true, "also fetch historical bars")
	flag.Parse()

	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	cfg, err := config.LoadWithDefaults(*configPath)
	if errors.Is(err, os.ErrNotExist) {
		logger.Info("config file not found, using defaults", "path", *configPath)
		cfg = config.Default()
		err = nil
	}
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	clientOpts := []api.ClientOption{api.WithLogger(logger)}
	if cfg.API.InsecureSkipVerify {
		clientOpts = append(clientOpts, api.WithInsecureTLS())
	}
	apiClient := api.NewClient(cfg.API.BaseURL, clientOpts...)

	// Search
	logger.Info("searching", "symbol", *symbol)
	results, err := apiClient.SearchBySymbol(ctx, *symbol)
	if err != nil {
		logger.Error("search failed", "error", err)
		os.Exit(1)
	}
	if len(results) == 0 {
		logger.Error("no contracts found", "symbol", *symbol)
		os.Exit(1)
	}
	for i, r := range results {
		logger.Info("search result",
			"rank", i,
			"conid", r.ConID,
			"company", r.CompanyName,
			"sec_type", r.SecType,
		)
	}
	conid := results[0].ConID

	// Snapshot
	resolver := resolve.New(apiClient, logger)
	poller := snapshot.New(snapshot.Config{
		MaxAttempts: cfg.Snapshot.MaxAttempts,
		Delay:       cfg.Snapshot.Delay,
	}, apiClient, logger)
	svc := marketdata.New(resolver, poller, nil, history.New(apiClient, cfg.History.Concurrency, logger), logger)

	logger.Info("polling snapshot", "conid", conid)
	out := svc.MarketData(ctx, []model.ConID{conid}, cfg.Watchlist.Fields)
	fmt.Println(string(out))

	// History
	if *withHistory {
		logger.Info("fetching history", "conid", conid, "bar", cfg.History.Bar, "period", cfg.History.Period)
		out = svc.History(ctx, []history.Request{{
			ConID:      conid,
			Bar:        cfg.History.Bar,
			Period:     cfg.History.Period,
			OutsideRTH: cfg.History.OutsideRTH,
		}})
		fmt.Println(string(out))
	}
}
