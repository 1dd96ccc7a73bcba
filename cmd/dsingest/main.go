// Command dsingest pulls minute bars from the market-data terminal into a
// flat-file data store, and optionally mirrors the store's reference
// indices into PostgreSQL.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jefferypaul/platinum-ds/internal/config"
	"github.com/jefferypaul/platinum-ds/internal/database"
	"github.com/jefferypaul/platinum-ds/internal/ingest"
	"github.com/jefferypaul/platinum-ds/internal/model"
	"github.com/jefferypaul/platinum-ds/internal/store"
	"github.com/jefferypaul/platinum-ds/internal/terminal"
	"github.com/jefferypaul/platinum-ds/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/dsingest.local.yaml", "path to config file")
	tickersArg := flag.String("tickers", "", "comma-separated ticker names, e.g. rb2410.SHFE,m2409.DCE")
	startArg := flag.String("start", "", "start date YYYYMMDD")
	endArg := flag.String("end", "", "end date YYYYMMDD (default: start)")
	mirrorOnly := flag.Bool("mirror-only", false, "skip bar ingestion, only mirror reference data")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting dsingest",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	st, err := store.Open(cfg.Store.Root, store.WithLogger(logger))
	if err != nil {
		logger.Error("failed to open data store", "error", err)
		os.Exit(1)
	}

	if cfg.Mirror.Enabled {
		if err := runMirror(ctx, cfg, st, logger); err != nil {
			logger.Error("mirror failed", "error", err)
			os.Exit(1)
		}
	}
	if *mirrorOnly {
		logger.Info("mirror-only run finished")
		return
	}

	reqs, err := buildRequests(st, *tickersArg, *startArg, *endArg)
	if err != nil {
		logger.Error("invalid ingestion arguments", "error", err)
		os.Exit(1)
	}

	client := terminal.NewClient(
		cfg.Terminal.BaseURL,
		cfg.Terminal.APIKey,
		terminal.WithLogger(logger),
		terminal.WithTimeout(cfg.Terminal.Timeout),
		terminal.WithRetries(cfg.Terminal.MaxRetries, time.Second),
	)

	logger.Info("checking terminal status")
	status, err := client.GetStatus(ctx)
	if err != nil {
		logger.Error("terminal unavailable", "error", err)
		os.Exit(1)
	}
	logger.Info("terminal status", "status", status.Status, "terminal_version", status.Version)

	svc := ingest.New(ingest.Config{
		Concurrency: cfg.Ingest.Concurrency,
		DefaultZone: cfg.Ingest.DefaultZone,
	}, client, st, logger)

	stats, err := svc.Run(ctx, reqs)
	if err != nil {
		logger.Error("ingestion failed", "error", err)
		os.Exit(1)
	}

	logger.Info("dsingest finished",
		"requests", stats.Requests,
		"bars", stats.Bars,
		"files", stats.Files,
	)
}

func buildRequests(st *store.Store, tickersArg, startArg, endArg string) ([]ingest.Request, error) {
	if tickersArg == "" {
		return nil, fmt.Errorf("-tickers is required")
	}
	start, err := model.ParseDay(startArg)
	if err != nil {
		return nil, fmt.Errorf("invalid start date: %w", err)
	}
	end := start
	if endArg != "" {
		end, err = model.ParseDay(endArg)
		if err != nil {
			return nil, fmt.Errorf("invalid end date: %w", err)
		}
	}

	var reqs []ingest.Request
	for _, name := range strings.Split(tickersArg, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		reqs = append(reqs, ingest.Request{
			Ticker: st.Registry().TickerFromName(name),
			Start:  start,
			End:    end,
		})
	}
	if len(reqs) == 0 {
		return nil, fmt.Errorf("no tickers given")
	}
	return reqs, nil
}

func runMirror(ctx context.Context, cfg *config.ServiceConfig, st *store.Store, logger *slog.Logger) error {
	logger.Info("connecting to mirror database",
		"host", cfg.Mirror.Postgres.Host,
		"port", cfg.Mirror.Postgres.Port,
		"database", cfg.Mirror.Postgres.Name,
	)
	pool, err := database.Connect(ctx, cfg.Mirror.Postgres)
	if err != nil {
		return fmt.Errorf("connect mirror database: %w", err)
	}
	defer pool.Close()

	mirror := database.NewMirror(pool, logger)
	if err := mirror.UpsertMostActive(ctx, st.MostActive()); err != nil {
		return err
	}
	if err := mirror.UpsertTickerInfo(ctx, st.TickerInfo()); err != nil {
		return err
	}

	holidays := make(map[string][]time.Time)
	for _, exchange := range st.Calendar().Exchanges() {
		holidays[exchange] = st.Calendar().HolidaysFor(exchange)
	}
	return mirror.UpsertHolidays(ctx, holidays)
}
