// Package ingest pulls minute bars from an upstream source and writes
// them into a data store's bar-file tree, one file per (ticker, day).
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jefferypaul/platinum-ds/internal/barfile"
	"github.com/jefferypaul/platinum-ds/internal/model"
	"github.com/jefferypaul/platinum-ds/internal/store"
	"github.com/jefferypaul/platinum-ds/internal/tickerinfo"
)

// BarSource fetches minute bars from an upstream feed.
type BarSource interface {
	GetMinuteBars(ctx context.Context, ticker model.Ticker, start, end time.Time) ([]model.Bar, error)
}

// Request names one (ticker, date range) to ingest.
type Request struct {
	Ticker model.Ticker
	Start  time.Time
	End    time.Time
}

// Config holds ingestion settings.
type Config struct {
	Concurrency int
	DefaultZone string // reference-data zone used for prefix lookup
}

// Stats summarizes one ingestion run.
type Stats struct {
	Requests int
	Bars     int
	Files    int
}

// Service fetches bars and writes them under the store's bar-data root.
type Service struct {
	cfg    Config
	source BarSource
	store  *store.Store
	logger *slog.Logger
}

// New creates an ingestion service.
func New(cfg Config, source BarSource, st *store.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &Service{cfg: cfg, source: source, store: st, logger: logger}
}

// Run processes every request with at most Concurrency fetches in flight.
// The first failure cancels the remaining requests.
func (s *Service) Run(ctx context.Context, reqs []Request) (Stats, error) {
	start := time.Now()

	var mu sync.Mutex
	stats := Stats{Requests: len(reqs)}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for _, req := range reqs {
		g.Go(func() error {
			bars, files, err := s.ingestOne(ctx, req)
			if err != nil {
				return err
			}
			mu.Lock()
			stats.Bars += bars
			stats.Files += files
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return stats, err
	}

	s.logger.Info("ingestion run finished",
		"requests", stats.Requests,
		"bars", stats.Bars,
		"files", stats.Files,
		"duration", time.Since(start),
	)
	return stats, nil
}

func (s *Service) ingestOne(ctx context.Context, req Request) (bars, files int, err error) {
	fetched, err := s.source.GetMinuteBars(ctx, req.Ticker, req.Start, req.End)
	if err != nil {
		return 0, 0, fmt.Errorf("fetch %s: %w", req.Ticker.Name(), err)
	}
	if len(fetched) == 0 {
		s.logger.Debug("no bars upstream",
			"ticker", req.Ticker.Name(),
			"start", model.FormatDay(req.Start),
			"end", model.FormatDay(req.End),
		)
		return 0, 0, nil
	}

	prefix := s.prefixFor(req.Ticker)

	for day, dayBars := range groupByDay(fetched) {
		path := filepath.Join(s.store.Root(), store.BarDataRelPath, prefix, model.FormatDay(day), req.Ticker.Name()+".csv")
		if err := barfile.WriteFile(path, dayBars); err != nil {
			return bars, files, fmt.Errorf("write %s: %w", req.Ticker.Name(), err)
		}
		bars += len(dayBars)
		files++
	}

	s.logger.Debug("ingested ticker",
		"ticker", req.Ticker.Name(),
		"prefix", prefix,
		"bars", bars,
		"files", files,
	)
	return bars, files, nil
}

// prefixFor picks the asset-class folder for a ticker from the reference
// data of the configured zone. Products without an entry land under the
// first prefix, which holds the bulk of the instruments.
func (s *Service) prefixFor(ticker model.Ticker) string {
	rec, err := s.store.TickerInfo().Get(ticker.Product(), s.cfg.DefaultZone)
	if err != nil {
		return tickerinfo.Prefixes[0]
	}
	return rec.Prefix
}

func groupByDay(bars []model.Bar) map[time.Time][]model.Bar {
	byDay := make(map[time.Time][]model.Bar)
	for _, bar := range bars {
		byDay[bar.Date] = append(byDay[bar.Date], bar)
	}
	for _, dayBars := range byDay {
		sort.SliceStable(dayBars, func(i, j int) bool { return dayBars[i].Time < dayBars[j].Time })
	}
	return byDay
}
