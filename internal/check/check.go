// Package check sweeps stored bar data for gaps: minutes inside a
// product's trading session that have no bar on disk.
package check

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/jefferypaul/platinum-ds/internal/model"
	"github.com/jefferypaul/platinum-ds/internal/session"
	"github.com/jefferypaul/platinum-ds/internal/store"
)

// Gap reports the missing minutes of one (ticker, day).
type Gap struct {
	Ticker  model.Ticker
	Date    time.Time
	Missing []model.TimeOfDay
}

// Checker sweeps a store's bar files against the trading-session index.
type Checker struct {
	store  *store.Store
	logger *slog.Logger
}

// New creates a Checker.
func New(st *store.Store, logger *slog.Logger) *Checker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{store: st, logger: logger}
}

// CheckProduct sweeps every contract of product over [start, end] in the
// given timezone index. Days without a session record are skipped: with no
// expected minutes there is nothing to miss. Days without bar files
// produce one gap per expected minute only when a contract file exists but
// is short; a wholly absent day is absence of data, not a gap.
func (c *Checker) CheckProduct(ctx context.Context, product model.Product, zone string, start, end time.Time, useHolidays bool) ([]Gap, error) {
	bars, err := c.store.ReadBars(ctx, product, start, end, store.Normal, useHolidays)
	if err != nil {
		return nil, err
	}

	var gaps []Gap
	for _, day := range sortedDays(bars) {
		windows, ok := c.store.Sessions().Sessions(product, zone, day)
		if !ok {
			c.logger.Debug("no session record, skipping day",
				"product", product.Name(),
				"date", model.FormatDay(day),
			)
			continue
		}
		expected := expectedMinutes(windows)
		if len(expected) == 0 {
			continue
		}

		for ticker, present := range minutesByTicker(bars[day]) {
			missing := subtract(expected, present)
			if len(missing) > 0 {
				gaps = append(gaps, Gap{Ticker: ticker, Date: day, Missing: missing})
			}
		}
	}
	return gaps, nil
}

// CheckMostActive reports the trading days on which a product's
// most-active contract has no bar file. Days before the first most-active
// record are skipped, as are holidays when useHolidays is set.
func (c *Checker) CheckMostActive(ctx context.Context, product model.Product, start, end time.Time, useHolidays bool) ([]time.Time, error) {
	paths, err := c.store.ResolvePaths(ctx, product, start, end, store.BackAdjusted, useHolidays)
	if err != nil {
		return nil, err
	}

	var missing []time.Time
	for day, files := range paths {
		if _, ok := c.store.MostActive().TickerAt(product, day); !ok {
			continue
		}
		if len(files) == 0 {
			missing = append(missing, day)
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i].Before(missing[j]) })
	return missing, nil
}

// expectedMinutes enumerates the minute-bar timestamps a session's windows
// imply. A bar carries the closing time of its minute, so a window
// [start, end) expects bars at start+60 .. end. Windows that wrap past
// midnight are not swept.
func expectedMinutes(windows []session.Window) []model.TimeOfDay {
	var out []model.TimeOfDay
	for _, w := range windows {
		if w.End <= w.Start {
			continue
		}
		for t := w.Start + 60; t <= w.End; t += 60 {
			out = append(out, t)
		}
	}
	return out
}

func minutesByTicker(bars []model.Bar) map[model.Ticker]map[model.TimeOfDay]bool {
	byTicker := make(map[model.Ticker]map[model.TimeOfDay]bool)
	for _, bar := range bars {
		present := byTicker[bar.Ticker]
		if present == nil {
			present = make(map[model.TimeOfDay]bool)
			byTicker[bar.Ticker] = present
		}
		present[bar.Time] = true
	}
	return byTicker
}

func subtract(expected []model.TimeOfDay, present map[model.TimeOfDay]bool) []model.TimeOfDay {
	var missing []model.TimeOfDay
	for _, t := range expected {
		if !present[t] {
			missing = append(missing, t)
		}
	}
	return missing
}

func sortedDays(bars store.BarsByDay) []time.Time {
	out := make([]time.Time, 0, len(bars))
	for day := range bars {
		out = append(out, day)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}
