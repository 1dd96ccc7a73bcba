package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jefferypaul/platinum-ds/internal/barfile"
	"github.com/jefferypaul/platinum-ds/internal/model"
)

// BarsByDay maps each resolved trading day to its decoded bars. A day
// with no data maps to an empty list.
type BarsByDay map[time.Time][]model.Bar

// ReadBars resolves and decodes bar data for symbol over [start, end].
// In BackAdjusted mode the price fields (open/high/low/close and traded
// price) of each day's bars are scaled by the back-adjust factor effective
// that day; volume and open interest stay untouched.
//
// A decode failure aborts the whole read and names the offending file and
// line; a missing file is simply an empty day.
func (s *Store) ReadBars(ctx context.Context, symbol model.Instrument, start, end time.Time, mode Mode, useHolidays bool) (BarsByDay, error) {
	paths, err := s.ResolvePaths(ctx, symbol, start, end, mode, useHolidays)
	if err != nil {
		return nil, err
	}
	return s.readResolved(ctx, symbol, paths, mode)
}

// ReadExchangeBars resolves and decodes bar data for every ticker on an
// exchange over [start, end].
func (s *Store) ReadExchangeBars(ctx context.Context, exchange string, start, end time.Time, useHolidays bool) (BarsByDay, error) {
	paths, err := s.ResolveExchangePaths(ctx, exchange, start, end, useHolidays)
	if err != nil {
		return nil, err
	}
	return s.readResolved(ctx, nil, paths, Normal)
}

func (s *Store) readResolved(ctx context.Context, symbol model.Instrument, paths PathsByDay, mode Mode) (BarsByDay, error) {
	product, _ := symbol.(model.Product)

	result := make(BarsByDay, len(paths))
	for _, day := range paths.Days() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		dayBars := []model.Bar{}
		for _, path := range paths[day] {
			bars, err := barfile.DecodeFile(path, s.registry)
			if err != nil {
				return nil, fmt.Errorf("read bars for %s on %s: %w", symbolName(symbol), model.FormatDay(day), err)
			}
			dayBars = append(dayBars, bars...)
		}
		if mode == BackAdjusted {
			if rec, ok := s.mostActive.RecordAt(product, day); ok {
				scaleBars(dayBars, rec.BackAdjustFactor)
			}
		}
		result[day] = dayBars
	}
	return result, nil
}

func symbolName(symbol model.Instrument) string {
	if symbol == nil {
		return "exchange query"
	}
	return symbol.Name()
}

// scaleBars applies a back-adjustment factor to the price fields in place.
func scaleBars(bars []model.Bar, factor float64) {
	for i := range bars {
		bars[i].Open *= factor
		bars[i].High *= factor
		bars[i].Low *= factor
		bars[i].Close *= factor
		bars[i].Price *= factor
	}
}

// ReadBarsBulk fans ReadBars out over symbols with at most concurrency
// reads in flight. Resolution shares no mutable state between symbols, so
// the fan-out is safe; results are keyed by instrument name. The first
// failure cancels the remaining reads.
func (s *Store) ReadBarsBulk(ctx context.Context, symbols []model.Instrument, start, end time.Time, mode Mode, useHolidays bool, concurrency int) (map[string]BarsByDay, error) {
	if concurrency < 1 {
		concurrency = 1
	}

	var mu sync.Mutex
	results := make(map[string]BarsByDay, len(symbols))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, symbol := range symbols {
		g.Go(func() error {
			bars, err := s.ReadBars(ctx, symbol, start, end, mode, useHolidays)
			if err != nil {
				return err
			}
			mu.Lock()
			results[symbol.Name()] = bars
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
