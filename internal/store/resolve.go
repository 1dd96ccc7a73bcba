package store

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jefferypaul/platinum-ds/internal/errs"
	"github.com/jefferypaul/platinum-ds/internal/model"
	"github.com/jefferypaul/platinum-ds/internal/tickerinfo"
)

// Mode selects how product-level bar data is resolved.
type Mode int

const (
	// Normal resolves every contract file of the product per day.
	Normal Mode = iota
	// BackAdjusted resolves only the most-active contract per day, for
	// stitching a continuous back-adjusted series. Products only.
	BackAdjusted
)

func (m Mode) String() string {
	switch m {
	case Normal:
		return "normal"
	case BackAdjusted:
		return "backadjusted"
	}
	return "unknown"
}

// ParseMode parses a Mode name as written on a command line.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "normal":
		return Normal, nil
	case "backadjusted", "back-adjusted", "baj":
		return BackAdjusted, nil
	}
	return 0, errs.Invalidf("unknown mode %q", s)
}

// PathsByDay maps each resolved trading day to the bar files to read for
// it, in resolution order. A day with no data maps to an empty list; a
// data gap is expected and representable, never an error.
type PathsByDay map[time.Time][]string

// Days returns the mapped days sorted ascending.
func (p PathsByDay) Days() []time.Time {
	out := make([]time.Time, 0, len(p))
	for d := range p {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// ResolvePaths computes the bar files to read for symbol over the
// inclusive range [start, end] (zero end: single-date query, see
// calendar.TradingDays).
//
// Tickers resolve to at most one file per day, probed across the
// asset-class prefixes in their fixed order. Products in Normal mode
// resolve to every matching contract file of the first prefix that yields
// any (a product's contracts live under one prefix); in BackAdjusted mode
// they resolve to the most-active contract's file. Back-adjusting a
// ticker, or an inverted range, is caller misuse.
//
// The walk checks ctx between days; a long range cancels at a day
// boundary.
func (s *Store) ResolvePaths(ctx context.Context, symbol model.Instrument, start, end time.Time, mode Mode, useHolidays bool) (PathsByDay, error) {
	if !end.IsZero() && start.After(end) {
		return nil, errs.Invalidf("start %s after end %s", model.FormatDay(start), model.FormatDay(end))
	}

	var (
		exchange string
		resolve  func(day time.Time) []string
	)
	switch sym := symbol.(type) {
	case model.Ticker:
		if mode == BackAdjusted {
			return nil, errs.Invalidf("back-adjusted mode requires a product, got ticker %s", sym.Name())
		}
		exchange = sym.Exchange
		resolve = func(day time.Time) []string {
			if path, ok := s.tickerDayFile(sym, day); ok {
				return []string{path}
			}
			return nil
		}
	case model.Product:
		exchange = sym.Exchange
		switch mode {
		case Normal:
			resolve = func(day time.Time) []string { return s.productDayFiles(sym, day) }
		case BackAdjusted:
			resolve = func(day time.Time) []string {
				active, ok := s.mostActive.TickerAt(sym, day)
				if !ok {
					return nil
				}
				if path, ok := s.tickerDayFile(active, day); ok {
					return []string{path}
				}
				return nil
			}
		default:
			return nil, errs.Invalidf("unknown mode %d", mode)
		}
	default:
		return nil, errs.Invalidf("unsupported symbol type %T", symbol)
	}

	result := make(PathsByDay)
	for _, day := range s.calendar.TradingDays(exchange, start, end, useHolidays) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result[day] = resolve(day)
	}
	return result, nil
}

// ResolveExchangePaths computes the bar files of every ticker on exchange
// per trading day. Unlike product resolution, all prefixes contribute:
// one exchange's instruments do span asset classes.
func (s *Store) ResolveExchangePaths(ctx context.Context, exchange string, start, end time.Time, useHolidays bool) (PathsByDay, error) {
	if !end.IsZero() && start.After(end) {
		return nil, errs.Invalidf("start %s after end %s", model.FormatDay(start), model.FormatDay(end))
	}

	result := make(PathsByDay)
	for _, day := range s.calendar.TradingDays(exchange, start, end, useHolidays) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var paths []string
		for _, prefix := range tickerinfo.Prefixes {
			for ticker, path := range s.dayFiles(day, prefix) {
				if ticker.Exchange == exchange {
					paths = append(paths, path)
				}
			}
		}
		sort.Strings(paths)
		result[day] = paths
	}
	return result, nil
}

// tickerDayFile probes the prefix directories in their fixed order for the
// ticker's file on the given day and stops at the first hit.
func (s *Store) tickerDayFile(ticker model.Ticker, day time.Time) (string, bool) {
	for _, prefix := range tickerinfo.Prefixes {
		path := filepath.Join(s.root, BarDataRelPath, prefix, model.FormatDay(day), ticker.Name()+".csv")
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// productDayFiles collects the files of every ticker belonging to product
// on the given day. The prefix search stops at the first prefix that
// yields any match: first non-empty prefix wins.
func (s *Store) productDayFiles(product model.Product, day time.Time) []string {
	for _, prefix := range tickerinfo.Prefixes {
		var paths []string
		for ticker, path := range s.dayFiles(day, prefix) {
			if ticker.Product() == product {
				paths = append(paths, path)
			}
		}
		if len(paths) > 0 {
			sort.Strings(paths)
			return paths
		}
	}
	return nil
}

// dayFiles lists every (ticker, file) under one prefix for the given day.
// A missing day directory is an empty result.
func (s *Store) dayFiles(day time.Time, prefix string) map[model.Ticker]string {
	dir := filepath.Join(s.root, BarDataRelPath, prefix, model.FormatDay(day))
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	files := make(map[model.Ticker]string, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".csv") {
			continue
		}
		ticker := s.registry.TickerFromName(strings.TrimSuffix(entry.Name(), ".csv"))
		files[ticker] = filepath.Join(dir, entry.Name())
	}
	return files
}
