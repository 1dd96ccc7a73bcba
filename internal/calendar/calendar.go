// Package calendar holds per-exchange holiday sets and generates trading-day
// sequences for date-range queries.
package calendar

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/jefferypaul/platinum-ds/internal/errs"
	"github.com/jefferypaul/platinum-ds/internal/model"
)

// FallbackExchange is consulted when a symbol's exchange has no registered
// holidays. Inherited policy: an unregistered exchange borrows the SHFE
// holiday set rather than trading through every calendar day. This conflates
// "no data" with "no holidays" and is flagged for review, but callers depend
// on it.
const FallbackExchange = "SHFE"

// Calendar is an immutable per-exchange holiday set, built once at load
// time and safe for unsynchronized concurrent reads.
type Calendar struct {
	// holidays maps exchange to its non-trading dates, sorted ascending,
	// deduplicated.
	holidays map[string][]time.Time
}

// New builds a Calendar from per-exchange holiday dates. Duplicates
// collapse; order of the input is irrelevant.
func New(holidays map[string][]time.Time) *Calendar {
	c := &Calendar{holidays: make(map[string][]time.Time, len(holidays))}
	for exchange, dates := range holidays {
		c.holidays[exchange] = normalize(dates)
	}
	return c
}

// Load reads a Holidays.csv file: one "{exchange},{YYYY/MM/DD}" line per
// holiday, no header. A malformed line fails the whole load.
func Load(path string) (*Calendar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read holidays file: %w", err)
	}

	byExchange := make(map[string][]time.Time)
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		exchange, dateStr, ok := strings.Cut(line, ",")
		if !ok {
			return nil, errs.Malformed(path, i+1, "want {exchange},{date}, got %q", line)
		}
		d, err := model.ParseSlashDay(strings.TrimSpace(dateStr))
		if err != nil {
			return nil, errs.Malformed(path, i+1, "%v", err)
		}
		byExchange[exchange] = append(byExchange[exchange], d)
	}
	return New(byExchange), nil
}

// IsHoliday reports whether date is a holiday on the given exchange.
// Exact match only: an unknown exchange has an empty holiday set and is
// never a holiday. Callers wanting the unregistered-exchange fallback use
// TradingDays.
func (c *Calendar) IsHoliday(date time.Time, exchange string) bool {
	days := c.holidays[exchange]
	i := sort.Search(len(days), func(i int) bool { return !days[i].Before(date) })
	return i < len(days) && days[i].Equal(date)
}

// HolidaysFor returns the sorted holiday dates registered for exchange,
// exact match only. The returned slice is shared and must not be mutated.
func (c *Calendar) HolidaysFor(exchange string) []time.Time {
	return c.holidays[exchange]
}

// Exchanges returns the exchanges with at least one registered holiday.
func (c *Calendar) Exchanges() []string {
	out := make([]string, 0, len(c.holidays))
	for exchange := range c.holidays {
		out = append(out, exchange)
	}
	sort.Strings(out)
	return out
}

// effectiveHolidays resolves the holiday set used for trading-day
// generation, applying the FallbackExchange policy.
func (c *Calendar) effectiveHolidays(exchange string) []time.Time {
	if days, ok := c.holidays[exchange]; ok {
		return days
	}
	return c.holidays[FallbackExchange]
}

func normalize(dates []time.Time) []time.Time {
	out := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		out = append(out, d.UTC().Truncate(24*time.Hour))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	dedup := out[:0]
	for i, d := range out {
		if i == 0 || !d.Equal(out[i-1]) {
			dedup = append(dedup, d)
		}
	}
	return dedup
}
