package calendar

import "time"

// TradingDays generates the ordered trading days on exchange over the
// inclusive range [start, end].
//
// A zero end means a single-date query: the result is exactly [start] with
// no holiday filtering at all, even when start is a holiday. Range queries
// do not share that asymmetry; it is inherited behavior and preserved
// deliberately.
//
// When useHolidays is set, every holiday of the symbol's exchange is
// removed; an exchange with no registered holidays borrows the
// FallbackExchange set. An inverted range yields an empty sequence.
func (c *Calendar) TradingDays(exchange string, start, end time.Time, useHolidays bool) []time.Time {
	if end.IsZero() {
		return []time.Time{start}
	}

	days := dateRange(start, end)
	if !useHolidays {
		return days
	}
	return diffSorted(days, c.effectiveHolidays(exchange))
}

// dateRange returns every calendar day of the inclusive range [start, end],
// ascending. Empty when start is after end.
func dateRange(start, end time.Time) []time.Time {
	var out []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

// diffSorted removes every element of exclude from days with a single
// two-pointer merge pass. Both inputs must be sorted ascending; holiday
// lists and date ranges both reach thousands of entries, and the previous
// scan-per-day implementation was quadratic.
func diffSorted(days, exclude []time.Time) []time.Time {
	if len(exclude) == 0 {
		return days
	}
	out := make([]time.Time, 0, len(days))
	j := 0
	for _, d := range days {
		for j < len(exclude) && exclude[j].Before(d) {
			j++
		}
		if j < len(exclude) && exclude[j].Equal(d) {
			continue
		}
		out = append(out, d)
	}
	return out
}
