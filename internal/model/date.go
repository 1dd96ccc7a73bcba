package model

import (
	"fmt"
	"time"
)

// Date layouts used by the on-disk file formats.
const (
	dayLayout      = "20060102"   // bar directories, MostActiveTickers.csv, TradingSession.csv
	slashDayLayout = "2006/01/02" // Holidays.csv
)

// Day returns the given calendar day as a UTC-midnight time.Time, the
// canonical date representation throughout the store.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYYMMDD date.
func ParseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dayLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// ParseSlashDay parses a YYYY/MM/DD date.
func ParseSlashDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation(slashDayLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// FormatDay renders a date as YYYYMMDD.
func FormatDay(t time.Time) string {
	return t.Format(dayLayout)
}
