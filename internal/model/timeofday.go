package model

import (
	"fmt"
	"strconv"
)

// TimeOfDay is an intraday clock time in whole seconds since midnight.
// Bar records and trading-session windows both index on it; ordering is
// plain integer comparison.
type TimeOfDay int

// ParseClock parses "HH:MM:SS", the time field of bar records.
func ParseClock(s string) (TimeOfDay, error) {
	if len(s) != 8 || s[2] != ':' || s[5] != ':' {
		return 0, fmt.Errorf("parse clock %q: want HH:MM:SS", s)
	}
	return parseHMS(s, s[0:2], s[3:5], s[6:8])
}

// ParseCompactClock parses "HHMMSS", the session-window form.
func ParseCompactClock(s string) (TimeOfDay, error) {
	if len(s) != 6 {
		return 0, fmt.Errorf("parse clock %q: want HHMMSS", s)
	}
	return parseHMS(s, s[0:2], s[2:4], s[4:6])
}

func parseHMS(orig, hh, mm, ss string) (TimeOfDay, error) {
	h, err1 := strconv.Atoi(hh)
	m, err2 := strconv.Atoi(mm)
	s, err3 := strconv.Atoi(ss)
	if err1 != nil || err2 != nil || err3 != nil ||
		h < 0 || h > 23 || m < 0 || m > 59 || s < 0 || s > 59 {
		return 0, fmt.Errorf("parse clock %q: out of range", orig)
	}
	return TimeOfDay(h*3600 + m*60 + s), nil
}

// Clock renders the time as "HH:MM:SS".
func (t TimeOfDay) Clock() string {
	return fmt.Sprintf("%02d:%02d:%02d", int(t)/3600, int(t)/60%60, int(t)%60)
}

// Compact renders the time as "HHMMSS".
func (t TimeOfDay) Compact() string {
	return fmt.Sprintf("%02d%02d%02d", int(t)/3600, int(t)/60%60, int(t)%60)
}

func (t TimeOfDay) String() string { return t.Clock() }
