// Package session maintains the timezone-indexed, effective-dated index of
// per-product trading-session windows.
//
// Reference data lives under subdirectories named "{anything}.{tzindex}",
// each holding one TradingSession.csv. The timezone index is everything
// after the first dot of the directory name, so indices containing dots
// ("prod.210") survive. It is a vintage/region bucket key, not a UTC
// offset.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jefferypaul/platinum-ds/internal/errs"
	"github.com/jefferypaul/platinum-ds/internal/model"
)

// FileName is the per-zone session file.
const FileName = "TradingSession.csv"

// Window is one open/close span within a trading day.
type Window struct {
	Start model.TimeOfDay
	End   model.TimeOfDay
}

// Record is one effective-dated session schedule for a product: the
// windows apply from Date onward, until superseded by a later record.
type Record struct {
	Product  model.Product
	Date     time.Time
	Windows  []Window
	Timezone string // exchange timezone column, informational only
}

// Index is the loaded session reference data: per timezone index, per
// product, records sorted ascending by effective date. Immutable after
// load, safe for concurrent reads.
type Index struct {
	zones map[string]map[model.Product][]Record
}

// New builds an Index from per-zone records.
func New(zones map[string][]Record) *Index {
	x := &Index{zones: make(map[string]map[model.Product][]Record, len(zones))}
	for zone, records := range zones {
		byProduct := make(map[model.Product][]Record)
		for _, rec := range records {
			byProduct[rec.Product] = append(byProduct[rec.Product], rec)
		}
		for p := range byProduct {
			list := byProduct[p]
			sort.SliceStable(list, func(i, j int) bool { return list[i].Date.Before(list[j].Date) })
		}
		x.zones[zone] = byProduct
	}
	return x
}

// Load scans root for "{anything}.{tzindex}" subdirectories holding a
// TradingSession.csv and loads each. Subdirectories without a dot or
// without a session file are skipped. Any malformed file fails the load.
func Load(root string, reg *model.Registry) (*Index, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read reference data dir: %w", err)
	}

	zones := make(map[string][]Record)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		_, zone, ok := strings.Cut(entry.Name(), ".")
		if !ok {
			continue
		}
		path := filepath.Join(root, entry.Name(), FileName)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		records, err := loadFile(path, reg)
		if err != nil {
			return nil, err
		}
		zones[zone] = append(zones[zone], records...)
	}
	return New(zones), nil
}

// loadFile parses one TradingSession.csv: a header line, then
// "{YYYYMMDD},{product},{day_session},{night_session},{timezone}" lines
// where a session column is "HHMMSS-HHMMSS" pairs joined by '&'. Day
// windows come first, night windows (when present) after.
func loadFile(path string, reg *model.Registry) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var records []Record
	for i, line := range strings.Split(string(data), "\n") {
		if i == 0 {
			continue // header
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) != 5 {
			return nil, errs.Malformed(path, i+1, "want 5 fields, got %d", len(fields))
		}
		date, err := model.ParseDay(fields[0])
		if err != nil {
			return nil, errs.Malformed(path, i+1, "%v", err)
		}
		windows, err := parseWindows(fields[2])
		if err != nil {
			return nil, errs.Malformed(path, i+1, "day session: %v", err)
		}
		night, err := parseWindows(fields[3])
		if err != nil {
			return nil, errs.Malformed(path, i+1, "night session: %v", err)
		}
		records = append(records, Record{
			Product:  reg.ProductFromName(fields[1]),
			Date:     date,
			Windows:  append(windows, night...),
			Timezone: fields[4],
		})
	}
	return records, nil
}

func parseWindows(s string) ([]Window, error) {
	if s == "" {
		return nil, nil
	}
	var out []Window
	for _, pair := range strings.Split(s, "&") {
		startStr, endStr, ok := strings.Cut(pair, "-")
		if !ok {
			return nil, fmt.Errorf("window %q: want HHMMSS-HHMMSS", pair)
		}
		start, err := model.ParseCompactClock(startStr)
		if err != nil {
			return nil, err
		}
		end, err := model.ParseCompactClock(endStr)
		if err != nil {
			return nil, err
		}
		out = append(out, Window{Start: start, End: end})
	}
	return out, nil
}

// Sessions returns the windows effective for product in the given zone on
// date: the record with the greatest effective date not after date, or,
// when every record postdates the query, the record with the earliest
// effective date overall. The earliest-record fallback is deliberate: the
// oldest known schedule stands in for dates before recorded history. An
// unknown product or zone resolves to nothing.
func (x *Index) Sessions(product model.Product, zone string, date time.Time) ([]Window, bool) {
	byProduct, ok := x.zones[zone]
	if !ok {
		return nil, false
	}
	list := byProduct[product]
	if len(list) == 0 {
		return nil, false
	}
	i := sort.Search(len(list), func(i int) bool { return list[i].Date.After(date) })
	if i == 0 {
		return list[0].Windows, true // all records postdate the query
	}
	return list[i-1].Windows, true
}

// Zones returns the loaded timezone indices, sorted.
func (x *Index) Zones() []string {
	out := make([]string, 0, len(x.zones))
	for zone := range x.zones {
		out = append(out, zone)
	}
	sort.Strings(out)
	return out
}

// ZoneProducts returns every product with session data in the zone,
// sorted by name.
func (x *Index) ZoneProducts(zone string) []model.Product {
	byProduct := x.zones[zone]
	out := make([]model.Product, 0, len(byProduct))
	for p := range byProduct {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}
