// Package tickerinfo maintains the timezone-indexed contract-economics
// reference data (GeneralTickerInfo.csv).
//
// Unlike the session and most-active lookups this is a hard reference
// lookup: records are not effective-dated, and a missing
// (timezone index, product) pair is an error, not a temporal miss.
package tickerinfo

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/jefferypaul/platinum-ds/internal/errs"
	"github.com/jefferypaul/platinum-ds/internal/model"
)

// FileName is the per-zone reference file.
const FileName = "GeneralTickerInfo.csv"

// fieldCount is the fixed column count of GeneralTickerInfo.csv.
const fieldCount = 20

// Prefixes are the asset-class directory names, in resolution order.
var Prefixes = []string{"Futures", "Bonds", "Commodities", "Funds", "Indices", "Options", "Repos", "Stocks"}

// Record holds the contract economics of one product.
type Record struct {
	Product model.Product
	Prefix  string // asset-class folder, one of Prefixes

	Currency           string
	PointValue         float64 // contract value per quoted point
	MinMove            float64 // price change of one tick
	LotSize            float64 // shares per lot
	CommissionOnRate   float64 // commission as a fraction of traded value
	CommissionPerShare float64
	SlippagePoints     float64
	FlatTodayDiscount  float64 // same-day close commission multiplier
	Margin             float64
}

// Index is the loaded reference data keyed by (timezone index, product).
// Immutable after load, safe for concurrent reads.
type Index struct {
	zones map[string]map[model.Product]Record
}

// New builds an Index. Two records for the same (zone, product) key are a
// construction error, mirroring the load behavior.
func New(zones map[string][]Record) (*Index, error) {
	x := &Index{zones: make(map[string]map[model.Product]Record, len(zones))}
	for zone, records := range zones {
		byProduct := make(map[model.Product]Record, len(records))
		for _, rec := range records {
			if _, exists := byProduct[rec.Product]; exists {
				return nil, fmt.Errorf("duplicate ticker info for %s in zone %q", rec.Product.Name(), zone)
			}
			byProduct[rec.Product] = rec
		}
		x.zones[zone] = byProduct
	}
	return x, nil
}

// Load scans root for "{anything}.{tzindex}" subdirectories holding a
// GeneralTickerInfo.csv, the same convention the session index uses. A
// malformed file or a duplicate (zone, product) key fails the load.
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
	return New(zones)
}

// Column order: Adapter, InternalProduct, Exchange, Prefix,
// TradingExchangeZoneIndex, Currency, PointValue, MinMove, LotSize,
// ExchangeRateXxxUsd, CommissionOnRate, CommissionPerShareInXxx,
// MinCommissionInXxx, MaxCommissionInXxx, StampDutyRate, SlippagePoints,
// Product, FlatTodayDiscount, Margin, IsLive.
func loadFile(path string, reg *model.Registry) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ticker info file: %w", err)
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
		if len(fields) != fieldCount {
			return nil, errs.Malformed(path, i+1, "want %d fields, got %d", fieldCount, len(fields))
		}

		prefix := fields[3]
		if !validPrefix(prefix) {
			return nil, errs.Malformed(path, i+1, "unknown prefix %q", prefix)
		}

		nums := make([]float64, 0, 7)
		for _, col := range []int{6, 7, 8, 10, 11, 15, 17} {
			v, err := strconv.ParseFloat(fields[col], 64)
			if err != nil {
				return nil, errs.Malformed(path, i+1, "parse column %d %q: %v", col+1, fields[col], err)
			}
			nums = append(nums, v)
		}
		margin, err := strconv.ParseFloat(fields[18], 64)
		if err != nil {
			return nil, errs.Malformed(path, i+1, "parse margin %q: %v", fields[18], err)
		}

		records = append(records, Record{
			Product:            reg.Product(fields[16], fields[2]),
			Prefix:             prefix,
			Currency:           fields[5],
			PointValue:         nums[0],
			MinMove:            nums[1],
			LotSize:            nums[2],
			CommissionOnRate:   nums[3],
			CommissionPerShare: nums[4],
			SlippagePoints:     nums[5],
			FlatTodayDiscount:  nums[6],
			Margin:             margin,
		})
	}
	return records, nil
}

func validPrefix(s string) bool {
	for _, p := range Prefixes {
		if s == p {
			return true
		}
	}
	return false
}

// Get returns the record for (product, zone). A missing pair reports
// errs.ErrNotFound identifying both keys.
func (x *Index) Get(product model.Product, zone string) (Record, error) {
	rec, ok := x.zones[zone][product]
	if !ok {
		return Record{}, fmt.Errorf("ticker info for %s in zone %q: %w", product.Name(), zone, errs.ErrNotFound)
	}
	return rec, nil
}

// Zone returns every record of a timezone index keyed by product. The map
// is shared and must not be mutated.
func (x *Index) Zone(zone string) (map[model.Product]Record, bool) {
	byProduct, ok := x.zones[zone]
	return byProduct, ok
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
