// Package mostactive maintains the per-product, effective-dated index of
// most-active tickers and their back-adjustment factors.
package mostactive

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jefferypaul/platinum-ds/internal/errs"
	"github.com/jefferypaul/platinum-ds/internal/model"
)

// FileName is the index source file under the store's Data directory.
const FileName = "MostActiveTickers.csv"

// Record marks ticker as the most active contract of its product from
// Date onward (until superseded by a later record).
type Record struct {
	Product          model.Product
	Date             time.Time
	Ticker           model.Ticker
	BackAdjustFactor float64
}

// Index answers "which ticker was most active for this product as of this
// date". Built once at load, immutable, safe for concurrent reads.
type Index struct {
	// byProduct holds records sorted ascending by Date, at most one per
	// (product, date).
	byProduct map[model.Product][]Record
}

// New builds an Index from records. Records may arrive in any order; for
// duplicate (product, date) pairs the later record in input order wins.
func New(records []Record) *Index {
	byProduct := make(map[model.Product][]Record)
	for _, rec := range records {
		list := byProduct[rec.Product]
		replaced := false
		for i := range list {
			if list[i].Date.Equal(rec.Date) {
				list[i] = rec
				replaced = true
				break
			}
		}
		if !replaced {
			list = append(list, rec)
		}
		byProduct[rec.Product] = list
	}
	for p := range byProduct {
		list := byProduct[p]
		sort.SliceStable(list, func(i, j int) bool { return list[i].Date.Before(list[j].Date) })
	}
	return &Index{byProduct: byProduct}
}

// Load reads MostActiveTickers.csv: "{YYYYMMDD},{product},{ticker},{factor}"
// lines, no header. The product is derived from the ticker name, so the
// product column cannot disagree with the ticker column. A malformed line
// fails the whole load.
func Load(path string, reg *model.Registry) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read most-active file: %w", err)
	}

	var records []Record
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) != 4 {
			return nil, errs.Malformed(path, i+1, "want 4 fields, got %d", len(fields))
		}
		date, err := model.ParseDay(fields[0])
		if err != nil {
			return nil, errs.Malformed(path, i+1, "%v", err)
		}
		factor, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return nil, errs.Malformed(path, i+1, "parse back-adjust factor %q: %v", fields[3], err)
		}
		ticker := reg.TickerFromName(fields[2])
		records = append(records, Record{
			Product:          reg.ProductOf(ticker),
			Date:             date,
			Ticker:           ticker,
			BackAdjustFactor: factor,
		})
	}
	return New(records), nil
}

// RecordAt returns the record effective for product on date: the one with
// the greatest Date not after date. There is no forward fallback; a date
// before the product's first record resolves to nothing.
func (x *Index) RecordAt(product model.Product, date time.Time) (Record, bool) {
	list := x.byProduct[product]
	// First index with Date > date; the record before it is the answer.
	i := sort.Search(len(list), func(i int) bool { return list[i].Date.After(date) })
	if i == 0 {
		return Record{}, false
	}
	return list[i-1], true
}

// TickerAt returns the most-active ticker for product as of date.
func (x *Index) TickerAt(product model.Product, date time.Time) (model.Ticker, bool) {
	rec, ok := x.RecordAt(product, date)
	if !ok {
		return model.Ticker{}, false
	}
	return rec.Ticker, true
}

// AllActiveAt resolves every known product as of date. Products with no
// eligible record are omitted.
func (x *Index) AllActiveAt(date time.Time) map[model.Product]model.Ticker {
	out := make(map[model.Product]model.Ticker, len(x.byProduct))
	for product := range x.byProduct {
		if ticker, ok := x.TickerAt(product, date); ok {
			out[product] = ticker
		}
	}
	return out
}

// Products returns every product present in the index, sorted by name.
func (x *Index) Products() []model.Product {
	out := make([]model.Product, 0, len(x.byProduct))
	for p := range x.byProduct {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Records returns the product's records sorted ascending by date. The
// slice is shared and must not be mutated.
func (x *Index) Records(product model.Product) []Record {
	return x.byProduct[product]
}
