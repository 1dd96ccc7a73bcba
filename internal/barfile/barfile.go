// Package barfile encodes and decodes the per-(ticker, day) minute-bar CSV
// files: 8 comma-separated fields per line
// (time, open, high, low, close, volume, price, open_interest), no header,
// ordered by time ascending with no duplicate times.
package barfile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jefferypaul/platinum-ds/internal/errs"
	"github.com/jefferypaul/platinum-ds/internal/model"
)

// fieldCount is the fixed per-line field count.
const fieldCount = 8

// Decode parses the raw content of one bar file for the given ticker and
// trading day. A line with the wrong field count, an unparsable value, or
// a time not strictly after the previous line fails with a
// MalformedRecordError carrying file and line; callers decide whether to
// skip the file or abort.
func Decode(data []byte, ticker model.Ticker, day time.Time, file string) ([]model.Bar, error) {
	var bars []model.Bar
	prev := model.TimeOfDay(-1)
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) != fieldCount {
			return nil, errs.Malformed(file, i+1, "want %d fields, got %d", fieldCount, len(fields))
		}
		tod, err := model.ParseClock(fields[0])
		if err != nil {
			return nil, errs.Malformed(file, i+1, "%v", err)
		}
		if tod <= prev {
			return nil, errs.Malformed(file, i+1, "non-monotonic time %s after %s", tod, prev)
		}
		prev = tod

		vals := make([]float64, fieldCount-1)
		for j, s := range fields[1:] {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, errs.Malformed(file, i+1, "parse field %d %q: %v", j+2, s, err)
			}
			vals[j] = v
		}
		bars = append(bars, model.Bar{
			Ticker:          ticker,
			Date:            day,
			Time:            tod,
			Open:            vals[0],
			High:            vals[1],
			Low:             vals[2],
			Close:           vals[3],
			Volume:          vals[4],
			Price:           vals[5],
			OpenInterest:    vals[6],
			IntervalSeconds: model.DefaultBarInterval,
		})
	}
	return bars, nil
}

// DecodeFile reads and decodes one bar file, recovering the ticker from
// the file name and the trading day from the parent directory
// ({YYYYMMDD}/{ticker}.csv).
func DecodeFile(path string, reg *model.Registry) ([]model.Bar, error) {
	ticker, day, err := SplitPath(path, reg)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bar file: %w", err)
	}
	return Decode(data, ticker, day, path)
}

// SplitPath recovers (ticker, trading day) from a bar file path of the
// form .../{YYYYMMDD}/{ticker}.csv.
func SplitPath(path string, reg *model.Registry) (model.Ticker, time.Time, error) {
	name := strings.TrimSuffix(filepath.Base(path), ".csv")
	day, err := model.ParseDay(filepath.Base(filepath.Dir(path)))
	if err != nil {
		return model.Ticker{}, time.Time{}, fmt.Errorf("bar file path %q: %w", path, err)
	}
	return reg.TickerFromName(name), day, nil
}

// Encode serializes bars into file content, sorting a copy by time
// ascending first so that encoding is order-independent on input.
func Encode(bars []model.Bar) []byte {
	sorted := make([]model.Bar, len(bars))
	copy(sorted, bars)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time < sorted[j].Time })

	var b strings.Builder
	for _, bar := range sorted {
		b.WriteString(bar.Time.Clock())
		for _, v := range []float64{bar.Open, bar.High, bar.Low, bar.Close, bar.Volume, bar.Price, bar.OpenInterest} {
			b.WriteByte(',')
			b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		}
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// WriteFile encodes bars and writes them to path, creating parent
// directories as needed.
func WriteFile(path string, bars []model.Bar) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create bar dir: %w", err)
	}
	if err := os.WriteFile(path, Encode(bars), 0o644); err != nil {
		return fmt.Errorf("write bar file: %w", err)
	}
	return nil
}
