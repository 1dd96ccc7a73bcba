package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jefferypaul/platinum-ds/internal/calendar"
	"github.com/jefferypaul/platinum-ds/internal/model"
	"github.com/jefferypaul/platinum-ds/internal/mostactive"
	"github.com/jefferypaul/platinum-ds/internal/session"
	"github.com/jefferypaul/platinum-ds/internal/tickerinfo"
)

const barLine = "09:01:00,100,101,99,100.5,1200,100.5,5000\n"

// writeFixtureRoot lays out a minimal data root:
//
//	Holidays: SHFE 2024-06-06, no entry for DCE
//	Most active: rb -> rb2405 from 2024-01-01, rb2410 from 2024-06-01
//	Bars on 2024-06-03: Futures/{rb2405,rb2410}.SHFE, Commodities/{au2412.SHFE, m2409.DCE}
//	Bars on 2024-06-04: Commodities/{rb2405,rb2410}.SHFE (Futures dir empty)
func writeFixtureRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	mustWrite := func(rel, content string) {
		t.Helper()
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	mustWrite("Release/Data/Holidays.csv", "SHFE,2024/06/06\n")
	mustWrite("Data/MostActiveTickers.csv",
		"20240101,rb,rb2405.SHFE,1\n20240601,rb,rb2410.SHFE,0.5\n")
	mustWrite("Release/Data/China.210/TradingSession.csv",
		"Date,ProductInfo,DaySession,NightSession,ExchangeTimezone\n"+
			"20200101,rb.SHFE,090000-113000&133000-150000,210000-230000,210\n")
	mustWrite("Release/Data/China.210/GeneralTickerInfo.csv",
		"Adapter,InternalProduct,Exchange,Prefix,TradingExchangeZoneIndex,Currency,"+
			"PointValue,MinMove,LotSize,ExchangeRateXxxUsd,CommissionOnRate,CommissionPerShareInXxx,"+
			"MinCommissionInXxx,MaxCommissionInXxx,StampDutyRate,"+
			"SlippagePoints,Product,FlatTodayDiscount,Margin,IsLive\n"+
			"CTP,SQrb,SHFE,Futures,210,CNY,10,1,1,0.15,0.0001,0,0,10000,0,1,rb,1,10,TRUE\n")

	mustWrite("BarData/60/Futures/20240603/rb2405.SHFE.csv", barLine)
	mustWrite("BarData/60/Futures/20240603/rb2410.SHFE.csv", barLine)
	mustWrite("BarData/60/Commodities/20240603/au2412.SHFE.csv", barLine)
	mustWrite("BarData/60/Commodities/20240603/m2409.DCE.csv", barLine)

	if err := os.MkdirAll(filepath.Join(root, "BarData/60/Futures/20240604"), 0o755); err != nil {
		t.Fatal(err)
	}
	mustWrite("BarData/60/Commodities/20240604/rb2405.SHFE.csv", barLine)
	mustWrite("BarData/60/Commodities/20240604/rb2410.SHFE.csv", barLine)

	return root
}

func openFixture(t *testing.T) *Store {
	t.Helper()
	s, err := Open(writeFixtureRoot(t))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return s
}

var (
	rbProduct = model.Product{Symbol: "rb", Exchange: "SHFE"}
	rb2405    = model.Ticker{Symbol: "rb2405", Exchange: "SHFE"}
	jun3      = model.Day(2024, 6, 3)
	jun4      = model.Day(2024, 6, 4)
)

func TestOpenReturnsSharedHandlePerRoot(t *testing.T) {
	root := writeFixtureRoot(t)

	a, err := Open(root)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	b, err := Open(filepath.Join(root, ".", "."))
	if err != nil {
		t.Fatalf("second Open failed: %v", err)
	}
	if a != b {
		t.Error("same root should yield the same handle")
	}

	other, err := Open(writeFixtureRoot(t))
	if err != nil {
		t.Fatalf("Open of second root failed: %v", err)
	}
	if other == a {
		t.Error("independent roots must not share a handle")
	}
}

func TestResolveTickerPaths(t *testing.T) {
	s := openFixture(t)

	paths, err := s.ResolvePaths(t.Context(), rb2405, jun3, jun4, Normal, true)
	if err != nil {
		t.Fatalf("ResolvePaths failed: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("days = %d, want 2", len(paths))
	}
	// 2024-06-03: found under Futures, the first probed prefix.
	if got := paths[jun3]; len(got) != 1 || filepath.Base(filepath.Dir(filepath.Dir(got[0]))) != "Futures" {
		t.Errorf("paths[jun3] = %v, want one file under Futures", got)
	}
	// 2024-06-04: Futures dir exists but is empty; the probe continues to
	// Commodities.
	if got := paths[jun4]; len(got) != 1 || filepath.Base(filepath.Dir(filepath.Dir(got[0]))) != "Commodities" {
		t.Errorf("paths[jun4] = %v, want one file under Commodities", got)
	}
}

func TestResolveTickerPathsMissingDayIsEmpty(t *testing.T) {
	s := openFixture(t)

	day := model.Day(2024, 6, 5)
	paths, err := s.ResolvePaths(t.Context(), rb2405, day, time.Time{}, Normal, true)
	if err != nil {
		t.Fatalf("ResolvePaths failed: %v", err)
	}
	got, ok := paths[day]
	if !ok {
		t.Fatal("day absent from result; a gap must map to an empty list")
	}
	if len(got) != 0 {
		t.Errorf("paths = %v, want empty", got)
	}
}

func TestResolveProductNormalFirstNonEmptyPrefixWins(t *testing.T) {
	s := openFixture(t)

	// 2024-06-04: Futures yields no rb files, Commodities yields two; the
	// search must try Commodities and stop there.
	paths, err := s.ResolvePaths(t.Context(), rbProduct, jun4, time.Time{}, Normal, true)
	if err != nil {
		t.Fatalf("ResolvePaths failed: %v", err)
	}
	got := paths[jun4]
	if len(got) != 2 {
		t.Fatalf("paths = %v, want the two Commodities rb files", got)
	}
	for _, p := range got {
		if filepath.Base(filepath.Dir(filepath.Dir(p))) != "Commodities" {
			t.Errorf("path %s not under Commodities", p)
		}
	}

	// 2024-06-03: Futures yields rb files, so au2412 under Commodities is
	// never considered and non-rb tickers are filtered out.
	paths, err = s.ResolvePaths(t.Context(), rbProduct, jun3, time.Time{}, Normal, true)
	if err != nil {
		t.Fatalf("ResolvePaths failed: %v", err)
	}
	got = paths[jun3]
	if len(got) != 2 {
		t.Fatalf("paths = %v, want the two Futures rb files", got)
	}
	for _, p := range got {
		if filepath.Base(filepath.Dir(filepath.Dir(p))) != "Futures" {
			t.Errorf("path %s not under Futures", p)
		}
	}
}

func TestResolveProductBackAdjusted(t *testing.T) {
	s := openFixture(t)

	paths, err := s.ResolvePaths(t.Context(), rbProduct, jun3, jun4, BackAdjusted, true)
	if err != nil {
		t.Fatalf("ResolvePaths failed: %v", err)
	}
	// rb2410 is most active from 2024-06-01 on; exactly its file per day.
	for _, day := range []time.Time{jun3, jun4} {
		got := paths[day]
		if len(got) != 1 || filepath.Base(got[0]) != "rb2410.SHFE.csv" {
			t.Errorf("paths[%s] = %v, want rb2410.SHFE.csv", model.FormatDay(day), got)
		}
	}
}

func TestResolveBackAdjustedWithoutActiveTickerIsEmpty(t *testing.T) {
	s := openFixture(t)

	day := model.Day(2023, 6, 1) // before the first most-active record
	paths, err := s.ResolvePaths(t.Context(), rbProduct, day, time.Time{}, BackAdjusted, true)
	if err != nil {
		t.Fatalf("ResolvePaths failed: %v", err)
	}
	if got := paths[day]; len(got) != 0 {
		t.Errorf("paths = %v, want empty when no most-active record exists", got)
	}
}

func TestResolveHolidayFiltering(t *testing.T) {
	s := openFixture(t)

	// 2024-06-06 is a SHFE holiday: excluded from range queries.
	paths, err := s.ResolvePaths(t.Context(), rb2405, model.Day(2024, 6, 5), model.Day(2024, 6, 7), Normal, true)
	if err != nil {
		t.Fatalf("ResolvePaths failed: %v", err)
	}
	if _, ok := paths[model.Day(2024, 6, 6)]; ok {
		t.Error("holiday present in range resolution")
	}

	// DCE has no holiday entry: the SHFE set applies to m.DCE too.
	m2409 := model.Ticker{Symbol: "m2409", Exchange: "DCE"}
	paths, err = s.ResolvePaths(t.Context(), m2409, model.Day(2024, 6, 6), model.Day(2024, 6, 7), Normal, true)
	if err != nil {
		t.Fatalf("ResolvePaths failed: %v", err)
	}
	if len(paths) != 1 {
		t.Errorf("days = %v, want only 2024-06-07", paths.Days())
	}
}

func TestResolveInvalidArguments(t *testing.T) {
	s := openFixture(t)

	if _, err := s.ResolvePaths(t.Context(), rb2405, jun3, jun4, BackAdjusted, true); err == nil {
		t.Error("back-adjusting a ticker should fail")
	}
	if _, err := s.ResolvePaths(t.Context(), rbProduct, jun4, jun3, Normal, true); err == nil {
		t.Error("inverted range should fail")
	}
}

func TestResolveExchangePaths(t *testing.T) {
	s := openFixture(t)

	paths, err := s.ResolveExchangePaths(t.Context(), "SHFE", jun3, time.Time{}, true)
	if err != nil {
		t.Fatalf("ResolveExchangePaths failed: %v", err)
	}
	// All prefixes contribute: rb2405+rb2410 (Futures) and au2412
	// (Commodities), but not m2409.DCE.
	if got := paths[jun3]; len(got) != 3 {
		t.Errorf("paths = %v, want 3 SHFE files across prefixes", got)
	}
}

func TestReadBarsBackAdjustedScaling(t *testing.T) {
	s := openFixture(t)

	bars, err := s.ReadBars(t.Context(), rbProduct, jun3, time.Time{}, BackAdjusted, true)
	if err != nil {
		t.Fatalf("ReadBars failed: %v", err)
	}
	got := bars[jun3]
	if len(got) != 1 {
		t.Fatalf("bars = %d, want 1", len(got))
	}
	// Factor 0.5 applies to prices, not volume or open interest.
	b := got[0]
	if b.Open != 50 || b.High != 50.5 || b.Low != 49.5 || b.Close != 50.25 || b.Price != 50.25 {
		t.Errorf("scaled prices = %+v, want halved", b)
	}
	if b.Volume != 1200 || b.OpenInterest != 5000 {
		t.Errorf("volume/open interest = (%v, %v), must be unscaled", b.Volume, b.OpenInterest)
	}
}

func TestReadBarsNormal(t *testing.T) {
	s := openFixture(t)

	bars, err := s.ReadBars(t.Context(), rbProduct, jun3, time.Time{}, Normal, true)
	if err != nil {
		t.Fatalf("ReadBars failed: %v", err)
	}
	got := bars[jun3]
	if len(got) != 2 {
		t.Fatalf("bars = %d, want one per rb contract", len(got))
	}
	if got[0].Open != 100 {
		t.Errorf("Open = %v, want unscaled 100", got[0].Open)
	}
}

func TestReadBarsBulk(t *testing.T) {
	s := openFixture(t)

	results, err := s.ReadBarsBulk(t.Context(),
		[]model.Instrument{rbProduct, rb2405}, jun3, jun4, Normal, true, 4)
	if err != nil {
		t.Fatalf("ReadBarsBulk failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if len(results["rb.SHFE"][jun3]) != 2 {
		t.Errorf("rb.SHFE jun3 bars = %d, want 2", len(results["rb.SHFE"][jun3]))
	}
	if len(results["rb2405.SHFE"][jun4]) != 1 {
		t.Errorf("rb2405.SHFE jun4 bars = %d, want 1", len(results["rb2405.SHFE"][jun4]))
	}
}

func TestNewDirectConstruction(t *testing.T) {
	// Tests can assemble a store without touching the process registry.
	cal := calendar.New(map[string][]time.Time{"SHFE": {model.Day(2024, 1, 1)}})
	ma := mostactive.New(nil)
	sess := session.New(nil)
	info, err := tickerinfo.New(nil)
	if err != nil {
		t.Fatal(err)
	}

	s := New(t.TempDir(), Indices{
		Calendar:   cal,
		MostActive: ma,
		Sessions:   sess,
		TickerInfo: info,
	})

	day := model.Day(2024, 1, 1)
	paths, err := s.ResolvePaths(t.Context(), rb2405, day, time.Time{}, Normal, true)
	if err != nil {
		t.Fatalf("ResolvePaths failed: %v", err)
	}
	if got := paths[day]; len(got) != 0 {
		t.Errorf("paths = %v, want empty on an empty root", got)
	}
}
