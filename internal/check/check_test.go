package check

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/jefferypaul/platinum-ds/internal/barfile"
	"github.com/jefferypaul/platinum-ds/internal/calendar"
	"github.com/jefferypaul/platinum-ds/internal/model"
	"github.com/jefferypaul/platinum-ds/internal/mostactive"
	"github.com/jefferypaul/platinum-ds/internal/session"
	"github.com/jefferypaul/platinum-ds/internal/store"
	"github.com/jefferypaul/platinum-ds/internal/tickerinfo"
)

var (
	rb     = model.Product{Symbol: "rb", Exchange: "SHFE"}
	rb2405 = model.Ticker{Symbol: "rb2405", Exchange: "SHFE"}
	jun3   = model.Day(2024, 6, 3)
)

func clock(t *testing.T, s string) model.TimeOfDay {
	t.Helper()
	tod, err := model.ParseClock(s)
	if err != nil {
		t.Fatal(err)
	}
	return tod
}

func newTestStore(t *testing.T, sessions map[string][]session.Record) *store.Store {
	t.Helper()
	info, err := tickerinfo.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	return store.New(t.TempDir(), store.Indices{
		Calendar:   calendar.New(nil),
		MostActive: mostactive.New(nil),
		Sessions:   session.New(sessions),
		TickerInfo: info,
	})
}

func writeBars(t *testing.T, st *store.Store, ticker model.Ticker, day time.Time, clocks ...string) {
	t.Helper()
	bars := make([]model.Bar, 0, len(clocks))
	for _, c := range clocks {
		bars = append(bars, model.Bar{
			Ticker: ticker, Date: day, Time: clock(t, c),
			Open: 100, High: 101, Low: 99, Close: 100, Volume: 10, Price: 100, OpenInterest: 500,
			IntervalSeconds: model.DefaultBarInterval,
		})
	}
	path := filepath.Join(st.Root(), store.BarDataRelPath, "Futures", model.FormatDay(day), ticker.Name()+".csv")
	if err := barfile.WriteFile(path, bars); err != nil {
		t.Fatal(err)
	}
}

func TestCheckProductReportsMissingMinutes(t *testing.T) {
	st := newTestStore(t, map[string][]session.Record{
		"210": {{
			Product: rb,
			Date:    model.Day(2020, 1, 1),
			Windows: []session.Window{{Start: clock(t, "09:00:00"), End: clock(t, "09:04:00")}},
		}},
	})
	// 09:02 and 09:04 missing from the expected 09:01..09:04.
	writeBars(t, st, rb2405, jun3, "09:01:00", "09:03:00")

	gaps, err := New(st, nil).CheckProduct(t.Context(), rb, "210", jun3, time.Time{}, true)
	if err != nil {
		t.Fatalf("CheckProduct failed: %v", err)
	}
	if len(gaps) != 1 {
		t.Fatalf("gaps = %d, want 1", len(gaps))
	}
	g := gaps[0]
	if g.Ticker != rb2405 || !g.Date.Equal(jun3) {
		t.Errorf("gap identity = (%v, %v), want (rb2405.SHFE, 2024-06-03)", g.Ticker, g.Date)
	}
	if len(g.Missing) != 2 || g.Missing[0].Clock() != "09:02:00" || g.Missing[1].Clock() != "09:04:00" {
		t.Errorf("missing = %v, want [09:02:00 09:04:00]", g.Missing)
	}
}

func TestCheckProductCompleteDayHasNoGaps(t *testing.T) {
	st := newTestStore(t, map[string][]session.Record{
		"210": {{
			Product: rb,
			Date:    model.Day(2020, 1, 1),
			Windows: []session.Window{{Start: clock(t, "09:00:00"), End: clock(t, "09:02:00")}},
		}},
	})
	writeBars(t, st, rb2405, jun3, "09:01:00", "09:02:00")

	gaps, err := New(st, nil).CheckProduct(t.Context(), rb, "210", jun3, time.Time{}, true)
	if err != nil {
		t.Fatalf("CheckProduct failed: %v", err)
	}
	if len(gaps) != 0 {
		t.Errorf("gaps = %v, want none", gaps)
	}
}

func TestCheckProductSkipsDaysWithoutSessionRecord(t *testing.T) {
	st := newTestStore(t, nil)
	writeBars(t, st, rb2405, jun3, "09:01:00")

	gaps, err := New(st, nil).CheckProduct(t.Context(), rb, "210", jun3, time.Time{}, true)
	if err != nil {
		t.Fatalf("CheckProduct failed: %v", err)
	}
	if len(gaps) != 0 {
		t.Errorf("gaps = %v, want none without session reference", gaps)
	}
}

func TestCheckMostActive(t *testing.T) {
	info, err := tickerinfo.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	st := store.New(t.TempDir(), store.Indices{
		Calendar: calendar.New(nil),
		MostActive: mostactive.New([]mostactive.Record{
			{Product: rb, Date: model.Day(2024, 1, 1), Ticker: rb2405, BackAdjustFactor: 1},
		}),
		Sessions:   session.New(nil),
		TickerInfo: info,
	})
	// File exists on jun3 only; jun4 is a gap. 2023 predates the index
	// and must not be reported.
	writeBars(t, st, rb2405, jun3, "09:01:00")

	missing, err := New(st, nil).CheckMostActive(t.Context(), rb, jun3, model.Day(2024, 6, 4), true)
	if err != nil {
		t.Fatalf("CheckMostActive failed: %v", err)
	}
	if len(missing) != 1 || !missing[0].Equal(model.Day(2024, 6, 4)) {
		t.Errorf("missing = %v, want [2024-06-04]", missing)
	}

	before, err := New(st, nil).CheckMostActive(t.Context(), rb, model.Day(2023, 6, 1), time.Time{}, true)
	if err != nil {
		t.Fatalf("CheckMostActive failed: %v", err)
	}
	if len(before) != 0 {
		t.Errorf("missing = %v, want none before the first record", before)
	}
}

func TestCheckProductIgnoresOvernightWindows(t *testing.T) {
	st := newTestStore(t, map[string][]session.Record{
		"210": {{
			Product: rb,
			Date:    model.Day(2020, 1, 1),
			Windows: []session.Window{{Start: clock(t, "21:00:00"), End: clock(t, "02:30:00")}},
		}},
	})
	writeBars(t, st, rb2405, jun3, "21:01:00")

	gaps, err := New(st, nil).CheckProduct(t.Context(), rb, "210", jun3, time.Time{}, true)
	if err != nil {
		t.Fatalf("CheckProduct failed: %v", err)
	}
	if len(gaps) != 0 {
		t.Errorf("gaps = %v, want none for a wrapping window", gaps)
	}
}
