package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jefferypaul/platinum-ds/internal/model"
)

const header = "Date,ProductInfo,DaySession,NightSession,ExchangeTimezone\n"

var ap = model.Product{Symbol: "AP", Exchange: "CZCE"}

func writeZone(t *testing.T, root, dir, content string) {
	t.Helper()
	zoneDir := filepath.Join(root, dir)
	if err := os.MkdirAll(zoneDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(zoneDir, FileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadAndLookup(t *testing.T) {
	root := t.TempDir()
	writeZone(t, root, "China.210", header+
		"20200101,AP.CZCE,090000-101500&103000-113000&133000-150000,,210\n"+
		"20240101,AP.CZCE,093000-113000&133000-150000,,210\n"+
		"20200101,rb.SHFE,090000-101500&103000-113000&133000-150000,210000-230000,210\n")

	x, err := Load(root, model.NewRegistry())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Between the two effective dates: the older record applies.
	windows, ok := x.Sessions(ap, "210", model.Day(2022, 6, 1))
	if !ok {
		t.Fatal("sessions not found")
	}
	if len(windows) != 3 {
		t.Fatalf("windows = %d, want 3", len(windows))
	}

	// On/after the newer effective date: the newer record applies.
	windows, ok = x.Sessions(ap, "210", model.Day(2024, 1, 1))
	if !ok || len(windows) != 2 {
		t.Fatalf("windows = %d (ok=%v), want 2", len(windows), ok)
	}
	wantStart, _ := model.ParseCompactClock("093000")
	if windows[0].Start != wantStart {
		t.Errorf("first window start = %v, want %v", windows[0].Start, wantStart)
	}
}

func TestEarlierThanAnyRecordFallsBackToEarliest(t *testing.T) {
	root := t.TempDir()
	writeZone(t, root, "China.210", header+
		"20200101,AP.CZCE,090000-113000,,210\n"+
		"20240101,AP.CZCE,093000-113000,,210\n")

	x, err := Load(root, model.NewRegistry())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// 1999 predates both records: the earliest schedule is used, not None.
	windows, ok := x.Sessions(ap, "210", model.Day(1999, 1, 1))
	if !ok {
		t.Fatal("want earliest-record fallback, got not found")
	}
	wantStart, _ := model.ParseCompactClock("090000")
	if len(windows) != 1 || windows[0].Start != wantStart {
		t.Errorf("windows = %v, want the 2020 schedule", windows)
	}
}

func TestNightSessionAppended(t *testing.T) {
	root := t.TempDir()
	writeZone(t, root, "China.210", header+
		"20200101,rb.SHFE,090000-113000&133000-150000,210000-230000,210\n")

	x, err := Load(root, model.NewRegistry())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	rb := model.Product{Symbol: "rb", Exchange: "SHFE"}
	windows, ok := x.Sessions(rb, "210", model.Day(2024, 1, 2))
	if !ok || len(windows) != 3 {
		t.Fatalf("windows = %d (ok=%v), want 3 (day + night)", len(windows), ok)
	}
	nightStart, _ := model.ParseCompactClock("210000")
	if windows[2].Start != nightStart {
		t.Errorf("night window start = %v, want %v", windows[2].Start, nightStart)
	}
}

func TestUnknownProductAndZone(t *testing.T) {
	root := t.TempDir()
	writeZone(t, root, "China.210", header+"20200101,AP.CZCE,090000-113000,,210\n")

	x, err := Load(root, model.NewRegistry())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, ok := x.Sessions(model.Product{Symbol: "zz", Exchange: "X"}, "210", model.Day(2024, 1, 1)); ok {
		t.Error("unknown product should not resolve")
	}
	if _, ok := x.Sessions(ap, "800", model.Day(2024, 1, 1)); ok {
		t.Error("unknown zone should not resolve")
	}
}

func TestDottedZoneIndex(t *testing.T) {
	root := t.TempDir()
	// Everything after the first dot is the zone key.
	writeZone(t, root, "Europe.emea.100", header+"20200101,FDAX.EUREX,080000-170000,,100\n")
	// A directory without a dot does not follow the convention.
	writeZone(t, root, "Scratch", header+"20200101,zz.X,080000-170000,,100\n")

	x, err := Load(root, model.NewRegistry())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	zones := x.Zones()
	if len(zones) != 1 || zones[0] != "emea.100" {
		t.Fatalf("Zones = %v, want [emea.100]", zones)
	}
	fdax := model.Product{Symbol: "FDAX", Exchange: "EUREX"}
	if _, ok := x.Sessions(fdax, "emea.100", model.Day(2024, 1, 1)); !ok {
		t.Error("dotted zone index lookup failed")
	}
}

func TestZoneProducts(t *testing.T) {
	root := t.TempDir()
	writeZone(t, root, "China.210", header+
		"20200101,rb.SHFE,090000-113000,,210\n"+
		"20200101,AP.CZCE,090000-113000,,210\n")

	x, err := Load(root, model.NewRegistry())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	products := x.ZoneProducts("210")
	if len(products) != 2 || products[0].Name() != "AP.CZCE" || products[1].Name() != "rb.SHFE" {
		t.Errorf("ZoneProducts = %v, want [AP.CZCE rb.SHFE]", products)
	}
}
