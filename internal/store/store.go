package store

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/jefferypaul/platinum-ds/internal/calendar"
	"github.com/jefferypaul/platinum-ds/internal/model"
	"github.com/jefferypaul/platinum-ds/internal/mostactive"
	"github.com/jefferypaul/platinum-ds/internal/session"
	"github.com/jefferypaul/platinum-ds/internal/tickerinfo"
)

// Relative locations inside a data root.
const (
	BarDataRelPath    = "BarData/60"
	MostActiveRelPath = "Data/MostActiveTickers.csv"
	HolidaysRelPath   = "Release/Data/Holidays.csv"
)

// Store is an immutable handle on one data root.
type Store struct {
	root   string
	logger *slog.Logger

	registry   *model.Registry
	calendar   *calendar.Calendar
	mostActive *mostactive.Index
	sessions   *session.Index
	tickerInfo *tickerinfo.Index
}

// Indices bundles the loaded index structures for direct construction.
type Indices struct {
	Registry   *model.Registry
	Calendar   *calendar.Calendar
	MostActive *mostactive.Index
	Sessions   *session.Index
	TickerInfo *tickerinfo.Index
}

// Option configures a Store at open time.
type Option func(*Store)

// WithLogger sets the logger used for per-query diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// Process-wide handles keyed by canonical root path. One data root loads
// once; independent roots (a test fixture next to a production mount)
// coexist without touching each other.
var (
	openMu     sync.Mutex
	openStores = make(map[string]*Store)
)

// Open returns the shared Store for root, loading every index on first
// use. Subsequent opens of the same root (through any path spelling that
// canonicalizes to it) return the same handle.
func Open(root string, opts ...Option) (*Store, error) {
	canonical, err := canonicalRoot(root)
	if err != nil {
		return nil, err
	}

	openMu.Lock()
	defer openMu.Unlock()
	if s, ok := openStores[canonical]; ok {
		return s, nil
	}
	s, err := load(canonical, opts...)
	if err != nil {
		return nil, err
	}
	openStores[canonical] = s
	return s, nil
}

// New builds a Store directly from already-loaded indices, bypassing the
// shared registry. Tests use this to assemble fixtures without touching
// process-wide state.
func New(root string, ix Indices, opts ...Option) *Store {
	s := &Store{
		root:       root,
		logger:     slog.Default(),
		registry:   ix.Registry,
		calendar:   ix.Calendar,
		mostActive: ix.MostActive,
		sessions:   ix.Sessions,
		tickerInfo: ix.TickerInfo,
	}
	if s.registry == nil {
		s.registry = model.NewRegistry()
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func canonicalRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("canonicalize root %q: %w", root, err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	return abs, nil
}

func load(root string, opts ...Option) (*Store, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("data root %q is not a directory", root)
	}

	refData, err := referenceDataDir(root)
	if err != nil {
		return nil, err
	}

	s := New(root, Indices{Registry: model.NewRegistry()}, opts...)

	s.calendar, err = calendar.Load(filepath.Join(root, HolidaysRelPath))
	if err != nil {
		return nil, fmt.Errorf("load holidays: %w", err)
	}
	s.mostActive, err = mostactive.Load(filepath.Join(root, MostActiveRelPath), s.registry)
	if err != nil {
		return nil, fmt.Errorf("load most-active tickers: %w", err)
	}
	s.sessions, err = session.Load(refData, s.registry)
	if err != nil {
		return nil, fmt.Errorf("load trading sessions: %w", err)
	}
	s.tickerInfo, err = tickerinfo.Load(refData, s.registry)
	if err != nil {
		return nil, fmt.Errorf("load ticker info: %w", err)
	}

	s.logger.Info("data store loaded",
		"root", root,
		"session_zones", s.sessions.Zones(),
		"info_zones", s.tickerInfo.Zones(),
	)
	return s, nil
}

// referenceDataDir picks Release/Data, falling back to Debug/Data.
func referenceDataDir(root string) (string, error) {
	for _, rel := range []string{"Release/Data", "Debug/Data"} {
		dir := filepath.Join(root, rel)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir, nil
		}
	}
	return "", fmt.Errorf("data root %q has neither Release/Data nor Debug/Data", root)
}

// Root returns the data root path.
func (s *Store) Root() string { return s.root }

// Registry returns the store's interning registry.
func (s *Store) Registry() *model.Registry { return s.registry }

// Calendar returns the holiday calendar.
func (s *Store) Calendar() *calendar.Calendar { return s.calendar }

// MostActive returns the most-active-ticker index.
func (s *Store) MostActive() *mostactive.Index { return s.mostActive }

// Sessions returns the trading-session index.
func (s *Store) Sessions() *session.Index { return s.sessions }

// TickerInfo returns the general-ticker-info index.
func (s *Store) TickerInfo() *tickerinfo.Index { return s.tickerInfo }
