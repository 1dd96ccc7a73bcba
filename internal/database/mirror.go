package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jefferypaul/platinum-ds/internal/mostactive"
	"github.com/jefferypaul/platinum-ds/internal/tickerinfo"
)

// Mirror writes reference indices into PostgreSQL. Each sync carries a
// run ID so overlapping runs can be told apart in the audit columns.
type Mirror struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// NewMirror creates a Mirror on an existing pool.
func NewMirror(db *pgxpool.Pool, logger *slog.Logger) *Mirror {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mirror{db: db, logger: logger}
}

// UpsertMostActive mirrors the full most-active-ticker index. Rows are
// keyed by (product, effective date); re-running a sync updates in place.
func (m *Mirror) UpsertMostActive(ctx context.Context, index *mostactive.Index) error {
	runID := uuid.New()
	start := time.Now()

	batch := &pgx.Batch{}
	count := 0
	for _, product := range index.Products() {
		for _, rec := range index.Records(product) {
			batch.Queue(`
				INSERT INTO most_active_tickers (product, effective_date, ticker, back_adjust_factor, sync_run_id, synced_at)
				VALUES ($1, $2, $3, $4, $5, now())
				ON CONFLICT (product, effective_date) DO UPDATE
				SET ticker = EXCLUDED.ticker,
				    back_adjust_factor = EXCLUDED.back_adjust_factor,
				    sync_run_id = EXCLUDED.sync_run_id,
				    synced_at = EXCLUDED.synced_at
			`, rec.Product.Name(), rec.Date, rec.Ticker.Name(), rec.BackAdjustFactor, runID)
			count++
		}
	}

	if err := m.send(ctx, batch, count); err != nil {
		return fmt.Errorf("upsert most-active tickers: %w", err)
	}

	m.logger.Info("mirrored most-active tickers",
		"rows", count,
		"run_id", runID,
		"duration", time.Since(start),
	)
	return nil
}

// UpsertTickerInfo mirrors the general-ticker-info index for every zone.
// Rows are keyed by (zone, product).
func (m *Mirror) UpsertTickerInfo(ctx context.Context, index *tickerinfo.Index) error {
	runID := uuid.New()
	start := time.Now()

	batch := &pgx.Batch{}
	count := 0
	for _, zone := range index.Zones() {
		records, _ := index.Zone(zone)
		for _, rec := range records {
			batch.Queue(`
				INSERT INTO ticker_info (zone, product, prefix, currency, point_value, min_move, lot_size,
				                         commission_on_rate, commission_per_share, slippage_points,
				                         flat_today_discount, margin, sync_run_id, synced_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, now())
				ON CONFLICT (zone, product) DO UPDATE
				SET prefix = EXCLUDED.prefix,
				    currency = EXCLUDED.currency,
				    point_value = EXCLUDED.point_value,
				    min_move = EXCLUDED.min_move,
				    lot_size = EXCLUDED.lot_size,
				    commission_on_rate = EXCLUDED.commission_on_rate,
				    commission_per_share = EXCLUDED.commission_per_share,
				    slippage_points = EXCLUDED.slippage_points,
				    flat_today_discount = EXCLUDED.flat_today_discount,
				    margin = EXCLUDED.margin,
				    sync_run_id = EXCLUDED.sync_run_id,
				    synced_at = EXCLUDED.synced_at
			`, zone, rec.Product.Name(), rec.Prefix, rec.Currency, rec.PointValue, rec.MinMove, rec.LotSize,
				rec.CommissionOnRate, rec.CommissionPerShare, rec.SlippagePoints,
				rec.FlatTodayDiscount, rec.Margin, runID)
			count++
		}
	}

	if err := m.send(ctx, batch, count); err != nil {
		return fmt.Errorf("upsert ticker info: %w", err)
	}

	m.logger.Info("mirrored ticker info",
		"rows", count,
		"run_id", runID,
		"duration", time.Since(start),
	)
	return nil
}

// UpsertHolidays mirrors the holiday calendar, keyed by (exchange, date).
func (m *Mirror) UpsertHolidays(ctx context.Context, holidays map[string][]time.Time) error {
	runID := uuid.New()

	batch := &pgx.Batch{}
	count := 0
	for exchange, dates := range holidays {
		for _, date := range dates {
			batch.Queue(`
				INSERT INTO holidays (exchange, holiday_date, sync_run_id, synced_at)
				VALUES ($1, $2, $3, now())
				ON CONFLICT (exchange, holiday_date) DO UPDATE
				SET sync_run_id = EXCLUDED.sync_run_id,
				    synced_at = EXCLUDED.synced_at
			`, exchange, date, runID)
			count++
		}
	}

	if err := m.send(ctx, batch, count); err != nil {
		return fmt.Errorf("upsert holidays: %w", err)
	}

	m.logger.Info("mirrored holidays", "rows", count, "run_id", runID)
	return nil
}

func (m *Mirror) send(ctx context.Context, batch *pgx.Batch, count int) error {
	if count == 0 {
		return nil
	}
	results := m.db.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < count; i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}
	return nil
}
