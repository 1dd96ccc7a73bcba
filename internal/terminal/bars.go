package terminal

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/jefferypaul/platinum-ds/internal/model"
)

// APIBar is a minute bar as returned by the terminal.
type APIBar struct {
	Date         string  `json:"date"` // YYYYMMDD
	Time         string  `json:"time"` // HH:MM:SS
	Open         float64 `json:"open"`
	High         float64 `json:"high"`
	Low          float64 `json:"low"`
	Close        float64 `json:"close"`
	Volume       float64 `json:"volume"`
	Price        float64 `json:"price"`
	OpenInterest float64 `json:"open_interest"`
}

// BarsResponse is the paginated minute-bar payload.
type BarsResponse struct {
	Ticker string   `json:"ticker"`
	Bars   []APIBar `json:"bars"`
	Cursor string   `json:"cursor"`
}

// StatusResponse reports terminal availability.
type StatusResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// GetStatus fetches the terminal status endpoint.
func (c *Client) GetStatus(ctx context.Context) (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.get(ctx, "/status", nil, &resp); err != nil {
		return nil, fmt.Errorf("get status: %w", err)
	}
	return &resp, nil
}

// GetMinuteBars fetches all minute bars of one ticker over the inclusive
// date range [start, end], paginating through results, and converts them to
// the internal bar type.
func (c *Client) GetMinuteBars(ctx context.Context, ticker model.Ticker, start, end time.Time) ([]model.Bar, error) {
	query := url.Values{}
	query.Set("start_date", model.FormatDay(start))
	query.Set("end_date", model.FormatDay(end))

	var bars []model.Bar
	for {
		var resp BarsResponse
		if err := c.get(ctx, "/bars/minute/"+ticker.Name(), query, &resp); err != nil {
			return nil, fmt.Errorf("get minute bars %s: %w", ticker.Name(), err)
		}

		for _, ab := range resp.Bars {
			bar, err := convertBar(ab, ticker)
			if err != nil {
				return nil, fmt.Errorf("minute bars %s: %w", ticker.Name(), err)
			}
			bars = append(bars, bar)
		}

		if resp.Cursor == "" {
			break
		}
		query.Set("cursor", resp.Cursor)
	}

	return bars, nil
}

func convertBar(ab APIBar, ticker model.Ticker) (model.Bar, error) {
	day, err := model.ParseDay(ab.Date)
	if err != nil {
		return model.Bar{}, fmt.Errorf("bar date %q: %w", ab.Date, err)
	}
	tod, err := model.ParseClock(ab.Time)
	if err != nil {
		return model.Bar{}, fmt.Errorf("bar time %q: %w", ab.Time, err)
	}
	return model.Bar{
		Ticker:          ticker,
		Date:            day,
		Time:            tod,
		Open:            ab.Open,
		High:            ab.High,
		Low:             ab.Low,
		Close:           ab.Close,
		Volume:          ab.Volume,
		Price:           ab.Price,
		OpenInterest:    ab.OpenInterest,
		IntervalSeconds: model.DefaultBarInterval,
	}, nil
}
