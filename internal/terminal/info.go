package terminal

import (
	"context"
	"fmt"

	"github.com/jefferypaul/platinum-ds/internal/model"
)

// APITickerInfo is the contract-economics payload of one ticker.
type APITickerInfo struct {
	Ticker     string  `json:"ticker"`
	Exchange   string  `json:"exchange"`
	Currency   string  `json:"currency"`
	PointValue float64 `json:"point_value"`
	MinMove    float64 `json:"min_move"`
	LotSize    float64 `json:"lot_size"`
	Margin     float64 `json:"margin"`
}

// GetTickerInfo fetches the terminal's contract economics for one ticker.
func (c *Client) GetTickerInfo(ctx context.Context, ticker model.Ticker) (*APITickerInfo, error) {
	var resp APITickerInfo
	if err := c.get(ctx, "/info/"+ticker.Name(), nil, &resp); err != nil {
		return nil, fmt.Errorf("get ticker info %s: %w", ticker.Name(), err)
	}
	return &resp, nil
}
