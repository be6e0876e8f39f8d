package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"fx_dashboard/internal/models"
)

// GetMACD — последняя точка MACD(12,26,9) по close.
func (c *Client) GetMACD(ctx context.Context, base, quote, timeframe string) (models.MACDPoint, error) {
	params := url.Values{}
	params.Set("function", "MACD")
	params.Set("symbol", base+quote)
	params.Set("interval", "daily")
	params.Set("series_type", "close")

	payload, err := c.query(ctx, params)
	if err != nil {
		return models.MACDPoint{}, err
	}

	raw, ok := payload["Technical Analysis: MACD"]
	if !ok {
		return models.MACDPoint{}, fmt.Errorf("%w: no MACD in response", models.ErrProviderUnavailable)
	}

	var series map[string]avMACD
	if err := json.Unmarshal(raw, &series); err != nil {
		return models.MACDPoint{}, fmt.Errorf("%w: decode MACD: %v", models.ErrProviderUnavailable, err)
	}

	ts, row, ok := latest(series)
	if !ok {
		return models.MACDPoint{}, fmt.Errorf("%w: empty MACD series", models.ErrProviderUnavailable)
	}

	macd, err1 := strconv.ParseFloat(row.MACD, 64)
	signal, err2 := strconv.ParseFloat(row.Signal, 64)
	hist, err3 := strconv.ParseFloat(row.Hist, 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return models.MACDPoint{}, fmt.Errorf("%w: bad MACD values", models.ErrProviderUnavailable)
	}

	return models.MACDPoint{MACD: macd, Signal: signal, Hist: hist, Timestamp: ts}, nil
}
