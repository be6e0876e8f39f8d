package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"fx_dashboard/internal/models"
)

// GetRSI — последнее значение RSI(14) по close.
func (c *Client) GetRSI(ctx context.Context, base, quote, timeframe string) (models.RSIPoint, error) {
	params := url.Values{}
	params.Set("function", "RSI")
	params.Set("symbol", base+quote)
	params.Set("interval", "daily")
	params.Set("time_period", "14")
	params.Set("series_type", "close")

	payload, err := c.query(ctx, params)
	if err != nil {
		return models.RSIPoint{}, err
	}

	raw, ok := payload["Technical Analysis: RSI"]
	if !ok {
		return models.RSIPoint{}, fmt.Errorf("%w: no RSI in response", models.ErrProviderUnavailable)
	}

	var series map[string]avRSI
	if err := json.Unmarshal(raw, &series); err != nil {
		return models.RSIPoint{}, fmt.Errorf("%w: decode RSI: %v", models.ErrProviderUnavailable, err)
	}

	ts, row, ok := latest(series)
	if !ok {
		return models.RSIPoint{}, fmt.Errorf("%w: empty RSI series", models.ErrProviderUnavailable)
	}

	v, err := strconv.ParseFloat(row.RSI, 64)
	if err != nil {
		return models.RSIPoint{}, fmt.Errorf("%w: bad RSI value: %v", models.ErrProviderUnavailable, err)
	}

	return models.RSIPoint{RSI: v, Timestamp: ts}, nil
}

// latest — самая свежая точка серии (ключи = даты).
func latest[T any](series map[string]T) (time.Time, T, bool) {
	var (
		best    time.Time
		bestVal T
		found   bool
	)
	for ts, v := range series {
		t, err := time.Parse("2006-01-02", ts)
		if err != nil {
			t, err = time.Parse(avTimeLayout, ts)
			if err != nil {
				continue
			}
		}
		if !found || t.After(best) {
			best, bestVal, found = t, v, true
		}
	}
	return best, bestVal, found
}
