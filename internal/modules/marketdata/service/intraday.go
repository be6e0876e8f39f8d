package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"fx_dashboard/internal/helper"
	"fx_dashboard/internal/models"
)

const avTimeLayout = "2006-01-02 15:04:05"

// GetIntraday — OHLC-свечи пары, свежие первыми.
func (c *Client) GetIntraday(ctx context.Context, base, quote, timeframe string) ([]models.Candle, error) {
	params := url.Values{}
	params.Set("function", "FX_INTRADAY")
	params.Set("from_symbol", base)
	params.Set("to_symbol", quote)
	params.Set("interval", helper.NormTF(timeframe))
	params.Set("outputsize", "compact")

	payload, err := c.query(ctx, params)
	if err != nil {
		return nil, err
	}

	// ключ серии зависит от интервала: "Time Series FX (5min)" и т.п.
	var series map[string]avCandle
	for key, raw := range payload {
		if strings.HasPrefix(key, "Time Series FX") {
			if err := json.Unmarshal(raw, &series); err != nil {
				return nil, fmt.Errorf("%w: decode series: %v", models.ErrProviderUnavailable, err)
			}
			break
		}
	}
	if series == nil {
		return nil, fmt.Errorf("%w: no time series in response", models.ErrProviderUnavailable)
	}

	candles := make([]models.Candle, 0, len(series))
	for ts, row := range series {
		t, err := time.Parse(avTimeLayout, ts)
		if err != nil {
			continue
		}
		open, err1 := strconv.ParseFloat(row.Open, 64)
		high, err2 := strconv.ParseFloat(row.High, 64)
		low, err3 := strconv.ParseFloat(row.Low, 64)
		closep, err4 := strconv.ParseFloat(row.Close, 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			continue
		}
		candles = append(candles, models.Candle{
			Time: t, Open: open, High: high, Low: low, Close: closep,
		})
	}

	sort.Slice(candles, func(i, j int) bool {
		return candles[i].Time.After(candles[j].Time)
	})

	return candles, nil
}
