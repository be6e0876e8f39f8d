package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"fx_dashboard/internal/helper"
	"fx_dashboard/internal/models"
	"fx_dashboard/internal/modules/config"
)

// Client — HTTP-клиент Alpha Vantage.
type Client struct {
	cfg  *config.Config
	http *http.Client
}

func NewClient(cfg *config.Config) *Client {
	timeout := cfg.ProviderTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: timeout},
	}
}

// query дергает базовый URL с параметрами и декодит верхний уровень ответа.
// Сетевые ошибки и таймауты заворачиваем в ErrProviderUnavailable —
// для вызывающих это recoverable, не фатал.
func (c *Client) query(ctx context.Context, params url.Values) (map[string]json.RawMessage, error) {
	params.Set("apikey", c.cfg.Provider.APIKey)

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		c.cfg.Provider.BaseURL+"?"+params.Encode(),
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: http %d: %s", models.ErrProviderUnavailable, resp.StatusCode, string(b))
	}

	var payload map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", models.ErrProviderUnavailable, err)
	}

	// Alpha Vantage кладёт ошибки в 200-й ответ
	for _, key := range []string{"Error Message", "Note", "Information"} {
		if raw, ok := payload[key]; ok {
			var msg string
			_ = json.Unmarshal(raw, &msg)
			return nil, fmt.Errorf("%w: %s", models.ErrProviderUnavailable, msg)
		}
	}

	return payload, nil
}

// CurrentPrice — close последней свечи.
func (c *Client) CurrentPrice(ctx context.Context, pair, timeframe string) (float64, error) {
	base, quote, ok := helper.SplitPair(pair)
	if !ok {
		return 0, fmt.Errorf("bad pair %q", pair)
	}
	candles, err := c.GetIntraday(ctx, base, quote, timeframe)
	if err != nil {
		return 0, err
	}
	if len(candles) == 0 {
		return 0, fmt.Errorf("%w: no candles for %s", models.ErrProviderUnavailable, pair)
	}
	return candles[0].Close, nil
}
