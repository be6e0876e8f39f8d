package service

import (
	"context"

	"fx_dashboard/internal/models"
)

// Provider — контракт внешнего источника рыночных данных.
// Реализации: Alpha Vantage (Client) и Mock.
type Provider interface {
	GetIntraday(ctx context.Context, base, quote, timeframe string) ([]models.Candle, error)
	GetRSI(ctx context.Context, base, quote, timeframe string) (models.RSIPoint, error)
	GetMACD(ctx context.Context, base, quote, timeframe string) (models.MACDPoint, error)
	CurrentPrice(ctx context.Context, pair, timeframe string) (float64, error)
}

// Сырые ответы Alpha Vantage. Ключи у них с номерами — не трогаем.
type avCandle struct {
	Open  string `json:"1. open"`
	High  string `json:"2. high"`
	Low   string `json:"3. low"`
	Close string `json:"4. close"`
}

type avRSI struct {
	RSI string `json:"RSI"`
}

type avMACD struct {
	MACD   string `json:"MACD"`
	Signal string `json:"MACD_Signal"`
	Hist   string `json:"MACD_Hist"`
}
