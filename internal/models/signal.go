package models

import "time"

type Direction string

const (
	DirectionBuy     Direction = "BUY"
	DirectionSell    Direction = "SELL"
	DirectionNeutral Direction = "NEUTRAL"
)

// Индикаторы в снапшоте сигнала.
const (
	IndicatorRSI        = "rsi"
	IndicatorMACD       = "macd"
	IndicatorMACDSignal = "macd_signal"
	IndicatorMACDHist   = "macd_hist"
)

// Signal — результат анализа пары. Живёт недолго: лог + снапшот в позиции.
type Signal struct {
	Pair       string
	Timeframe  string
	Direction  Direction
	Strength   int // 0..100
	Indicators map[string]float64
	At         time.Time
}
