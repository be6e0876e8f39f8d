package models

import "time"

type Candle struct {
	Time  time.Time
	Open  float64
	High  float64
	Low   float64
	Close float64
}

type RSIPoint struct {
	RSI       float64
	Timestamp time.Time
}

type MACDPoint struct {
	MACD      float64
	Signal    float64
	Hist      float64
	Timestamp time.Time
}

// QuoteTick — тик цены из стримера котировок.
type QuoteTick struct {
	Pair  string
	Price float64
	At    time.Time
}
