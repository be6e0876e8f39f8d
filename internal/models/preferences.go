package models

import "time"

// RiskPreferences принадлежат юзеру, меняются только им самим.
type RiskPreferences struct {
	UserID         string
	Pairs          []string
	Timeframe      string
	RiskPercentage float64
	MaxTrades      int
	TradingEnabled bool
	UpdatedAt      time.Time
}
