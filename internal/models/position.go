package models

import "time"

// Side как у сигналов: "BUY"/"SELL".
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

type PositionStatus string

const (
	PositionOpen      PositionStatus = "open"
	PositionClosed    PositionStatus = "closed"
	PositionCancelled PositionStatus = "cancelled"
)

type Position struct {
	ID         string
	UserID     string
	Pair       string // "EURUSD"
	Side       Side
	EntryPrice float64
	ExitPrice  float64
	LotSize    float64
	StopLoss   float64
	TakeProfit float64
	Status     PositionStatus
	ProfitLoss float64
	OpenedAt   time.Time
	ClosedAt   time.Time
	// снапшот сигнала, по которому вошли — только для аудита
	SignalSnapshot *Signal
}

// Summary — сводка по счёту для дашборда.
// TotalProfit считается только по закрытым сделкам.
type Summary struct {
	Total       int
	Wins        int
	Losses      int
	WinRate     float64
	TotalProfit float64
	ActiveCount int
	Open        []Position
}
