package service

import (
	"fx_dashboard/internal/helper"
	"fx_dashboard/internal/models"
)

const (
	baseLot = 0.01

	// Фиксированные дистанции: стоп 20 пипсов, тейк 40 — RR 1:2.
	// Менять только парой, иначе поедет risk-reward.
	slPips = 20
	tpPips = 40

	pipValue = 0.0001
)

// LotSize — размер позиции от процента риска. Чистая функция.
// base_lot * (risk% / 1.0), два знака.
func LotSize(riskPercentage float64) float64 {
	return helper.Round2(baseLot * (riskPercentage / 1.0))
}

// StopLossTakeProfit — SL/TP вокруг входа, асимметрично по стороне.
// BUY: стоп ниже, тейк выше; SELL наоборот. Пять знаков.
func StopLossTakeProfit(entryPrice float64, side models.Side) (stopLoss, takeProfit float64) {
	if side == models.SideBuy {
		stopLoss = entryPrice - slPips*pipValue
		takeProfit = entryPrice + tpPips*pipValue
	} else {
		stopLoss = entryPrice + slPips*pipValue
		takeProfit = entryPrice - tpPips*pipValue
	}
	return helper.Round5(stopLoss), helper.Round5(takeProfit)
}
