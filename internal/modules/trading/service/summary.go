package service

import (
	"context"
	"fmt"

	"fx_dashboard/internal/helper"
	"fx_dashboard/internal/models"
)

// AccountSummary — сводка для дашборда.
// total_profit только по закрытым сделкам: нереализованный P/L
// открытых туда не входит.
func (e *Engine) AccountSummary(ctx context.Context, userID string) (sum *models.Summary, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("trading.AccountSummary: %w", err)
		}
	}()

	all, err := e.positions.ByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	sum = &models.Summary{Total: len(all)}
	for _, p := range all {
		if p.ProfitLoss > 0 {
			sum.Wins++
		} else if p.ProfitLoss < 0 {
			sum.Losses++
		}
		if p.Status == models.PositionClosed {
			sum.TotalProfit += p.ProfitLoss
		}
		if p.Status == models.PositionOpen {
			sum.Open = append(sum.Open, p)
		}
	}
	sum.ActiveCount = len(sum.Open)
	sum.TotalProfit = helper.Round2(sum.TotalProfit)

	if sum.Total > 0 {
		sum.WinRate = float64(sum.Wins) / float64(sum.Total) * 100
	}

	return sum, nil
}
