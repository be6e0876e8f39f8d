package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fx_dashboard/internal/models"
)

func TestLotSize(t *testing.T) {
	assert.InDelta(t, 0.01, LotSize(1.0), 1e-9)
	assert.InDelta(t, 0.02, LotSize(2.0), 1e-9)
	assert.InDelta(t, 0.03, LotSize(3.0), 1e-9)
	assert.InDelta(t, 0.1, LotSize(10.0), 1e-9)
}

func TestStopLossTakeProfit(t *testing.T) {
	t.Run("buy", func(t *testing.T) {
		sl, tp := StopLossTakeProfit(1.10000, models.SideBuy)
		assert.InDelta(t, 1.09800, sl, 1e-9)
		assert.InDelta(t, 1.10400, tp, 1e-9)
	})

	t.Run("sell", func(t *testing.T) {
		sl, tp := StopLossTakeProfit(1.10000, models.SideSell)
		assert.InDelta(t, 1.10200, sl, 1e-9)
		assert.InDelta(t, 1.09600, tp, 1e-9)
	})

	t.Run("risk reward stays 1 to 2", func(t *testing.T) {
		entry := 1.08500
		sl, tp := StopLossTakeProfit(entry, models.SideBuy)
		assert.InDelta(t, 2*(entry-sl), tp-entry, 1e-9)
	})
}

func TestMarkToMarket(t *testing.T) {
	t.Run("buy gains on rising price", func(t *testing.T) {
		p := &models.Position{Side: models.SideBuy, EntryPrice: 1.0850, LotSize: 0.01}
		MarkToMarket(p, 1.0860)
		assert.InDelta(t, 1.00, p.ProfitLoss, 1e-9)
	})

	t.Run("sell gains on falling price", func(t *testing.T) {
		p := &models.Position{Side: models.SideSell, EntryPrice: 1.0850, LotSize: 0.01}
		MarkToMarket(p, 1.0800)
		assert.InDelta(t, 5.00, p.ProfitLoss, 1e-9)
	})

	t.Run("buy loses on falling price", func(t *testing.T) {
		p := &models.Position{Side: models.SideBuy, EntryPrice: 1.0850, LotSize: 0.02}
		MarkToMarket(p, 1.0840)
		assert.InDelta(t, -2.00, p.ProfitLoss, 1e-9)
	})
}

func TestEvaluateExit(t *testing.T) {
	buy := &models.Position{Side: models.SideBuy, EntryPrice: 1.1000, StopLoss: 1.0980, TakeProfit: 1.1040}
	sell := &models.Position{Side: models.SideSell, EntryPrice: 1.1000, StopLoss: 1.1020, TakeProfit: 1.0960}

	cases := []struct {
		name  string
		pos   *models.Position
		price float64
		exit  bool
	}{
		{"buy holds between levels", buy, 1.1000, false},
		{"buy stops out", buy, 1.0980, true},
		{"buy stops below", buy, 1.0950, true},
		{"buy takes profit", buy, 1.1040, true},
		{"buy just above stop", buy, 1.0981, false},
		{"sell holds between levels", sell, 1.1000, false},
		{"sell stops out", sell, 1.1020, true},
		{"sell takes profit", sell, 1.0960, true},
		{"sell just below stop", sell, 1.1019, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.exit, EvaluateExit(tc.pos, tc.price))
		})
	}
}
