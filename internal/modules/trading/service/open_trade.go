package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/opentracing/opentracing-go"

	"fx_dashboard/internal/models"
	"fx_dashboard/pkg/logger"
)

// OpenTrade открывает сделку. Порядок проверок фиксированный:
// лицензия -> trading_enabled -> лимит конкурентных сделок -> цена.
// Лимит = min(лицензия, настройки): лицензия режет настройки,
// в обратную сторону никогда.
func (e *Engine) OpenTrade(
	ctx context.Context,
	userID, pair string,
	side models.Side,
	snapshot *models.Signal,
) (pos *models.Position, err error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "trading.OpenTrade")
	defer span.Finish()

	e.locks.Lock(userID)
	defer e.locks.Unlock(userID)

	lic, err := e.licenses.CheckValid(ctx, userID)
	if err != nil {
		return nil, err
	}

	prefs, err := e.Preferences(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !prefs.TradingEnabled {
		return nil, models.ErrTradingDisabled
	}

	maxTrades := prefs.MaxTrades
	if lic.MaxTrades < maxTrades {
		maxTrades = lic.MaxTrades
	}

	open, err := e.positions.OpenByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("trading.OpenTrade: %w", err)
	}
	if len(open) >= maxTrades {
		return nil, models.ErrMaxTradesReached
	}

	entryPrice, err := e.provider.CurrentPrice(ctx, pair, prefs.Timeframe)
	if err != nil {
		return nil, err
	}

	lot := LotSize(prefs.RiskPercentage)
	stopLoss, takeProfit := StopLossTakeProfit(entryPrice, side)

	now := e.now()
	pos = &models.Position{
		ID:             uuid.NewString(),
		UserID:         userID,
		Pair:           pair,
		Side:           side,
		EntryPrice:     entryPrice,
		LotSize:        lot,
		StopLoss:       stopLoss,
		TakeProfit:     takeProfit,
		Status:         models.PositionOpen,
		ProfitLoss:     0,
		OpenedAt:       now,
		SignalSnapshot: snapshot,
	}
	if err := e.positions.Insert(ctx, pos); err != nil {
		return nil, fmt.Errorf("trading.OpenTrade: %w", err)
	}

	logger.Info("trade opened: user=%s %s %s @ %.5f lot=%.2f sl=%.5f tp=%.5f",
		userID, pair, side, entryPrice, lot, stopLoss, takeProfit)
	e.notifier.Sendf("📈 %s %s @ %.5f (lot %.2f, SL %.5f, TP %.5f)",
		side, pair, entryPrice, lot, stopLoss, takeProfit)

	return pos, nil
}
