package service

import (
	"context"
	"fmt"

	"fx_dashboard/internal/models"
	"fx_dashboard/pkg/logger"
)

// CloseTrade закрывает открытую позицию по exitPrice.
// Повторное закрытие — ошибка ErrAlreadyClosed, не тихий no-op.
func (e *Engine) CloseTrade(ctx context.Context, userID, positionID string, exitPrice float64) (*models.Position, error) {
	e.locks.Lock(userID)
	defer e.locks.Unlock(userID)

	return e.closeLocked(ctx, positionID, exitPrice)
}

func (e *Engine) closeLocked(ctx context.Context, positionID string, exitPrice float64) (pos *models.Position, err error) {
	defer func() {
		if err != nil && err != models.ErrAlreadyClosed {
			err = fmt.Errorf("trading.CloseTrade: %w", err)
		}
	}()

	pos, err = e.positions.Get(ctx, positionID)
	if err != nil {
		return nil, err
	}
	if pos.Status != models.PositionOpen {
		return nil, models.ErrAlreadyClosed
	}

	pos.ExitPrice = exitPrice
	pos.Status = models.PositionClosed
	pos.ClosedAt = e.now()
	MarkToMarket(pos, exitPrice)

	if err := e.positions.Update(ctx, pos); err != nil {
		return nil, err
	}

	logger.Info("trade closed: id=%s %s exit=%.5f pl=%.2f", pos.ID, pos.Pair, exitPrice, pos.ProfitLoss)
	e.notifier.Sendf("📉 closed %s %s @ %.5f, P/L %.2f", pos.Side, pos.Pair, exitPrice, pos.ProfitLoss)

	return pos, nil
}

// CancelTrade — ручная отмена открытой позиции без учёта P/L.
// Терминальный статус, как и closed.
func (e *Engine) CancelTrade(ctx context.Context, userID, positionID string) (pos *models.Position, err error) {
	defer func() {
		if err != nil && err != models.ErrAlreadyClosed {
			err = fmt.Errorf("trading.CancelTrade: %w", err)
		}
	}()

	e.locks.Lock(userID)
	defer e.locks.Unlock(userID)

	pos, err = e.positions.Get(ctx, positionID)
	if err != nil {
		return nil, err
	}
	if pos.Status != models.PositionOpen {
		return nil, models.ErrAlreadyClosed
	}

	pos.Status = models.PositionCancelled
	pos.ProfitLoss = 0
	pos.ClosedAt = e.now()

	if err := e.positions.Update(ctx, pos); err != nil {
		return nil, err
	}

	logger.Info("trade cancelled: id=%s %s", pos.ID, pos.Pair)
	return pos, nil
}
