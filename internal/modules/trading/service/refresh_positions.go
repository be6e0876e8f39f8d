package service

import (
	"context"
	"fmt"

	"github.com/opentracing/opentracing-go"

	"fx_dashboard/internal/models"
	"fx_dashboard/pkg/logger"
)

// RefreshFailure — одна позиция, которую не удалось пересчитать.
type RefreshFailure struct {
	PositionID string
	Pair       string
	Err        error
}

// RefreshReport — итог батч-прохода по открытым позициям юзера.
type RefreshReport struct {
	Refreshed int
	Closed    int
	Failures  []RefreshFailure
}

// RefreshAllOpen проходит по всем открытым позициям юзера:
// mark-to-market, затем проверка SL/TP и закрытие.
// Батч без отката: отвал цены по одной позиции не прерывает остальные,
// её P/L остаётся прежним (деградация, не нули), позиция попадает
// в список Failures.
func (e *Engine) RefreshAllOpen(ctx context.Context, userID string) (report RefreshReport, err error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "trading.RefreshAllOpen")
	defer span.Finish()

	e.locks.Lock(userID)
	defer e.locks.Unlock(userID)

	open, err := e.positions.OpenByUser(ctx, userID)
	if err != nil {
		return report, fmt.Errorf("trading.RefreshAllOpen: %w", err)
	}

	prefs, err := e.Preferences(ctx, userID)
	if err != nil {
		return report, err
	}

	for i := range open {
		pos := &open[i]

		currentPrice, perr := e.provider.CurrentPrice(ctx, pos.Pair, prefs.Timeframe)
		if perr != nil {
			logger.Error("refresh: price fetch failed for %s (pos %s): %v", pos.Pair, pos.ID, perr)
			report.Failures = append(report.Failures, RefreshFailure{
				PositionID: pos.ID,
				Pair:       pos.Pair,
				Err:        perr,
			})
			continue
		}

		MarkToMarket(pos, currentPrice)
		if uerr := e.positions.Update(ctx, pos); uerr != nil {
			report.Failures = append(report.Failures, RefreshFailure{
				PositionID: pos.ID,
				Pair:       pos.Pair,
				Err:        uerr,
			})
			continue
		}
		report.Refreshed++

		if EvaluateExit(pos, currentPrice) {
			if _, cerr := e.closeLocked(ctx, pos.ID, currentPrice); cerr != nil {
				report.Failures = append(report.Failures, RefreshFailure{
					PositionID: pos.ID,
					Pair:       pos.Pair,
					Err:        cerr,
				})
				continue
			}
			report.Closed++
		}
	}

	return report, nil
}

// OnTick — точечный пересчёт по тику из стримера котировок.
// Закрывает по SL/TP всех, у кого пара совпала.
func (e *Engine) OnTick(ctx context.Context, tick models.QuoteTick) {
	users, err := e.positions.UsersWithOpen(ctx)
	if err != nil {
		logger.Error("tick: list users: %v", err)
		return
	}

	for _, userID := range users {
		e.locks.Lock(userID)

		open, err := e.positions.OpenByUser(ctx, userID)
		if err != nil {
			logger.Error("tick: open positions for %s: %v", userID, err)
			e.locks.Unlock(userID)
			continue
		}

		for i := range open {
			pos := &open[i]
			if pos.Pair != tick.Pair {
				continue
			}

			MarkToMarket(pos, tick.Price)
			if err := e.positions.Update(ctx, pos); err != nil {
				logger.Error("tick: update %s: %v", pos.ID, err)
				continue
			}
			if EvaluateExit(pos, tick.Price) {
				if _, err := e.closeLocked(ctx, pos.ID, tick.Price); err != nil {
					logger.Error("tick: close %s: %v", pos.ID, err)
				}
			}
		}

		e.locks.Unlock(userID)
	}
}
