package service

import (
	"context"
	"fmt"

	"fx_dashboard/internal/models"
)

// Preferences — настройки юзера; если их ещё нет, создаём дефолтные
// (торговля выключена, пока юзер сам не включит).
func (e *Engine) Preferences(ctx context.Context, userID string) (prefs *models.RiskPreferences, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("trading.Preferences: %w", err)
		}
	}()

	prefs, err = e.prefs.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if prefs != nil {
		return prefs, nil
	}

	prefs = &models.RiskPreferences{
		UserID:         userID,
		Pairs:          append([]string(nil), e.cfg.DefaultPairs...),
		Timeframe:      e.cfg.DefaultTimeframe,
		RiskPercentage: e.cfg.DefaultRiskPct,
		MaxTrades:      e.cfg.DefaultMaxOpenTrades,
		TradingEnabled: e.cfg.DefaultTradingEnabled,
		UpdatedAt:      e.now(),
	}
	if err := e.prefs.Upsert(ctx, prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}

// UpdatePreferences — настройки меняет только сам юзер.
func (e *Engine) UpdatePreferences(ctx context.Context, prefs *models.RiskPreferences) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("trading.UpdatePreferences: %w", err)
		}
	}()

	if prefs.RiskPercentage <= 0 {
		return fmt.Errorf("risk_percentage must be > 0, got %v", prefs.RiskPercentage)
	}
	if prefs.MaxTrades <= 0 {
		return fmt.Errorf("max_concurrent_trades must be > 0, got %d", prefs.MaxTrades)
	}

	e.locks.Lock(prefs.UserID)
	defer e.locks.Unlock(prefs.UserID)

	prefs.UpdatedAt = e.now()
	return e.prefs.Upsert(ctx, prefs)
}
