package pg

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/jackc/pgx/v5"

	"fx_dashboard/internal/models"
	"fx_dashboard/pkg/db"
)

// Preferences implement db store
type Preferences struct {
	db *db.PgTxManager
}

// NewPreferences instance
func NewPreferences(txm *db.PgTxManager) *Preferences {
	return &Preferences{db: txm}
}

const upsertPreferences = `
INSERT INTO trading_preferences
	(user_id, pairs, timeframe, risk_percentage, max_concurrent_trades, trading_enabled, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (user_id) DO UPDATE
SET pairs = $2, timeframe = $3, risk_percentage = $4,
	max_concurrent_trades = $5, trading_enabled = $6, updated_at = $7`

func (s *Preferences) Upsert(ctx context.Context, prefs *models.RiskPreferences) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Preferences.Upsert: %w", err)
		}
	}()

	pairs, err := sonic.Marshal(prefs.Pairs)
	if err != nil {
		return err
	}

	return s.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctxTx, upsertPreferences,
			prefs.UserID, pairs, prefs.Timeframe, prefs.RiskPercentage,
			prefs.MaxTrades, prefs.TradingEnabled, prefs.UpdatedAt,
		)
		return err
	})
}

func (s *Preferences) Get(ctx context.Context, userID string) (prefs *models.RiskPreferences, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Preferences.Get: %w", err)
		}
	}()

	err = s.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		row := tx.QueryRow(ctxTx,
			`SELECT user_id, pairs, timeframe, risk_percentage, max_concurrent_trades,
				trading_enabled, updated_at
			FROM trading_preferences WHERE user_id = $1`,
			userID,
		)

		var (
			p     models.RiskPreferences
			pairs []byte
		)
		scanErr := row.Scan(&p.UserID, &pairs, &p.Timeframe, &p.RiskPercentage,
			&p.MaxTrades, &p.TradingEnabled, &p.UpdatedAt)
		if scanErr == pgx.ErrNoRows {
			return nil
		}
		if scanErr != nil {
			return scanErr
		}
		if len(pairs) > 0 {
			if err := sonic.Unmarshal(pairs, &p.Pairs); err != nil {
				return err
			}
		}
		prefs = &p
		return nil
	})
	return prefs, err
}
