package pg

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/jackc/pgx/v5"

	"fx_dashboard/internal/models"
	"fx_dashboard/pkg/db"
)

// Positions implement db store
type Positions struct {
	db *db.PgTxManager
}

// NewPositions instance
func NewPositions(txm *db.PgTxManager) *Positions {
	return &Positions{db: txm}
}

const insertPosition = `
INSERT INTO positions
	(id, user_id, pair, side, entry_price, exit_price, lot_size, stop_loss,
	 take_profit, status, profit_loss, opened_at, closed_at, signal_snapshot, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, now())`

func (s *Positions) Insert(ctx context.Context, p *models.Position) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Positions.Insert: %w", err)
		}
	}()

	var snapshot []byte
	if p.SignalSnapshot != nil {
		snapshot, err = sonic.Marshal(p.SignalSnapshot)
		if err != nil {
			return err
		}
	}

	return s.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctxTx, insertPosition,
			p.ID, p.UserID, p.Pair, p.Side, p.EntryPrice, nullFloat(p.ExitPrice),
			p.LotSize, p.StopLoss, p.TakeProfit, p.Status, p.ProfitLoss,
			p.OpenedAt, nullTime(p.ClosedAt), snapshot,
		)
		return err
	})
}

const updatePosition = `
UPDATE positions
SET exit_price = $2, status = $3, profit_loss = $4, closed_at = $5, updated_at = now()
WHERE id = $1`

func (s *Positions) Update(ctx context.Context, p *models.Position) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Positions.Update: %w", err)
		}
	}()

	return s.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctxTx, updatePosition,
			p.ID, nullFloat(p.ExitPrice), p.Status, p.ProfitLoss, nullTime(p.ClosedAt),
		)
		return err
	})
}

const selectPosition = `
SELECT id, user_id, pair, side, entry_price, COALESCE(exit_price, 0), lot_size,
	stop_loss, take_profit, status, profit_loss, opened_at, closed_at, signal_snapshot
FROM positions`

func (s *Positions) Get(ctx context.Context, id string) (pos *models.Position, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Positions.Get: %w", err)
		}
	}()

	err = s.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		row := tx.QueryRow(ctxTx, selectPosition+` WHERE id = $1`, id)
		pos, err = scanPosition(row)
		return err
	})
	return pos, err
}

func (s *Positions) OpenByUser(ctx context.Context, userID string) (out []models.Position, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Positions.OpenByUser: %w", err)
		}
	}()

	err = s.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		rows, err := tx.Query(ctxTx,
			selectPosition+` WHERE user_id = $1 AND status = $2 ORDER BY opened_at`,
			userID, models.PositionOpen,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = scanPositions(rows)
		return err
	})
	return out, err
}

func (s *Positions) ByUser(ctx context.Context, userID string) (out []models.Position, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Positions.ByUser: %w", err)
		}
	}()

	err = s.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		rows, err := tx.Query(ctxTx,
			selectPosition+` WHERE user_id = $1 ORDER BY opened_at DESC`,
			userID,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = scanPositions(rows)
		return err
	})
	return out, err
}

func (s *Positions) UsersWithOpen(ctx context.Context) (out []string, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Positions.UsersWithOpen: %w", err)
		}
	}()

	err = s.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		rows, err := tx.Query(ctxTx,
			`SELECT DISTINCT user_id FROM positions WHERE status = $1`,
			models.PositionOpen,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var userID string
			if err := rows.Scan(&userID); err != nil {
				return err
			}
			out = append(out, userID)
		}
		return rows.Err()
	})
	return out, err
}

func scanPosition(row pgx.Row) (*models.Position, error) {
	var (
		p        models.Position
		closedAt sql.NullTime
		snapshot []byte
	)
	if err := row.Scan(
		&p.ID, &p.UserID, &p.Pair, &p.Side, &p.EntryPrice, &p.ExitPrice,
		&p.LotSize, &p.StopLoss, &p.TakeProfit, &p.Status, &p.ProfitLoss,
		&p.OpenedAt, &closedAt, &snapshot,
	); err != nil {
		return nil, err
	}
	if closedAt.Valid {
		p.ClosedAt = closedAt.Time
	}
	if len(snapshot) > 0 {
		p.SignalSnapshot = &models.Signal{}
		if err := sonic.Unmarshal(snapshot, p.SignalSnapshot); err != nil {
			return nil, err
		}
	}
	return &p, nil
}

func scanPositions(rows pgx.Rows) ([]models.Position, error) {
	var out []models.Position
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func nullFloat(v float64) any {
	if v == 0 {
		return nil
	}
	return v
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
