package pg

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/jackc/pgx/v5"

	"fx_dashboard/internal/models"
	"fx_dashboard/pkg/db"
)

// Licenses implement db store
type Licenses struct {
	db *db.PgTxManager
}

// NewLicenses instance
func NewLicenses(txm *db.PgTxManager) *Licenses {
	return &Licenses{db: txm}
}

const insertLicense = `
INSERT INTO licenses
	(id, user_id, license_key, license_type, status, issued_at, expires_at,
	 payment_ref, max_trades, features, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

func (l *Licenses) Insert(ctx context.Context, rec *models.LicenseRecord) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Licenses.Insert: %w", err)
		}
	}()

	features, err := sonic.Marshal(rec.Features)
	if err != nil {
		return err
	}

	return l.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctxTx, insertLicense,
			rec.ID, rec.UserID, rec.Key, rec.Tier, rec.Status,
			rec.IssuedAt, rec.ExpiresAt, rec.PaymentRef,
			rec.MaxTrades, features, rec.CreatedAt, rec.UpdatedAt,
		)
		return err
	})
}

func (l *Licenses) UpdateStatus(ctx context.Context, id string, status models.LicenseStatus) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Licenses.UpdateStatus: %w", err)
		}
	}()

	return l.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctxTx,
			`UPDATE licenses SET status = $2, updated_at = now() WHERE id = $1`,
			id, status,
		)
		return err
	})
}

const selectLicense = `
SELECT id, user_id, license_key, license_type, status, issued_at, expires_at,
	COALESCE(payment_ref, ''), max_trades, features, created_at, updated_at
FROM licenses`

func (l *Licenses) ActiveByUser(ctx context.Context, userID string) (out []models.LicenseRecord, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Licenses.ActiveByUser: %w", err)
		}
	}()

	err = l.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		rows, err := tx.Query(ctxTx,
			selectLicense+` WHERE user_id = $1 AND status = $2 ORDER BY issued_at DESC`,
			userID, models.LicenseActive,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = scanLicenses(rows)
		return err
	})
	return out, err
}

func (l *Licenses) ByUser(ctx context.Context, userID string) (out []models.LicenseRecord, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Licenses.ByUser: %w", err)
		}
	}()

	err = l.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		rows, err := tx.Query(ctxTx,
			selectLicense+` WHERE user_id = $1 ORDER BY created_at DESC`,
			userID,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = scanLicenses(rows)
		return err
	})
	return out, err
}

func scanLicenses(rows pgx.Rows) ([]models.LicenseRecord, error) {
	var out []models.LicenseRecord
	for rows.Next() {
		var (
			rec      models.LicenseRecord
			features []byte
		)
		if err := rows.Scan(
			&rec.ID, &rec.UserID, &rec.Key, &rec.Tier, &rec.Status,
			&rec.IssuedAt, &rec.ExpiresAt, &rec.PaymentRef,
			&rec.MaxTrades, &features, &rec.CreatedAt, &rec.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if len(features) > 0 {
			if err := sonic.Unmarshal(features, &rec.Features); err != nil {
				return nil, err
			}
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
