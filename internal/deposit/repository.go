package deposit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"frangapp/internal/application"
	"frangapp/internal/db"
	"frangapp/internal/plan"

	"github.com/jmoiron/sqlx"
)

var errApplicationMissing = errors.New("application row missing during credit")

type ledger struct {
	db    *sqlx.DB
	apps  application.Repository
	plans plan.Repository
}

func NewLedger(conn *sqlx.DB) Ledger {
	return &ledger{
		db:    conn,
		apps:  application.NewRepository(conn),
		plans: plan.NewRepository(conn),
	}
}

func (l *ledger) GetApplication(ctx context.Context, ref string, ownerID int) (*application.Application, error) {
	return l.apps.GetByUIDAndOwner(ctx, ref, ownerID)
}

func (l *ledger) GetPlan(ctx context.Context, id int) (*plan.Plan, error) {
	return l.plans.GetByID(ctx, id)
}

func (l *ledger) Credit(ctx context.Context, t *Transaction) (int, error) {
	var balance int

	err := db.WithTx(ctx, l.db, func(tx *sqlx.Tx) error {
		err := tx.QueryRowxContext(ctx, `
			INSERT INTO transactions (uid, user_id, app_id, amount, quantity, status, method_id, charge_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id, created_at
		`, t.UID, t.UserID, t.AppID, t.Amount, t.Quantity, t.Status, t.MethodID, t.ChargeID).
			Scan(&t.ID, &t.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}

		// The increment happens in SQL so concurrent credits cannot lose updates.
		err = tx.QueryRowxContext(ctx, `
			UPDATE apps
			SET status = $1, balance = balance + $2, updated_at = NOW()
			WHERE id = $3
			RETURNING balance
		`, application.StatusActive, t.Quantity, t.AppID).Scan(&balance)
		if errors.Is(err, sql.ErrNoRows) {
			return errApplicationMissing
		}
		if err != nil {
			return fmt.Errorf("credit application: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return balance, nil
}

func (l *ledger) ListTransactions(ctx context.Context, appID, limit, offset int) ([]*Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	txs := []*Transaction{}
	err := l.db.SelectContext(ctx, &txs, `
		SELECT id, uid, user_id, app_id, amount, quantity, status, method_id, charge_id, created_at
		FROM transactions
		WHERE app_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, appID, limit, offset)
	if err != nil {
		return nil, err
	}
	return txs, nil
}
