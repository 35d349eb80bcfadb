package application

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrNotFound = errors.New("application not found")

const selectColumns = `id, uid, user_id, name, link, balance, status, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByUIDAndOwner(ctx context.Context, uid string, ownerID int) (*Application, error) {
	var app Application
	err := r.db.GetContext(ctx, &app, `
		SELECT `+selectColumns+`
		FROM apps
		WHERE uid = $1 AND user_id = $2
	`, uid, ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *repository) ListByOwner(ctx context.Context, ownerID int) ([]*Application, error) {
	apps := []*Application{}
	err := r.db.SelectContext(ctx, &apps, `
		SELECT `+selectColumns+`
		FROM apps
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	return apps, err
}
