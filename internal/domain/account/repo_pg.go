package account

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/physiocare/physiocare/internal/platform/apperr"
	"github.com/physiocare/physiocare/internal/platform/db"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const accountCols = `id, login, password_hash, role, created_at`

func (r *repoPG) Create(ctx context.Context, a *Account) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO account (id, login, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`,
		a.ID, a.Login, a.PasswordHash, a.Role,
	).Scan(&a.CreatedAt)
	return db.Translate(err)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	var a Account
	err := r.pool.QueryRow(ctx, `SELECT `+accountCols+` FROM account WHERE id = $1`, id).
		Scan(&a.ID, &a.Login, &a.PasswordHash, &a.Role, &a.CreatedAt)
	if err != nil {
		return nil, db.Translate(err)
	}
	return &a, nil
}

func (r *repoPG) GetByLogin(ctx context.Context, login string) (*Account, error) {
	var a Account
	err := r.pool.QueryRow(ctx, `SELECT `+accountCols+` FROM account WHERE login = $1`, login).
		Scan(&a.ID, &a.Login, &a.PasswordHash, &a.Role, &a.CreatedAt)
	if err != nil {
		return nil, db.Translate(err)
	}
	return &a, nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM account WHERE id = $1`, id)
	if err != nil {
		return db.Translate(err)
	}
	if ct.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
