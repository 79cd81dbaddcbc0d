package physio

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

const physioCols = `id, name, surname, specialty, license_number, image, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, p *Physio) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO physio (id, name, surname, specialty, license_number, image)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`,
		p.ID, p.Name, p.Surname, p.Specialty, p.LicenseNumber, p.Image,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	return db.Translate(err)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Physio, error) {
	var p Physio
	err := r.pool.QueryRow(ctx, `SELECT `+physioCols+` FROM physio WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Surname, &p.Specialty, &p.LicenseNumber, &p.Image, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, db.Translate(err)
	}
	return &p, nil
}

func (r *repoPG) List(ctx context.Context, specialty string, limit, offset int) ([]*Physio, int, error) {
	filter := "%" + specialty + "%"

	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM physio WHERE specialty ILIKE $1`, filter).Scan(&total)
	if err != nil {
		return nil, 0, db.Translate(err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+physioCols+` FROM physio
		WHERE specialty ILIKE $1
		ORDER BY surname, name
		LIMIT $2 OFFSET $3`, filter, limit, offset)
	if err != nil {
		return nil, 0, db.Translate(err)
	}
	defer rows.Close()

	var physios []*Physio
	for rows.Next() {
		var p Physio
		if err := rows.Scan(&p.ID, &p.Name, &p.Surname, &p.Specialty, &p.LicenseNumber, &p.Image, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, err
		}
		physios = append(physios, &p)
	}
	return physios, total, rows.Err()
}

func (r *repoPG) Update(ctx context.Context, p *Physio) error {
	ct, err := r.pool.Exec(ctx, `
		UPDATE physio SET
			name=$2, surname=$3, specialty=$4, license_number=$5, image=$6, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.Name, p.Surname, p.Specialty, p.LicenseNumber, p.Image,
	)
	if err != nil {
		return db.Translate(err)
	}
	if ct.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM physio WHERE id = $1`, id)
	if err != nil {
		return db.Translate(err)
	}
	if ct.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
