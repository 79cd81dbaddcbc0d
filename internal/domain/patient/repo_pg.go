package patient

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

const patientCols = `id, name, surname, birth_date, address, insurance_number, image, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO patient (id, name, surname, birth_date, address, insurance_number, image)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`,
		p.ID, p.Name, p.Surname, p.BirthDate, p.Address, p.InsuranceNumber, p.Image,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	return db.Translate(err)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	var p Patient
	err := r.pool.QueryRow(ctx, `SELECT `+patientCols+` FROM patient WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Surname, &p.BirthDate, &p.Address, &p.InsuranceNumber, &p.Image, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, db.Translate(err)
	}
	return &p, nil
}

func (r *repoPG) List(ctx context.Context, name, surname string, limit, offset int) ([]*Patient, int, error) {
	nameFilter := "%" + name + "%"
	surnameFilter := "%" + surname + "%"

	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM patient WHERE name ILIKE $1 AND surname ILIKE $2`,
		nameFilter, surnameFilter).Scan(&total)
	if err != nil {
		return nil, 0, db.Translate(err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+patientCols+` FROM patient
		WHERE name ILIKE $1 AND surname ILIKE $2
		ORDER BY surname, name
		LIMIT $3 OFFSET $4`, nameFilter, surnameFilter, limit, offset)
	if err != nil {
		return nil, 0, db.Translate(err)
	}
	defer rows.Close()

	var patients []*Patient
	for rows.Next() {
		var p Patient
		if err := rows.Scan(&p.ID, &p.Name, &p.Surname, &p.BirthDate, &p.Address, &p.InsuranceNumber, &p.Image, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, err
		}
		patients = append(patients, &p)
	}
	return patients, total, rows.Err()
}

func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	ct, err := r.pool.Exec(ctx, `
		UPDATE patient SET
			name=$2, surname=$3, birth_date=$4, address=$5, insurance_number=$6, image=$7, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.Name, p.Surname, p.BirthDate, p.Address, p.InsuranceNumber, p.Image,
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
	ct, err := r.pool.Exec(ctx, `DELETE FROM patient WHERE id = $1`, id)
	if err != nil {
		return db.Translate(err)
	}
	if ct.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
