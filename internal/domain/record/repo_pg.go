package record

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

const recordCols = `id, patient_id, medical_record, created_at, updated_at`
const appointmentCols = `id, record_id, date, physio_id, diagnosis, treatment, observations, created_at`

func (r *repoPG) Create(ctx context.Context, rec *Record) error {
	rec.ID = uuid.New()
	err := r.pool.QueryRow(ctx, `
		INSERT INTO record (id, patient_id, medical_record)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at`,
		rec.ID, rec.PatientID, rec.MedicalRecord,
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return db.Translate(err)
	}
	rec.Appointments = []*Appointment{}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Record, error) {
	return r.get(ctx, `SELECT `+recordCols+` FROM record WHERE id = $1`, id)
}

func (r *repoPG) GetByPatient(ctx context.Context, patientID uuid.UUID) (*Record, error) {
	return r.get(ctx, `SELECT `+recordCols+` FROM record WHERE patient_id = $1`, patientID)
}

func (r *repoPG) get(ctx context.Context, query string, arg any) (*Record, error) {
	var rec Record
	err := r.pool.QueryRow(ctx, query, arg).
		Scan(&rec.ID, &rec.PatientID, &rec.MedicalRecord, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, db.Translate(err)
	}
	if err := r.loadAppointments(ctx, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *repoPG) loadAppointments(ctx context.Context, rec *Record) error {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentCols+` FROM appointment
		WHERE record_id = $1
		ORDER BY created_at, id`, rec.ID)
	if err != nil {
		return db.Translate(err)
	}
	defer rows.Close()

	rec.Appointments = []*Appointment{}
	for rows.Next() {
		var a Appointment
		if err := rows.Scan(&a.ID, &a.RecordID, &a.Date, &a.PhysioID, &a.Diagnosis, &a.Treatment, &a.Observations, &a.CreatedAt); err != nil {
			return err
		}
		rec.Appointments = append(rec.Appointments, &a)
	}
	return rows.Err()
}

func (r *repoPG) List(ctx context.Context, surname string, limit, offset int) ([]*Record, int, error) {
	filter := "%" + surname + "%"

	var total int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM record r
		JOIN patient p ON p.id = r.patient_id
		WHERE p.surname ILIKE $1`, filter).Scan(&total)
	if err != nil {
		return nil, 0, db.Translate(err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT r.id, r.patient_id, r.medical_record, r.created_at, r.updated_at
		FROM record r
		JOIN patient p ON p.id = r.patient_id
		WHERE p.surname ILIKE $1
		ORDER BY p.surname, p.name
		LIMIT $2 OFFSET $3`, filter, limit, offset)
	if err != nil {
		return nil, 0, db.Translate(err)
	}

	var records []*Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.PatientID, &rec.MedicalRecord, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			rows.Close()
			return nil, 0, err
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, 0, err
	}
	rows.Close()

	for _, rec := range records {
		if err := r.loadAppointments(ctx, rec); err != nil {
			return nil, 0, err
		}
	}
	return records, total, nil
}

func (r *repoPG) Update(ctx context.Context, rec *Record) error {
	ct, err := r.pool.Exec(ctx, `
		UPDATE record SET medical_record=$2, updated_at=NOW() WHERE id = $1`,
		rec.ID, rec.MedicalRecord,
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
	ct, err := r.pool.Exec(ctx, `DELETE FROM record WHERE id = $1`, id)
	if err != nil {
		return db.Translate(err)
	}
	if ct.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *repoPG) AddAppointment(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	err := r.pool.QueryRow(ctx, `
		INSERT INTO appointment (id, record_id, date, physio_id, diagnosis, treatment, observations)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`,
		a.ID, a.RecordID, a.Date, a.PhysioID, a.Diagnosis, a.Treatment, a.Observations,
	).Scan(&a.CreatedAt)
	return db.Translate(err)
}
