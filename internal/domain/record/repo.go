package record

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists records and their appointments.
type Repository interface {
	Create(ctx context.Context, r *Record) error
	// GetByID loads a record together with its appointments, ordered
	// by insertion.
	GetByID(ctx context.Context, id uuid.UUID) (*Record, error)
	GetByPatient(ctx context.Context, patientID uuid.UUID) (*Record, error)
	// List returns records whose patient surname contains the filter,
	// appointments included. An empty filter matches everyone.
	List(ctx context.Context, surname string, limit, offset int) ([]*Record, int, error)
	Update(ctx context.Context, r *Record) error
	Delete(ctx context.Context, id uuid.UUID) error
	AddAppointment(ctx context.Context, a *Appointment) error
}
