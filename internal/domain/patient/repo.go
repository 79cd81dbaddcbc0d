package patient

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists patients.
type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	// List returns patients matching the case-insensitive substring
	// filters. Empty filters match everyone.
	List(ctx context.Context, name, surname string, limit, offset int) ([]*Patient, int, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id uuid.UUID) error
}
