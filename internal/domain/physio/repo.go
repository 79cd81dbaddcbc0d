package physio

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists physios.
type Repository interface {
	Create(ctx context.Context, p *Physio) error
	GetByID(ctx context.Context, id uuid.UUID) (*Physio, error)
	// List returns physios matching the case-insensitive specialty
	// substring filter. An empty filter matches everyone.
	List(ctx context.Context, specialty string, limit, offset int) ([]*Physio, int, error)
	Update(ctx context.Context, p *Physio) error
	Delete(ctx context.Context, id uuid.UUID) error
}
