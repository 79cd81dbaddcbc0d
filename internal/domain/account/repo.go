package account

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists accounts.
type Repository interface {
	Create(ctx context.Context, a *Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)
	GetByLogin(ctx context.Context, login string) (*Account, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
