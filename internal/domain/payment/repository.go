package payment

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for payments
type Repository interface {
	// FindByID finds a payment by ID, returning nil when not found
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)

	// Save creates or updates a payment
	Save(ctx context.Context, p *Payment) error

	// SaveWithLock updates a payment with an optimistic version check.
	// Returns shared.ErrConcurrentModification when the version predicate
	// matches no rows.
	SaveWithLock(ctx context.Context, p *Payment) error
}
