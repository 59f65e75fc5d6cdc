package refund

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Filter defines filtering options for refund queries
type Filter struct {
	PaymentID *uuid.UUID
	Status    *Status
	FromDate  *time.Time
	ToDate    *time.Time
	Page      int
	PageSize  int
}

// Repository defines persistence operations for refunds
type Repository interface {
	// FindByID finds a refund by ID, returning nil when not found
	FindByID(ctx context.Context, id uuid.UUID) (*Refund, error)

	// FindByPayment finds all refunds against a payment
	FindByPayment(ctx context.Context, paymentID uuid.UUID) ([]Refund, error)

	// List finds refunds matching the filter, newest first
	List(ctx context.Context, filter Filter) ([]Refund, error)

	// Count counts refunds matching the filter
	Count(ctx context.Context, filter Filter) (int64, error)

	// Save creates or updates a refund
	Save(ctx context.Context, r *Refund) error

	// SaveWithLock updates a refund with an optimistic version check.
	// Returns shared.ErrConcurrentModification when the version predicate
	// matches no rows, signalling that another worker won the transition.
	SaveWithLock(ctx context.Context, r *Refund) error
}
