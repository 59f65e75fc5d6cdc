package tax

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for tax rates
type Repository interface {
	// FindByID finds a tax rate by ID, returning nil when not found
	FindByID(ctx context.Context, id uuid.UUID) (*TaxRate, error)

	// FindActiveByJurisdiction finds all active rates exactly matching the
	// jurisdiction key. Effective-window filtering is the resolver's job.
	FindActiveByJurisdiction(ctx context.Context, j Jurisdiction) ([]TaxRate, error)

	// List returns all rates, active and inactive
	List(ctx context.Context) ([]TaxRate, error)

	// Save creates or updates a tax rate
	Save(ctx context.Context, r *TaxRate) error
}
