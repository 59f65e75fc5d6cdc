package tax

import (
	"context"
	"sync"
	"time"

	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/domain/shared"
	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/domain/tax"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service provides application-level tax operations: rate management and
// point-in-time rate resolution with jurisdictional fallback.
type Service struct {
	repo tax.Repository

	// locks serializes writes per jurisdiction key so overlap checks and
	// inserts for the same jurisdiction cannot interleave. Reads stay
	// lock-free; resolution never blocks on rate management.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService creates a new tax Service
func NewService(repo tax.Repository) *Service {
	return &Service{
		repo:  repo,
		locks: make(map[string]*sync.Mutex),
	}
}

// Resolution is the outcome of a rate lookup, including which jurisdiction
// level actually supplied the rate
type Resolution struct {
	Rate        decimal.Decimal  `json:"rate"`
	RateType    tax.RateType     `json:"rate_type"`
	RateID      uuid.UUID        `json:"rate_id"`
	AppliedFrom tax.Jurisdiction `json:"applied_from"`
}

// Calculation is the outcome of a tax computation
type Calculation struct {
	Amount      decimal.Decimal  `json:"amount"`
	Rate        decimal.Decimal  `json:"rate"`
	TaxAmount   decimal.Decimal  `json:"tax_amount"`
	Total       decimal.Decimal  `json:"total"`
	AppliedFrom tax.Jurisdiction `json:"applied_from"`
}

// CreateRateInput carries the fields needed to register a tax rate
type CreateRateInput struct {
	Country       string            `json:"country" binding:"required"`
	State         string            `json:"state"`
	Region        string            `json:"region"`
	Rate          decimal.Decimal   `json:"rate"`
	RateType      tax.RateType      `json:"rate_type" binding:"required"`
	EffectiveFrom *time.Time        `json:"effective_from"`
	EffectiveTo   *time.Time        `json:"effective_to"`
	Metadata      map[string]string `json:"metadata"`
}

// ResolveRate finds the tax rate for a jurisdiction at a given instant,
// walking from the most specific candidate key to the least specific.
// A match at a more specific level shadows any broader rate; two
// effective rates at the same level is a data error and resolution fails
// rather than guessing.
func (s *Service) ResolveRate(ctx context.Context, j tax.Jurisdiction, asOf time.Time) (*Resolution, error) {
	for _, candidate := range j.CandidateKeys() {
		rates, err := s.repo.FindActiveByJurisdiction(ctx, candidate)
		if err != nil {
			return nil, err
		}

		var effective []tax.TaxRate
		for _, r := range rates {
			if r.ContainsInstant(asOf) {
				effective = append(effective, r)
			}
		}

		switch len(effective) {
		case 0:
			continue
		case 1:
			return &Resolution{
				Rate:        effective[0].Rate,
				RateType:    effective[0].RateType,
				RateID:      effective[0].ID,
				AppliedFrom: candidate,
			}, nil
		default:
			return nil, shared.ErrAmbiguousRate
		}
	}
	return nil, shared.ErrNoApplicableRate
}

// CalculateTax resolves the applicable rate and computes the tax for an
// amount. The tax amount is rounded half-up to two decimal places before
// the total is formed, so total always equals amount plus tax exactly.
func (s *Service) CalculateTax(ctx context.Context, amount decimal.Decimal, j tax.Jurisdiction, asOf time.Time) (*Calculation, error) {
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Amount cannot be negative")
	}

	resolution, err := s.ResolveRate(ctx, j, asOf)
	if err != nil {
		return nil, err
	}

	taxAmount := amount.Mul(resolution.Rate).Div(decimal.NewFromInt(100)).Round(2)
	return &Calculation{
		Amount:      amount,
		Rate:        resolution.Rate,
		TaxAmount:   taxAmount,
		Total:       amount.Add(taxAmount),
		AppliedFrom: resolution.AppliedFrom,
	}, nil
}

// CreateRate registers a new tax rate, rejecting any rate whose effective
// window overlaps an active rate for the same jurisdiction key
func (s *Service) CreateRate(ctx context.Context, input CreateRateInput) (*tax.TaxRate, error) {
	jurisdiction := tax.NewJurisdiction(input.Country, input.State, input.Region)

	rate, err := tax.NewTaxRate(jurisdiction, input.Rate, input.RateType, input.EffectiveFrom, input.EffectiveTo, input.Metadata)
	if err != nil {
		return nil, err
	}

	lock := s.jurisdictionLock(jurisdiction.Key())
	lock.Lock()
	defer lock.Unlock()

	existing, err := s.repo.FindActiveByJurisdiction(ctx, jurisdiction)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if existing[i].OverlapsWindow(input.EffectiveFrom, input.EffectiveTo) {
			return nil, shared.NewDomainError("AMBIGUOUS_RATE",
				"Effective window overlaps an active rate for this jurisdiction")
		}
	}

	if err := s.repo.Save(ctx, rate); err != nil {
		return nil, err
	}
	return rate, nil
}

// DeactivateRate retires a rate so it no longer participates in resolution
func (s *Service) DeactivateRate(ctx context.Context, id uuid.UUID) error {
	rate, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if rate == nil {
		return shared.ErrNotFound
	}

	lock := s.jurisdictionLock(rate.Jurisdiction().Key())
	lock.Lock()
	defer lock.Unlock()

	rate.Deactivate()
	return s.repo.Save(ctx, rate)
}

// ListRates returns all registered rates
func (s *Service) ListRates(ctx context.Context) ([]tax.TaxRate, error) {
	return s.repo.List(ctx)
}

func (s *Service) jurisdictionLock(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	return lock
}
