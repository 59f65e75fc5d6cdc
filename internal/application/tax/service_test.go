package tax_test

import (
	"context"
	"testing"
	"time"

	apptax "github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/application/tax"
	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/domain/shared"
	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/domain/tax"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRateRepo struct {
	rates map[uuid.UUID]*tax.TaxRate
}

func newFakeRateRepo() *fakeRateRepo {
	return &fakeRateRepo{rates: make(map[uuid.UUID]*tax.TaxRate)}
}

func (f *fakeRateRepo) FindByID(_ context.Context, id uuid.UUID) (*tax.TaxRate, error) {
	r, ok := f.rates[id]
	if !ok {
		return nil, nil
	}
	copied := *r
	return &copied, nil
}

func (f *fakeRateRepo) FindActiveByJurisdiction(_ context.Context, j tax.Jurisdiction) ([]tax.TaxRate, error) {
	var out []tax.TaxRate
	for _, r := range f.rates {
		if r.Active && r.Jurisdiction().Key() == j.Key() {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRateRepo) List(_ context.Context) ([]tax.TaxRate, error) {
	var out []tax.TaxRate
	for _, r := range f.rates {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeRateRepo) Save(_ context.Context, r *tax.TaxRate) error {
	copied := *r
	f.rates[r.ID] = &copied
	return nil
}

var _ tax.Repository = (*fakeRateRepo)(nil)

func seedRate(t *testing.T, repo *fakeRateRepo, country, state, region string, rate float64) *tax.TaxRate {
	t.Helper()
	r, err := tax.NewTaxRate(tax.NewJurisdiction(country, state, region), decimal.NewFromFloat(rate), tax.RateTypeSalesTax, nil, nil, nil)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), r))
	return r
}

func TestResolveRateFallback(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRateRepo()
	svc := apptax.NewService(repo)
	now := time.Now()

	seedRate(t, repo, "US", "", "", 0)
	seedRate(t, repo, "US", "CA", "", 7.25)
	seedRate(t, repo, "US", "CA", "San Francisco", 8.63)

	tests := []struct {
		name         string
		query        tax.Jurisdiction
		wantRate     float64
		wantAppliedK string
	}{
		{
			name:         "exact region match",
			query:        tax.NewJurisdiction("US", "CA", "San Francisco"),
			wantRate:     8.63,
			wantAppliedK: "US/CA/San Francisco",
		},
		{
			name:         "unknown region falls back to state",
			query:        tax.NewJurisdiction("US", "CA", "Sacramento"),
			wantRate:     7.25,
			wantAppliedK: "US/CA/",
		},
		{
			name:         "unknown state falls back to country",
			query:        tax.NewJurisdiction("US", "OR", ""),
			wantRate:     0,
			wantAppliedK: "US//",
		},
		{
			name:         "state query resolves at state level",
			query:        tax.NewJurisdiction("US", "CA", ""),
			wantRate:     7.25,
			wantAppliedK: "US/CA/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.ResolveRate(ctx, tt.query, now)
			require.NoError(t, err)
			assert.True(t, res.Rate.Equal(decimal.NewFromFloat(tt.wantRate)),
				"got %s want %v", res.Rate, tt.wantRate)
			assert.Equal(t, tt.wantAppliedK, res.AppliedFrom.Key())
		})
	}
}

func TestResolveRateNoApplicableRate(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRateRepo()
	svc := apptax.NewService(repo)

	seedRate(t, repo, "US", "", "", 0)

	_, err := svc.ResolveRate(ctx, tax.NewJurisdiction("FR", "", ""), time.Now())
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NO_APPLICABLE_RATE", domainErr.Code)
}

func TestResolveRateIgnoresOutOfWindowRates(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRateRepo()
	svc := apptax.NewService(repo)

	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	r, err := tax.NewTaxRate(tax.NewJurisdiction("DE", "", ""), decimal.NewFromFloat(19), tax.RateTypeVAT, &from, nil, nil)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, r))

	_, err = svc.ResolveRate(ctx, tax.NewJurisdiction("DE", "", ""), from.AddDate(0, -1, 0))
	assert.ErrorIs(t, err, shared.ErrNoApplicableRate)

	res, err := svc.ResolveRate(ctx, tax.NewJurisdiction("DE", "", ""), from)
	require.NoError(t, err)
	assert.True(t, res.Rate.Equal(decimal.NewFromFloat(19)))
}

func TestResolveRateAmbiguous(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRateRepo()
	svc := apptax.NewService(repo)

	// Two open-window active rates at the same key, inserted behind the
	// service's back
	seedRate(t, repo, "US", "CA", "", 7.25)
	seedRate(t, repo, "US", "CA", "", 7.50)

	_, err := svc.ResolveRate(ctx, tax.NewJurisdiction("US", "CA", ""), time.Now())
	assert.ErrorIs(t, err, shared.ErrAmbiguousRate)

	// The broader country level still resolves cleanly
	seedRate(t, repo, "US", "", "", 0)
	_, err = svc.ResolveRate(ctx, tax.NewJurisdiction("US", "NV", ""), time.Now())
	assert.NoError(t, err)
}

func TestCalculateTax(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRateRepo()
	svc := apptax.NewService(repo)
	now := time.Now()

	seedRate(t, repo, "US", "CA", "", 7.25)

	calc, err := svc.CalculateTax(ctx, decimal.NewFromInt(100), tax.NewJurisdiction("US", "CA", ""), now)
	require.NoError(t, err)
	assert.Equal(t, "7.25", calc.TaxAmount.StringFixed(2))
	assert.Equal(t, "107.25", calc.Total.StringFixed(2))

	// Rounding happens on the tax amount before the total is formed
	calc, err = svc.CalculateTax(ctx, decimal.NewFromFloat(19.99), tax.NewJurisdiction("US", "CA", ""), now)
	require.NoError(t, err)
	assert.Equal(t, "1.45", calc.TaxAmount.StringFixed(2))
	assert.Equal(t, "21.44", calc.Total.StringFixed(2))

	_, err = svc.CalculateTax(ctx, decimal.NewFromInt(-1), tax.NewJurisdiction("US", "CA", ""), now)
	assert.Error(t, err)
}

func TestCreateRateRejectsOverlap(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRateRepo()
	svc := apptax.NewService(repo)

	jan := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	jul := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.CreateRate(ctx, apptax.CreateRateInput{
		Country:       "US",
		State:         "CA",
		Rate:          decimal.NewFromFloat(7.25),
		RateType:      tax.RateTypeSalesTax,
		EffectiveFrom: &jan,
		EffectiveTo:   &jul,
	})
	require.NoError(t, err)

	// Overlapping window at the same key is rejected
	mar := jan.AddDate(0, 2, 0)
	_, err = svc.CreateRate(ctx, apptax.CreateRateInput{
		Country:       "US",
		State:         "CA",
		Rate:          decimal.NewFromFloat(7.50),
		RateType:      tax.RateTypeSalesTax,
		EffectiveFrom: &mar,
	})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "AMBIGUOUS_RATE", domainErr.Code)

	// An adjacent window starting exactly at the old end is fine
	_, err = svc.CreateRate(ctx, apptax.CreateRateInput{
		Country:       "US",
		State:         "CA",
		Rate:          decimal.NewFromFloat(7.50),
		RateType:      tax.RateTypeSalesTax,
		EffectiveFrom: &jul,
	})
	assert.NoError(t, err)

	// A different jurisdiction key never conflicts
	_, err = svc.CreateRate(ctx, apptax.CreateRateInput{
		Country:  "US",
		State:    "NV",
		Rate:     decimal.NewFromFloat(6.85),
		RateType: tax.RateTypeSalesTax,
	})
	assert.NoError(t, err)
}

func TestDeactivateRateRemovesItFromResolution(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRateRepo()
	svc := apptax.NewService(repo)

	r := seedRate(t, repo, "DE", "", "", 19)

	_, err := svc.ResolveRate(ctx, tax.NewJurisdiction("DE", "", ""), time.Now())
	require.NoError(t, err)

	require.NoError(t, svc.DeactivateRate(ctx, r.ID))
	_, err = svc.ResolveRate(ctx, tax.NewJurisdiction("DE", "", ""), time.Now())
	assert.ErrorIs(t, err, shared.ErrNoApplicableRate)

	assert.ErrorIs(t, svc.DeactivateRate(ctx, uuid.New()), shared.ErrNotFound)
}
