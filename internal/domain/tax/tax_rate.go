package tax

import (
	"time"

	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// RateType labels the kind of tax a rate represents
type RateType string

const (
	RateTypeVAT      RateType = "VAT"
	RateTypeGST      RateType = "GST"
	RateTypeSalesTax RateType = "SALES_TAX"
	RateTypeOther    RateType = "OTHER"
)

// IsValid checks if the rate type is a known label
func (t RateType) IsValid() bool {
	switch t {
	case RateTypeVAT, RateTypeGST, RateTypeSalesTax, RateTypeOther:
		return true
	}
	return false
}

// String returns the string representation of RateType
func (t RateType) String() string {
	return string(t)
}

// TaxRate represents a jurisdictional tax rate aggregate root.
// For any (country, state, region) key at most one rate may be active and
// effective for a given instant; superseded rates are deactivated, never
// deleted, so historical report recomputation stays correct.
type TaxRate struct {
	shared.BaseAggregateRoot

	Country string `json:"country"`
	State   string `json:"state"`
	Region  string `json:"region"`

	// Rate is a percentage with two decimal places, e.g. 7.25
	Rate     decimal.Decimal `json:"rate"`
	RateType RateType        `json:"rate_type"`

	Active        bool       `json:"active"`
	EffectiveFrom *time.Time `json:"effective_from"`
	EffectiveTo   *time.Time `json:"effective_to"`

	Metadata map[string]string `json:"metadata"`
}

// NewTaxRate creates a new active tax rate
func NewTaxRate(jurisdiction Jurisdiction, rate decimal.Decimal, rateType RateType, effectiveFrom, effectiveTo *time.Time, metadata map[string]string) (*TaxRate, error) {
	if jurisdiction.Country == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Country cannot be empty")
	}
	if jurisdiction.Region != "" && jurisdiction.State == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Region requires a state")
	}
	if rate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Tax rate cannot be negative")
	}
	if !rateType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid rate type")
	}
	if effectiveFrom != nil && effectiveTo != nil && !effectiveFrom.Before(*effectiveTo) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Effective window must not be empty")
	}
	if metadata == nil {
		metadata = map[string]string{}
	}

	return &TaxRate{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Country:           jurisdiction.Country,
		State:             jurisdiction.State,
		Region:            jurisdiction.Region,
		Rate:              rate.Round(2),
		RateType:          rateType,
		Active:            true,
		EffectiveFrom:     effectiveFrom,
		EffectiveTo:       effectiveTo,
		Metadata:          metadata,
	}, nil
}

// Jurisdiction returns the rate's jurisdiction key
func (r *TaxRate) Jurisdiction() Jurisdiction {
	return Jurisdiction{Country: r.Country, State: r.State, Region: r.Region}
}

// ContainsInstant reports whether the effective window [from, to) covers the
// given instant. A nil bound is open: no effective-from means valid from the
// start of time, no effective-to means valid indefinitely.
func (r *TaxRate) ContainsInstant(asOf time.Time) bool {
	if r.EffectiveFrom != nil && asOf.Before(*r.EffectiveFrom) {
		return false
	}
	if r.EffectiveTo != nil && !asOf.Before(*r.EffectiveTo) {
		return false
	}
	return true
}

// OverlapsWindow reports whether this rate's effective window intersects
// [from, to), with nil bounds treated as open
func (r *TaxRate) OverlapsWindow(from, to *time.Time) bool {
	// a starts before b ends, and b starts before a ends
	if r.EffectiveFrom != nil && to != nil && !r.EffectiveFrom.Before(*to) {
		return false
	}
	if from != nil && r.EffectiveTo != nil && !from.Before(*r.EffectiveTo) {
		return false
	}
	return true
}

// Deactivate retires the rate without deleting it
func (r *TaxRate) Deactivate() {
	r.Active = false
	r.UpdatedAt = time.Now()
}
