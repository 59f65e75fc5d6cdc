package models

import (
	"time"

	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/domain/tax"
	"github.com/shopspring/decimal"
)

// TaxRateModel is the persistence model for tax rates
type TaxRateModel struct {
	AggregateModel
	Country       string          `gorm:"type:varchar(2);not null;index:idx_tax_rates_jurisdiction"`
	State         string          `gorm:"type:varchar(64);not null;default:'';index:idx_tax_rates_jurisdiction"`
	Region        string          `gorm:"type:varchar(128);not null;default:'';index:idx_tax_rates_jurisdiction"`
	Rate          decimal.Decimal `gorm:"type:numeric(6,2);not null"`
	RateType      string          `gorm:"type:varchar(16);not null"`
	Active        bool            `gorm:"not null;default:true;index"`
	EffectiveFrom *time.Time      ``
	EffectiveTo   *time.Time      ``
	Metadata      JSONMap         `gorm:"type:jsonb"`
}

// TableName returns the table name for TaxRateModel
func (TaxRateModel) TableName() string {
	return "tax_rates"
}

// ToDomain converts TaxRateModel to a domain TaxRate
func (m *TaxRateModel) ToDomain() *tax.TaxRate {
	return &tax.TaxRate{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Country:           m.Country,
		State:             m.State,
		Region:            m.Region,
		Rate:              m.Rate,
		RateType:          tax.RateType(m.RateType),
		Active:            m.Active,
		EffectiveFrom:     m.EffectiveFrom,
		EffectiveTo:       m.EffectiveTo,
		Metadata:          m.Metadata,
	}
}

// TaxRateModelFromDomain converts a domain TaxRate to TaxRateModel
func TaxRateModelFromDomain(r *tax.TaxRate) *TaxRateModel {
	m := &TaxRateModel{
		Country:       r.Country,
		State:         r.State,
		Region:        r.Region,
		Rate:          r.Rate,
		RateType:      r.RateType.String(),
		Active:        r.Active,
		EffectiveFrom: r.EffectiveFrom,
		EffectiveTo:   r.EffectiveTo,
		Metadata:      r.Metadata,
	}
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	return m
}
