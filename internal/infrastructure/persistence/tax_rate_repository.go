package persistence

import (
	"context"
	"errors"

	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/domain/tax"
	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTaxRateRepository implements tax.Repository using GORM
type GormTaxRateRepository struct {
	db *gorm.DB
}

var _ tax.Repository = (*GormTaxRateRepository)(nil)

// NewGormTaxRateRepository creates a new GormTaxRateRepository
func NewGormTaxRateRepository(db *gorm.DB) *GormTaxRateRepository {
	return &GormTaxRateRepository{db: db}
}

// FindByID finds a tax rate by ID
func (r *GormTaxRateRepository) FindByID(ctx context.Context, id uuid.UUID) (*tax.TaxRate, error) {
	var model models.TaxRateModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActiveByJurisdiction finds active rates exactly matching the key
func (r *GormTaxRateRepository) FindActiveByJurisdiction(ctx context.Context, j tax.Jurisdiction) ([]tax.TaxRate, error) {
	var rateModels []models.TaxRateModel
	if err := r.db.WithContext(ctx).
		Where("country = ? AND state = ? AND region = ? AND active = ?", j.Country, j.State, j.Region, true).
		Find(&rateModels).Error; err != nil {
		return nil, err
	}
	return toDomainTaxRates(rateModels), nil
}

// List returns all rates, active and inactive
func (r *GormTaxRateRepository) List(ctx context.Context) ([]tax.TaxRate, error) {
	var rateModels []models.TaxRateModel
	if err := r.db.WithContext(ctx).
		Order("country, state, region").
		Find(&rateModels).Error; err != nil {
		return nil, err
	}
	return toDomainTaxRates(rateModels), nil
}

// Save creates or updates a tax rate
func (r *GormTaxRateRepository) Save(ctx context.Context, rate *tax.TaxRate) error {
	return r.db.WithContext(ctx).Save(models.TaxRateModelFromDomain(rate)).Error
}

func toDomainTaxRates(rateModels []models.TaxRateModel) []tax.TaxRate {
	rates := make([]tax.TaxRate, len(rateModels))
	for i := range rateModels {
		rates[i] = *rateModels[i].ToDomain()
	}
	return rates
}
