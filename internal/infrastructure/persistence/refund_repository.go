package persistence

import (
	"context"
	"errors"

	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/domain/refund"
	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/domain/shared"
	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRefundRepository implements refund.Repository using GORM
type GormRefundRepository struct {
	db *gorm.DB
}

var _ refund.Repository = (*GormRefundRepository)(nil)

// NewGormRefundRepository creates a new GormRefundRepository
func NewGormRefundRepository(db *gorm.DB) *GormRefundRepository {
	return &GormRefundRepository{db: db}
}

// FindByID finds a refund by ID
func (r *GormRefundRepository) FindByID(ctx context.Context, id uuid.UUID) (*refund.Refund, error) {
	var model models.RefundModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByPayment finds all refunds against a payment
func (r *GormRefundRepository) FindByPayment(ctx context.Context, paymentID uuid.UUID) ([]refund.Refund, error) {
	var refundModels []models.RefundModel
	if err := r.db.WithContext(ctx).
		Where("payment_id = ?", paymentID).
		Order("requested_at DESC").
		Find(&refundModels).Error; err != nil {
		return nil, err
	}
	return toDomainRefunds(refundModels), nil
}

// List finds refunds matching the filter, newest first
func (r *GormRefundRepository) List(ctx context.Context, filter refund.Filter) ([]refund.Refund, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.RefundModel{}), filter).
		Order("requested_at DESC")

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		if filter.Page > 1 {
			query = query.Offset((filter.Page - 1) * filter.PageSize)
		}
	}

	var refundModels []models.RefundModel
	if err := query.Find(&refundModels).Error; err != nil {
		return nil, err
	}
	return toDomainRefunds(refundModels), nil
}

// Count counts refunds matching the filter
func (r *GormRefundRepository) Count(ctx context.Context, filter refund.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&models.RefundModel{}), filter).
		Count(&count).Error
	return count, err
}

// Save creates or updates a refund without a version check
func (r *GormRefundRepository) Save(ctx context.Context, record *refund.Refund) error {
	return r.db.WithContext(ctx).Save(models.RefundModelFromDomain(record)).Error
}

// SaveWithLock updates a refund only if the stored version still matches
// the version the caller loaded. Zero affected rows means another worker
// changed the refund first.
func (r *GormRefundRepository) SaveWithLock(ctx context.Context, record *refund.Refund) error {
	model := models.RefundModelFromDomain(record)
	model.Version = record.Version + 1

	result := r.db.WithContext(ctx).
		Model(&models.RefundModel{}).
		Where("id = ? AND version = ?", record.ID, record.Version).
		Select("*").
		Omit("id", "created_at").
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrentModification
	}
	record.IncrementVersion()
	return nil
}

func (r *GormRefundRepository) applyFilter(query *gorm.DB, filter refund.Filter) *gorm.DB {
	if filter.PaymentID != nil {
		query = query.Where("payment_id = ?", *filter.PaymentID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", filter.Status.String())
	}
	if filter.FromDate != nil {
		query = query.Where("requested_at >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("requested_at < ?", *filter.ToDate)
	}
	return query
}

func toDomainRefunds(refundModels []models.RefundModel) []refund.Refund {
	refunds := make([]refund.Refund, len(refundModels))
	for i := range refundModels {
		refunds[i] = *refundModels[i].ToDomain()
	}
	return refunds
}
