package persistence

import (
	"context"
	"time"

	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/domain/payment"
	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/domain/refund"
	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/domain/report"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var settledStatuses = []string{
	payment.StatusCompleted.String(),
	payment.StatusPartiallyRefunded.String(),
	payment.StatusRefunded.String(),
}

// GormPaymentQueryRepository aggregates payments for reporting
type GormPaymentQueryRepository struct {
	db *gorm.DB
}

var _ report.PaymentQueryRepository = (*GormPaymentQueryRepository)(nil)

// NewGormPaymentQueryRepository creates a new GormPaymentQueryRepository
func NewGormPaymentQueryRepository(db *gorm.DB) *GormPaymentQueryRepository {
	return &GormPaymentQueryRepository{db: db}
}

// SumCompleted sums payment amounts settled in [start, end). Later refunds
// do not shrink revenue; they are reported separately.
func (r *GormPaymentQueryRepository) SumCompleted(ctx context.Context, start, end time.Time, filter report.Filter) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := applyPaymentFilter(r.settledInWindow(ctx, start, end), filter).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

// CountCompleted counts payments settled in [start, end)
func (r *GormPaymentQueryRepository) CountCompleted(ctx context.Context, start, end time.Time, filter report.Filter) (int64, error) {
	var count int64
	err := applyPaymentFilter(r.settledInWindow(ctx, start, end), filter).
		Count(&count).Error
	return count, err
}

func (r *GormPaymentQueryRepository) settledInWindow(ctx context.Context, start, end time.Time) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("payments").
		Where("paid_at >= ? AND paid_at < ?", start, end).
		Where("status IN ?", settledStatuses)
}

// GormRefundQueryRepository aggregates completed refunds for reporting
type GormRefundQueryRepository struct {
	db *gorm.DB
}

var _ report.RefundQueryRepository = (*GormRefundQueryRepository)(nil)

// NewGormRefundQueryRepository creates a new GormRefundQueryRepository
func NewGormRefundQueryRepository(db *gorm.DB) *GormRefundQueryRepository {
	return &GormRefundQueryRepository{db: db}
}

// SumCompleted sums completed refund amounts attributed to the settlement
// period of the originating payment, not the period the refund completed in
func (r *GormRefundQueryRepository) SumCompleted(ctx context.Context, start, end time.Time, filter report.Filter) (decimal.Decimal, error) {
	query := r.db.WithContext(ctx).
		Table("refunds").
		Joins("JOIN payments ON payments.id = refunds.payment_id").
		Where("refunds.status = ?", refund.StatusCompleted.String()).
		Where("payments.paid_at >= ? AND payments.paid_at < ?", start, end)

	if filter.CourseID != nil {
		query = query.Where("payments.course_id = ?", *filter.CourseID)
	}
	if filter.StudentID != nil {
		query = query.Where("payments.student_id = ?", *filter.StudentID)
	}

	var total decimal.Decimal
	err := query.Select("COALESCE(SUM(refunds.amount), 0)").Scan(&total).Error
	return total, err
}

func applyPaymentFilter(query *gorm.DB, filter report.Filter) *gorm.DB {
	if filter.CourseID != nil {
		query = query.Where("course_id = ?", *filter.CourseID)
	}
	if filter.StudentID != nil {
		query = query.Where("student_id = ?", *filter.StudentID)
	}
	return query
}
