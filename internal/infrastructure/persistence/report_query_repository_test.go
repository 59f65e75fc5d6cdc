package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/domain/payment"
	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/domain/refund"
	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/domain/report"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedPayment(t *testing.T, db *gorm.DB, courseID uuid.UUID, amount int64, paidAt time.Time) *payment.Payment {
	t.Helper()
	p, err := payment.NewPayment(uuid.New(), courseID, decimal.NewFromInt(amount), "USD", paidAt)
	require.NoError(t, err)
	require.NoError(t, NewGormPaymentRepository(db).Save(context.Background(), p))
	return p
}

func seedCompletedRefund(t *testing.T, db *gorm.DB, paymentID uuid.UUID, amount int64) {
	t.Helper()
	r, err := refund.NewRefund(paymentID, decimal.NewFromInt(amount), "USD", "reporting test", "", nil, false)
	require.NoError(t, err)
	r.Status = refund.StatusCompleted
	require.NoError(t, NewGormRefundRepository(db).Save(context.Background(), r))
}

func TestReportQueries(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	paymentQueries := NewGormPaymentQueryRepository(db)
	refundQueries := NewGormRefundQueryRepository(db)

	june := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	july := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	courseID := uuid.New()

	inJune := seedPayment(t, db, courseID, 300, june.AddDate(0, 0, 10))
	seedPayment(t, db, uuid.New(), 200, june.AddDate(0, 0, 20))
	seedPayment(t, db, courseID, 500, july.AddDate(0, 0, 5)) // outside the window

	// One completed and one failed refund against the June payment;
	// only the completed one counts
	seedCompletedRefund(t, db, inJune.ID, 100)
	failed, err := refund.NewRefund(inJune.ID, decimal.NewFromInt(40), "USD", "reporting test", "", nil, false)
	require.NoError(t, err)
	failed.Status = refund.StatusFailed
	require.NoError(t, NewGormRefundRepository(db).Save(ctx, failed))

	t.Run("unfiltered sums and counts", func(t *testing.T) {
		revenue, err := paymentQueries.SumCompleted(ctx, june, july, report.Filter{})
		require.NoError(t, err)
		assert.True(t, revenue.Equal(decimal.NewFromInt(500)), "got %s", revenue)

		count, err := paymentQueries.CountCompleted(ctx, june, july, report.Filter{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		refunded, err := refundQueries.SumCompleted(ctx, june, july, report.Filter{})
		require.NoError(t, err)
		assert.True(t, refunded.Equal(decimal.NewFromInt(100)), "got %s", refunded)
	})

	t.Run("course filter narrows every aggregate", func(t *testing.T) {
		filter := report.Filter{CourseID: &courseID}

		revenue, err := paymentQueries.SumCompleted(ctx, june, july, filter)
		require.NoError(t, err)
		assert.True(t, revenue.Equal(decimal.NewFromInt(300)))

		count, err := paymentQueries.CountCompleted(ctx, june, july, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		refunded, err := refundQueries.SumCompleted(ctx, june, july, filter)
		require.NoError(t, err)
		assert.True(t, refunded.Equal(decimal.NewFromInt(100)))
	})

	t.Run("empty window sums to zero", func(t *testing.T) {
		may := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
		revenue, err := paymentQueries.SumCompleted(ctx, may, june, report.Filter{})
		require.NoError(t, err)
		assert.True(t, revenue.IsZero())

		refunded, err := refundQueries.SumCompleted(ctx, may, june, report.Filter{})
		require.NoError(t, err)
		assert.True(t, refunded.IsZero())
	})

	t.Run("refunds attribute to the payment settlement period", func(t *testing.T) {
		// The July payment gets a refund; June's refund total is unchanged
		julyPayment := seedPayment(t, db, uuid.New(), 500, july.AddDate(0, 0, 6))
		seedCompletedRefund(t, db, julyPayment.ID, 250)

		refunded, err := refundQueries.SumCompleted(ctx, june, july, report.Filter{})
		require.NoError(t, err)
		assert.True(t, refunded.Equal(decimal.NewFromInt(100)))

		augustStart := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)
		refunded, err = refundQueries.SumCompleted(ctx, july, augustStart, report.Filter{})
		require.NoError(t, err)
		assert.True(t, refunded.Equal(decimal.NewFromInt(250)))
	})
}
