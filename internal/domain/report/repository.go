package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentQueryRepository aggregates over settled payments for reporting
type PaymentQueryRepository interface {
	// SumCompleted sums payment amounts settled in [start, end) matching
	// the filter. Refunded and partially refunded payments still count at
	// their full amount; refunds are subtracted separately.
	SumCompleted(ctx context.Context, start, end time.Time, filter Filter) (decimal.Decimal, error)

	// CountCompleted counts payments settled in [start, end) matching the filter
	CountCompleted(ctx context.Context, start, end time.Time, filter Filter) (int64, error)
}

// RefundQueryRepository aggregates over completed refunds for reporting
type RefundQueryRepository interface {
	// SumCompleted sums completed refund amounts whose originating payment
	// settled in [start, end) matching the filter
	SumCompleted(ctx context.Context, start, end time.Time, filter Filter) (decimal.Decimal, error)
}
