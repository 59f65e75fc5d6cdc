package report

import (
	"context"

	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/domain/refund"
	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/domain/report"
	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/domain/shared"
	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/infrastructure/cache"
	"go.uber.org/zap"
)

// RefundCompletedHandler drops cached reports made stale by a completed
// refund. The refund changes history for every standard period containing
// the payment's settlement date, plus any custom-window report, since a
// custom window's coverage cannot be told from its label alone.
type RefundCompletedHandler struct {
	cache  *cache.ReadThroughCache
	logger *zap.Logger
}

var _ shared.EventHandler = (*RefundCompletedHandler)(nil)

// NewRefundCompletedHandler creates a new RefundCompletedHandler
func NewRefundCompletedHandler(c *cache.ReadThroughCache, logger *zap.Logger) *RefundCompletedHandler {
	return &RefundCompletedHandler{cache: c, logger: logger}
}

// EventTypes returns the event types this handler subscribes to
func (h *RefundCompletedHandler) EventTypes() []string {
	return []string{"RefundCompleted"}
}

// Handle invalidates cached reports covering the refunded payment's period
func (h *RefundCompletedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	completed, ok := event.(*refund.RefundCompletedEvent)
	if !ok {
		return nil
	}

	prefixes := make([]string, 0, 4)
	for _, label := range report.PeriodLabelsContaining(completed.PaymentDate) {
		prefixes = append(prefixes, keyPrefix+label+":")
	}
	prefixes = append(prefixes, keyPrefix+customPeriod+":")

	var removed int64
	for _, prefix := range prefixes {
		n, err := h.cache.InvalidateByPrefix(ctx, prefix)
		if err != nil {
			return err
		}
		removed += n
	}

	h.logger.Info("invalidated stale report caches",
		zap.String("refund_id", completed.AggregateID().String()),
		zap.Time("payment_date", completed.PaymentDate),
		zap.Int64("entries", removed))

	return nil
}
