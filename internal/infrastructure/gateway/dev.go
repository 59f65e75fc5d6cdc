package gateway

import (
	"context"

	refundapp "github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/application/refund"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DevGateway approves every reversal without leaving the process.
// Local development only; production configs reject it.
type DevGateway struct {
	logger *zap.Logger
}

var _ refundapp.FundsMover = (*DevGateway)(nil)

// NewDevGateway creates a new DevGateway
func NewDevGateway(logger *zap.Logger) *DevGateway {
	return &DevGateway{logger: logger}
}

// Reverse logs the reversal and succeeds
func (g *DevGateway) Reverse(_ context.Context, refundID, paymentID uuid.UUID, amount decimal.Decimal, currency string) error {
	g.logger.Info("dev gateway reversed funds",
		zap.String("refund_id", refundID.String()),
		zap.String("payment_id", paymentID.String()),
		zap.String("amount", amount.StringFixed(2)),
		zap.String("currency", currency))
	return nil
}
