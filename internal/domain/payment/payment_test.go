package payment_test

import (
	"testing"
	"time"

	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/domain/payment"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPayment(t *testing.T, amount float64) *payment.Payment {
	t.Helper()
	p, err := payment.NewPayment(uuid.New(), uuid.New(), decimal.NewFromFloat(amount), "USD", time.Now())
	require.NoError(t, err)
	return p
}

func TestNewPayment(t *testing.T) {
	p := newTestPayment(t, 200)
	assert.Equal(t, payment.StatusCompleted, p.Status)
	assert.True(t, p.RefundedAmount.IsZero())
	assert.True(t, p.RefundableRemainder().Equal(decimal.NewFromInt(200)))
	assert.True(t, p.IsRefundable())

	_, err := payment.NewPayment(uuid.New(), uuid.New(), decimal.Zero, "USD", time.Now())
	require.Error(t, err)
}

func TestApplyPartialRefund(t *testing.T) {
	p := newTestPayment(t, 200)

	require.NoError(t, p.ApplyRefund(decimal.NewFromInt(80)))
	assert.Equal(t, payment.StatusPartiallyRefunded, p.Status)
	assert.True(t, p.RefundableRemainder().Equal(decimal.NewFromInt(120)))
	assert.True(t, p.IsRefundable())
	assert.Empty(t, p.GetDomainEvents())
}

func TestApplyFullRefundFlipsStatus(t *testing.T) {
	p := newTestPayment(t, 200)

	require.NoError(t, p.ApplyRefund(decimal.NewFromInt(50)))
	require.NoError(t, p.ApplyRefund(decimal.NewFromInt(150)))

	assert.Equal(t, payment.StatusRefunded, p.Status)
	assert.True(t, p.RefundableRemainder().IsZero())
	assert.False(t, p.IsRefundable())

	require.Len(t, p.GetDomainEvents(), 1)
	assert.Equal(t, "PaymentFullyRefunded", p.GetDomainEvents()[0].EventType())
}

func TestApplyRefundValidation(t *testing.T) {
	p := newTestPayment(t, 100)

	assert.Error(t, p.ApplyRefund(decimal.Zero))
	assert.Error(t, p.ApplyRefund(decimal.NewFromInt(-5)))
	assert.Error(t, p.ApplyRefund(decimal.NewFromFloat(100.01)))

	// Exhaust the remainder, then nothing more can be refunded
	require.NoError(t, p.ApplyRefund(decimal.NewFromInt(100)))
	assert.Error(t, p.ApplyRefund(decimal.NewFromInt(1)))
}
