package payment

import (
	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentFullyRefundedEvent is raised when the last refundable cent of a
// payment has been refunded and the payment status flips to REFUNDED
type PaymentFullyRefundedEvent struct {
	shared.BaseDomainEvent
	StudentID      uuid.UUID       `json:"student_id"`
	CourseID       uuid.UUID       `json:"course_id"`
	Amount         decimal.Decimal `json:"amount"`
	RefundedAmount decimal.Decimal `json:"refunded_amount"`
	Currency       string          `json:"currency"`
}

// EventType returns the event type name
func (e *PaymentFullyRefundedEvent) EventType() string {
	return "PaymentFullyRefunded"
}

// NewPaymentFullyRefundedEvent creates a new PaymentFullyRefundedEvent
func NewPaymentFullyRefundedEvent(p *Payment) *PaymentFullyRefundedEvent {
	return &PaymentFullyRefundedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PaymentFullyRefunded", "Payment", p.ID),
		StudentID:       p.StudentID,
		CourseID:        p.CourseID,
		Amount:          p.Amount,
		RefundedAmount:  p.RefundedAmount,
		Currency:        p.Currency,
	}
}
