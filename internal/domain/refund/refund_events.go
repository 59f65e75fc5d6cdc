package refund

import (
	"time"

	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RefundRequestedEvent is raised when a refund request is created
type RefundRequestedEvent struct {
	shared.BaseDomainEvent
	PaymentID  uuid.UUID       `json:"payment_id"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	FullRefund bool            `json:"full_refund"`
	Reason     string          `json:"reason"`
}

// EventType returns the event type name
func (e *RefundRequestedEvent) EventType() string {
	return "RefundRequested"
}

// NewRefundRequestedEvent creates a new RefundRequestedEvent
func NewRefundRequestedEvent(r *Refund) *RefundRequestedEvent {
	return &RefundRequestedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("RefundRequested", "Refund", r.ID),
		PaymentID:       r.PaymentID,
		Amount:          r.Amount,
		Currency:        r.Currency,
		FullRefund:      r.FullRefund,
		Reason:          r.Reason,
	}
}

// RefundApprovedEvent is raised when a refund request is approved
type RefundApprovedEvent struct {
	shared.BaseDomainEvent
	PaymentID uuid.UUID       `json:"payment_id"`
	Amount    decimal.Decimal `json:"amount"`
}

// EventType returns the event type name
func (e *RefundApprovedEvent) EventType() string {
	return "RefundApproved"
}

// NewRefundApprovedEvent creates a new RefundApprovedEvent
func NewRefundApprovedEvent(r *Refund) *RefundApprovedEvent {
	return &RefundApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("RefundApproved", "Refund", r.ID),
		PaymentID:       r.PaymentID,
		Amount:          r.Amount,
	}
}

// RefundRejectedEvent is raised when a refund request is declined
type RefundRejectedEvent struct {
	shared.BaseDomainEvent
	PaymentID uuid.UUID `json:"payment_id"`
	Reason    string    `json:"reason"`
}

// EventType returns the event type name
func (e *RefundRejectedEvent) EventType() string {
	return "RefundRejected"
}

// NewRefundRejectedEvent creates a new RefundRejectedEvent
func NewRefundRejectedEvent(r *Refund) *RefundRejectedEvent {
	return &RefundRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("RefundRejected", "Refund", r.ID),
		PaymentID:       r.PaymentID,
		Reason:          r.FailReason,
	}
}

// RefundCompletedEvent is raised when the funds movement succeeds.
// PaymentDate identifies the reporting period(s) whose cached financial
// reports are now stale.
type RefundCompletedEvent struct {
	shared.BaseDomainEvent
	PaymentID   uuid.UUID       `json:"payment_id"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	FullRefund  bool            `json:"full_refund"`
	PaymentDate time.Time       `json:"payment_date"`
}

// EventType returns the event type name
func (e *RefundCompletedEvent) EventType() string {
	return "RefundCompleted"
}

// NewRefundCompletedEvent creates a new RefundCompletedEvent
func NewRefundCompletedEvent(r *Refund, paymentDate time.Time) *RefundCompletedEvent {
	return &RefundCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("RefundCompleted", "Refund", r.ID),
		PaymentID:       r.PaymentID,
		Amount:          r.Amount,
		Currency:        r.Currency,
		FullRefund:      r.FullRefund,
		PaymentDate:     paymentDate,
	}
}

// RefundFailedEvent is raised when the funds movement fails
type RefundFailedEvent struct {
	shared.BaseDomainEvent
	PaymentID  uuid.UUID       `json:"payment_id"`
	Amount     decimal.Decimal `json:"amount"`
	FailReason string          `json:"fail_reason"`
	RetryCount int             `json:"retry_count"`
}

// EventType returns the event type name
func (e *RefundFailedEvent) EventType() string {
	return "RefundFailed"
}

// NewRefundFailedEvent creates a new RefundFailedEvent
func NewRefundFailedEvent(r *Refund) *RefundFailedEvent {
	return &RefundFailedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("RefundFailed", "Refund", r.ID),
		PaymentID:       r.PaymentID,
		Amount:          r.Amount,
		FailReason:      r.FailReason,
		RetryCount:      r.RetryCount,
	}
}
