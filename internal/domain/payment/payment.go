package payment

import (
	"time"

	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the status of a payment
type Status string

const (
	// StatusPending indicates the payment has not settled yet
	StatusPending Status = "PENDING"
	// StatusCompleted indicates the payment settled successfully
	StatusCompleted Status = "COMPLETED"
	// StatusPartiallyRefunded indicates part of the payment has been refunded
	StatusPartiallyRefunded Status = "PARTIALLY_REFUNDED"
	// StatusRefunded indicates the full payment amount has been refunded
	StatusRefunded Status = "REFUNDED"
)

// IsValid checks if the status is a valid payment Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusPartiallyRefunded, StatusRefunded:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// Payment represents a settled course payment aggregate root.
// The financial core does not charge cards; it tracks settled payments
// and the portion of each that remains refundable.
type Payment struct {
	shared.BaseAggregateRoot

	StudentID uuid.UUID `json:"student_id"`
	CourseID  uuid.UUID `json:"course_id"`

	Amount         decimal.Decimal `json:"amount"`
	RefundedAmount decimal.Decimal `json:"refunded_amount"`
	Currency       string          `json:"currency"`

	Status Status     `json:"status"`
	PaidAt *time.Time `json:"paid_at"`
}

// NewPayment creates a new settled payment record
func NewPayment(studentID, courseID uuid.UUID, amount decimal.Decimal, currency string, paidAt time.Time) (*Payment, error) {
	if studentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Student ID cannot be empty")
	}
	if courseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Course ID cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if currency == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Currency cannot be empty")
	}

	return &Payment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		StudentID:         studentID,
		CourseID:          courseID,
		Amount:            amount,
		RefundedAmount:    decimal.Zero,
		Currency:          currency,
		Status:            StatusCompleted,
		PaidAt:            &paidAt,
	}, nil
}

// RefundableRemainder returns the portion of the payment not yet refunded
func (p *Payment) RefundableRemainder() decimal.Decimal {
	return p.Amount.Sub(p.RefundedAmount)
}

// IsRefundable returns true if a refund may be requested against this payment
func (p *Payment) IsRefundable() bool {
	switch p.Status {
	case StatusCompleted, StatusPartiallyRefunded:
		return p.RefundableRemainder().GreaterThan(decimal.Zero)
	}
	return false
}

// ApplyRefund decrements the refundable remainder by the refunded amount.
// A refund that exhausts the remainder flips the payment to REFUNDED and
// raises PaymentFullyRefundedEvent so external collaborators (enrollment,
// notifications) can react.
func (p *Payment) ApplyRefund(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.ErrInvalidAmount
	}
	if amount.GreaterThan(p.RefundableRemainder()) {
		return shared.ErrInvalidAmount
	}
	if !p.IsRefundable() {
		return shared.ErrPaymentNotRefundable
	}

	p.RefundedAmount = p.RefundedAmount.Add(amount)
	if p.RefundableRemainder().IsZero() {
		p.Status = StatusRefunded
		p.AddDomainEvent(NewPaymentFullyRefundedEvent(p))
	} else {
		p.Status = StatusPartiallyRefunded
	}
	p.UpdatedAt = time.Now()

	return nil
}
