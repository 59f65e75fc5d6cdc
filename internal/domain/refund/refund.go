package refund

import (
	"fmt"
	"time"

	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the status of a refund
type Status string

const (
	// StatusRequested indicates the refund has been requested and awaits review
	StatusRequested Status = "REQUESTED"
	// StatusApproved indicates the refund has been approved and may be processed
	StatusApproved Status = "APPROVED"
	// StatusProcessing indicates the funds movement is in flight
	StatusProcessing Status = "PROCESSING"
	// StatusCompleted indicates the funds were returned to the student
	StatusCompleted Status = "COMPLETED"
	// StatusFailed indicates the funds movement failed; retryable up to a limit
	StatusFailed Status = "FAILED"
	// StatusRejected indicates the refund request was declined
	StatusRejected Status = "REJECTED"
)

// IsValid checks if the status is a valid refund Status
func (s Status) IsValid() bool {
	switch s {
	case StatusRequested, StatusApproved, StatusProcessing,
		StatusCompleted, StatusFailed, StatusRejected:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsTerminal returns true for states that permit no further transition.
// FAILED is terminal for the workflow but remains retryable until the
// retry limit is reached; callers enforce the limit via Retry.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusRejected || s == StatusFailed
}

// Refund represents a monetary reversal against a prior payment.
// Once created it is mutated only through transition methods; terminal
// states are immutable except for metadata annotations.
type Refund struct {
	shared.BaseAggregateRoot

	PaymentID uuid.UUID `json:"payment_id"`

	// Amount is resolved at request time: a request without an explicit
	// amount refunds the payment's full refundable remainder.
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	FullRefund bool            `json:"full_refund"`

	Reason   string            `json:"reason"`
	Notes    string            `json:"notes"`
	Metadata map[string]string `json:"metadata"`

	Status     Status `json:"status"`
	RetryCount int    `json:"retry_count"`
	FailReason string `json:"fail_reason"`

	RequestedAt time.Time  `json:"requested_at"`
	ApprovedAt  *time.Time `json:"approved_at"`
	CompletedAt *time.Time `json:"completed_at"`
	FailedAt    *time.Time `json:"failed_at"`
	RejectedAt  *time.Time `json:"rejected_at"`
}

// NewRefund creates a refund in REQUESTED state. The amount has already been
// validated against the payment's refundable remainder by the workflow service.
func NewRefund(paymentID uuid.UUID, amount decimal.Decimal, currency, reason, notes string, metadata map[string]string, fullRefund bool) (*Refund, error) {
	if paymentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Payment ID cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.ErrInvalidAmount
	}
	if currency == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Currency cannot be empty")
	}
	if reason == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Refund reason cannot be empty")
	}
	if metadata == nil {
		metadata = map[string]string{}
	}

	r := &Refund{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PaymentID:         paymentID,
		Amount:            amount,
		Currency:          currency,
		FullRefund:        fullRefund,
		Reason:            reason,
		Notes:             notes,
		Metadata:          metadata,
		Status:            StatusRequested,
		RequestedAt:       time.Now(),
	}

	r.AddDomainEvent(NewRefundRequestedEvent(r))

	return r, nil
}

// Approve transitions REQUESTED -> APPROVED
func (r *Refund) Approve(notes string) error {
	if r.Status != StatusRequested {
		return invalidTransition(r.Status, StatusApproved)
	}

	now := time.Now()
	r.Status = StatusApproved
	if notes != "" {
		r.Notes = notes
	}
	r.ApprovedAt = &now
	r.UpdatedAt = now

	r.AddDomainEvent(NewRefundApprovedEvent(r))

	return nil
}

// Reject transitions REQUESTED -> REJECTED (terminal)
func (r *Refund) Reject(reason, notes string) error {
	if r.Status != StatusRequested {
		return invalidTransition(r.Status, StatusRejected)
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_INPUT", "Rejection reason cannot be empty")
	}

	now := time.Now()
	r.Status = StatusRejected
	r.FailReason = reason
	if notes != "" {
		r.Notes = notes
	}
	r.RejectedAt = &now
	r.UpdatedAt = now

	r.AddDomainEvent(NewRefundRejectedEvent(r))

	return nil
}

// StartProcessing transitions APPROVED -> PROCESSING. Exactly one of any
// concurrent callers wins this transition; the optimistic version check in
// the repository rejects the rest.
func (r *Refund) StartProcessing() error {
	if r.Status != StatusApproved {
		return invalidTransition(r.Status, StatusProcessing)
	}

	r.Status = StatusProcessing
	r.UpdatedAt = time.Now()

	return nil
}

// Complete transitions PROCESSING -> COMPLETED (terminal). paymentDate is the
// settlement date of the originating payment; the completion event carries it
// so report caches covering that period can be invalidated.
func (r *Refund) Complete(paymentDate time.Time) error {
	if r.Status != StatusProcessing {
		return invalidTransition(r.Status, StatusCompleted)
	}

	now := time.Now()
	r.Status = StatusCompleted
	r.CompletedAt = &now
	r.UpdatedAt = now

	r.AddDomainEvent(NewRefundCompletedEvent(r, paymentDate))

	return nil
}

// Fail transitions PROCESSING -> FAILED
func (r *Refund) Fail(reason string) error {
	if r.Status != StatusProcessing {
		return invalidTransition(r.Status, StatusFailed)
	}

	now := time.Now()
	r.Status = StatusFailed
	r.FailReason = reason
	r.FailedAt = &now
	r.UpdatedAt = now

	r.AddDomainEvent(NewRefundFailedEvent(r))

	return nil
}

// Retry transitions FAILED -> APPROVED for another processing attempt.
// Once maxRetries attempts have been consumed the refund is terminally
// failed and requires manual intervention.
func (r *Refund) Retry(maxRetries int) error {
	if r.Status != StatusFailed {
		return invalidTransition(r.Status, StatusApproved)
	}
	if r.RetryCount >= maxRetries {
		return shared.ErrRetryLimitExceeded
	}

	r.Status = StatusApproved
	r.RetryCount++
	r.FailReason = ""
	r.UpdatedAt = time.Now()

	return nil
}

// AnnotateMetadata adds metadata entries. Allowed in every state, including
// terminal ones; metadata is the only mutable surface after completion.
func (r *Refund) AnnotateMetadata(entries map[string]string) {
	if r.Metadata == nil {
		r.Metadata = map[string]string{}
	}
	for k, v := range entries {
		r.Metadata[k] = v
	}
	r.UpdatedAt = time.Now()
}

// CanRetry returns true if the refund can be retried under the given limit
func (r *Refund) CanRetry(maxRetries int) bool {
	return r.Status == StatusFailed && r.RetryCount < maxRetries
}

func invalidTransition(from, to Status) error {
	return shared.NewDomainError("INVALID_STATE_TRANSITION",
		fmt.Sprintf("Cannot transition refund from %s to %s", from, to))
}
