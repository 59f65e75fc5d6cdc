package refund

import (
	"context"
	"errors"
	"time"

	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/domain/payment"
	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/domain/refund"
	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	defaultMaxRetries      = 3
	defaultMaxLockAttempts = 3
)

// FundsMover reverses a settled charge through the payment gateway.
// Implementations live in infrastructure; the workflow only cares whether
// the movement succeeded. The refund ID identifies the movement so the
// gateway can deduplicate retries without collapsing distinct refunds of
// the same amount.
type FundsMover interface {
	Reverse(ctx context.Context, refundID, paymentID uuid.UUID, amount decimal.Decimal, currency string) error
}

// WorkflowService drives refunds through their lifecycle:
// REQUESTED -> APPROVED -> PROCESSING -> COMPLETED or FAILED, with
// REQUESTED -> REJECTED as the decline path. All state changes persist
// through optimistic locking, so two operators acting on the same refund
// cannot both win.
type WorkflowService struct {
	refunds   refund.Repository
	payments  payment.Repository
	funds     FundsMover
	publisher shared.EventPublisher
	logger    *zap.Logger

	maxRetries      int
	maxLockAttempts int
}

// WorkflowServiceOption is a functional option for configuring WorkflowService
type WorkflowServiceOption func(*WorkflowService)

// WithMaxRetries sets how many processing retries a failed refund gets
func WithMaxRetries(n int) WorkflowServiceOption {
	return func(s *WorkflowService) {
		s.maxRetries = n
	}
}

// WithMaxLockAttempts sets how many times a conflicted write is retried
func WithMaxLockAttempts(n int) WorkflowServiceOption {
	return func(s *WorkflowService) {
		s.maxLockAttempts = n
	}
}

// NewWorkflowService creates a new refund WorkflowService
func NewWorkflowService(
	refunds refund.Repository,
	payments payment.Repository,
	funds FundsMover,
	publisher shared.EventPublisher,
	logger *zap.Logger,
	opts ...WorkflowServiceOption,
) *WorkflowService {
	s := &WorkflowService{
		refunds:         refunds,
		payments:        payments,
		funds:           funds,
		publisher:       publisher,
		logger:          logger,
		maxRetries:      defaultMaxRetries,
		maxLockAttempts: defaultMaxLockAttempts,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RequestInput carries the fields needed to open a refund request
type RequestInput struct {
	PaymentID uuid.UUID         `json:"payment_id" binding:"required"`
	Amount    *decimal.Decimal  `json:"amount"`
	Reason    string            `json:"reason" binding:"required"`
	Notes     string            `json:"notes"`
	Metadata  map[string]string `json:"metadata"`
}

// RequestRefund opens a refund request against a settled payment. A nil
// amount requests the payment's full refundable remainder.
func (s *WorkflowService) RequestRefund(ctx context.Context, input RequestInput) (*refund.Refund, error) {
	pmt, err := s.payments.FindByID(ctx, input.PaymentID)
	if err != nil {
		return nil, err
	}
	if pmt == nil {
		return nil, shared.ErrNotFound
	}
	if !pmt.IsRefundable() {
		return nil, shared.ErrPaymentNotRefundable
	}

	remainder := pmt.RefundableRemainder()
	amount := remainder
	if input.Amount != nil {
		amount = *input.Amount
		if amount.GreaterThan(remainder) {
			return nil, shared.ErrInvalidAmount
		}
	}
	fullRefund := amount.Equal(remainder)

	r, err := refund.NewRefund(input.PaymentID, amount, pmt.Currency, input.Reason, input.Notes, input.Metadata, fullRefund)
	if err != nil {
		return nil, err
	}

	if err := s.refunds.Save(ctx, r); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, r)

	s.logger.Info("refund requested",
		zap.String("refund_id", r.ID.String()),
		zap.String("payment_id", input.PaymentID.String()),
		zap.String("amount", amount.String()),
		zap.Bool("full_refund", fullRefund))

	return r, nil
}

// Approve moves a requested refund to APPROVED
func (s *WorkflowService) Approve(ctx context.Context, id uuid.UUID, notes string) (*refund.Refund, error) {
	return s.transition(ctx, id, func(r *refund.Refund) error {
		return r.Approve(notes)
	})
}

// Reject declines a requested refund. REJECTED is terminal; a declined
// request cannot be revived, the student files a new one.
func (s *WorkflowService) Reject(ctx context.Context, id uuid.UUID, reason, notes string) (*refund.Refund, error) {
	return s.transition(ctx, id, func(r *refund.Refund) error {
		return r.Reject(reason, notes)
	})
}

// Process executes an approved refund: it claims the PROCESSING state,
// re-validates the amount against the payment's current remainder, moves
// the funds, applies the refunded amount to the payment and completes the
// refund. Of any concurrent callers exactly one claims the refund; the
// rest get CONCURRENT_MODIFICATION. Once the claim succeeds every
// failure resolves to FAILED rather than an error, because PROCESSING
// has no other exit and funds may already have moved.
func (s *WorkflowService) Process(ctx context.Context, id uuid.UUID) (*refund.Refund, error) {
	r, err := s.transition(ctx, id, func(r *refund.Refund) error {
		return r.StartProcessing()
	})
	if err != nil {
		return nil, err
	}

	pmt, err := s.payments.FindByID(ctx, r.PaymentID)
	if err != nil {
		return s.recordFailure(ctx, r, "payment lookup failed: "+err.Error())
	}
	if pmt == nil {
		return s.recordFailure(ctx, r, "payment no longer exists")
	}
	// The remainder may have shrunk since this refund was requested:
	// another refund against the same payment can complete in between.
	// Catch that before any funds move.
	if r.Amount.GreaterThan(pmt.RefundableRemainder()) {
		return s.recordFailure(ctx, r, "amount exceeds the payment's refundable remainder")
	}

	if err := s.funds.Reverse(ctx, r.ID, r.PaymentID, r.Amount, r.Currency); err != nil {
		s.logger.Warn("funds reversal failed",
			zap.String("refund_id", r.ID.String()),
			zap.Int("retry_count", r.RetryCount),
			zap.Error(err))
		return s.recordFailure(ctx, r, err.Error())
	}

	if err := pmt.ApplyRefund(r.Amount); err != nil {
		return s.recordFailure(ctx, r, err.Error())
	}
	if err := s.payments.SaveWithLock(ctx, pmt); err != nil {
		s.logger.Error("payment bookkeeping failed after funds moved",
			zap.String("refund_id", r.ID.String()),
			zap.String("payment_id", r.PaymentID.String()),
			zap.Error(err))
		return s.recordFailure(ctx, r, "payment update failed after funds moved: "+err.Error())
	}

	paymentDate := time.Now()
	if pmt.PaidAt != nil {
		paymentDate = *pmt.PaidAt
	}
	if err := r.Complete(paymentDate); err != nil {
		return nil, err
	}
	if err := s.refunds.SaveWithLock(ctx, r); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, pmt)
	s.publishEvents(ctx, r)

	s.logger.Info("refund completed",
		zap.String("refund_id", r.ID.String()),
		zap.String("payment_id", r.PaymentID.String()),
		zap.String("amount", r.Amount.String()))

	return r, nil
}

// ProcessWithRetry runs Process, retrying a bounded number of times when
// the refund is modified concurrently. Useful for background workers that
// should yield to operator actions without failing the job outright.
func (s *WorkflowService) ProcessWithRetry(ctx context.Context, id uuid.UUID) (*refund.Refund, error) {
	var lastErr error
	for attempt := 0; attempt < s.maxLockAttempts; attempt++ {
		r, err := s.Process(ctx, id)
		if err == nil {
			return r, nil
		}
		if !errors.Is(err, shared.ErrConcurrentModification) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

// Retry re-approves a failed refund for another processing attempt,
// up to the configured retry limit
func (s *WorkflowService) Retry(ctx context.Context, id uuid.UUID) (*refund.Refund, error) {
	return s.transition(ctx, id, func(r *refund.Refund) error {
		return r.Retry(s.maxRetries)
	})
}

// AnnotateMetadata merges metadata entries into the refund. This is the
// only mutation allowed on terminal refunds.
func (s *WorkflowService) AnnotateMetadata(ctx context.Context, id uuid.UUID, entries map[string]string) (*refund.Refund, error) {
	return s.transition(ctx, id, func(r *refund.Refund) error {
		r.AnnotateMetadata(entries)
		return nil
	})
}

// Get returns a refund by ID
func (s *WorkflowService) Get(ctx context.Context, id uuid.UUID) (*refund.Refund, error) {
	r, err := s.refunds.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, shared.ErrNotFound
	}
	return r, nil
}

// List returns refunds matching the filter along with the total count
func (s *WorkflowService) List(ctx context.Context, filter refund.Filter) ([]refund.Refund, int64, error) {
	items, err := s.refunds.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.refunds.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// transition loads the refund, applies the mutation and persists it with
// the optimistic version check
func (s *WorkflowService) transition(ctx context.Context, id uuid.UUID, mutate func(*refund.Refund) error) (*refund.Refund, error) {
	r, err := s.refunds.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, shared.ErrNotFound
	}

	if err := mutate(r); err != nil {
		return nil, err
	}
	if err := s.refunds.SaveWithLock(ctx, r); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, r)
	return r, nil
}

// recordFailure persists the FAILED state after a processing error. The
// failure is a recorded workflow outcome, not an operation error: callers
// inspect the returned status, and operators can Retry once the cause is
// resolved.
func (s *WorkflowService) recordFailure(ctx context.Context, r *refund.Refund, reason string) (*refund.Refund, error) {
	if err := r.Fail(reason); err != nil {
		return nil, err
	}
	if err := s.refunds.SaveWithLock(ctx, r); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, r)
	return r, nil
}

func (s *WorkflowService) publishEvents(ctx context.Context, aggregate shared.AggregateRoot) {
	events := aggregate.GetDomainEvents()
	if s.publisher == nil || len(events) == 0 {
		aggregate.ClearDomainEvents()
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish domain events",
			zap.String("aggregate_id", aggregate.GetID().String()),
			zap.Error(err))
	}
	aggregate.ClearDomainEvents()
}
