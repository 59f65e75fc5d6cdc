package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound               = NewDomainError("NOT_FOUND", "Resource not found")
	ErrInvalidInput           = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrInvalidAmount          = NewDomainError("INVALID_AMOUNT", "Amount must be positive and within the refundable remainder")
	ErrPaymentNotRefundable   = NewDomainError("PAYMENT_NOT_REFUNDABLE", "Payment is not in a refundable state")
	ErrInvalidStateTransition = NewDomainError("INVALID_STATE_TRANSITION", "Transition not allowed from current state")
	ErrConcurrentModification = NewDomainError("CONCURRENT_MODIFICATION", "Resource was modified by another process")
	ErrNoApplicableRate       = NewDomainError("NO_APPLICABLE_RATE", "No tax rate applies to the given jurisdiction and date")
	ErrAmbiguousRate          = NewDomainError("AMBIGUOUS_RATE", "Multiple tax rates are effective for the same jurisdiction and instant")
	ErrComputationFailed      = NewDomainError("COMPUTATION_FAILED", "Cached computation failed")
	ErrRetryLimitExceeded     = NewDomainError("RETRY_LIMIT_EXCEEDED", "Refund retry limit exceeded, manual intervention required")
)
