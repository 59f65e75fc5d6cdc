package dto

import "net/http"

// Transport-level error codes. Domain errors carry their own codes and
// are mapped through the same table.
const (
	// ErrCodeInternal is used for unexpected server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeInvalidJSON is used when body parsing fails
	ErrCodeInvalidJSON = "INVALID_JSON"
)

// errorCodeHTTPStatus maps error codes to HTTP status codes
var errorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:    http.StatusInternalServerError,
	ErrCodeBadRequest:  http.StatusBadRequest,
	ErrCodeInvalidJSON: http.StatusBadRequest,

	// Input errors -> 400 Bad Request
	"INVALID_INPUT":  http.StatusBadRequest,
	"INVALID_AMOUNT": http.StatusBadRequest,

	// Resource errors
	"NOT_FOUND":          http.StatusNotFound,
	"NO_APPLICABLE_RATE": http.StatusNotFound,

	// Conflicts -> 409
	"CONCURRENT_MODIFICATION": http.StatusConflict,
	"AMBIGUOUS_RATE":          http.StatusConflict,

	// Business rule violations -> 422 Unprocessable Entity
	"INVALID_STATE_TRANSITION": http.StatusUnprocessableEntity,
	"PAYMENT_NOT_REFUNDABLE":   http.StatusUnprocessableEntity,
	"RETRY_LIMIT_EXCEEDED":     http.StatusUnprocessableEntity,

	"COMPUTATION_FAILED": http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status for an error code,
// defaulting to 500 for unknown codes
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
