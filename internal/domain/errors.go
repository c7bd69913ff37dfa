package domain

import (
	"errors"
	"fmt"
	"time"
)

// Structural failures of the scoring pipeline. These are not transient:
// retrying a scoring request never clears them.
var (
	// ErrModelUnavailable reports that trained model state is missing or
	// corrupt. Scoring must be refused outright; a default or untrained model
	// must never be substituted.
	ErrModelUnavailable = errors.New("scoring model unavailable")

	// ErrColumnOrderMismatch reports that the encoder's column order disagrees
	// with the order the model was trained on. This is a programming invariant
	// checked once at startup, not a runtime-recoverable condition.
	ErrColumnOrderMismatch = errors.New("feature column order mismatch")

	// ErrNoScore reports a report render request before any assessment was
	// scored in the session.
	ErrNoScore = errors.New("no score available to report")
)

// DomainError represents a clinical input field outside its declared domain.
// It is recovered at the submission boundary with a field-level message and
// never propagates into scoring.
type DomainError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return fmt.Sprintf("domain error for field '%s': %s", e.Field, e.Message)
}

// NewDomainError creates a new DomainError
func NewDomainError(field, message string, value interface{}) *DomainError {
	return &DomainError{
		Field:   field,
		Message: message,
		Value:   value,
	}
}

// APIError represents a standardized error response
type APIError struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error codes for different failure scenarios
const (
	ErrCodeInvalidInput     = "INVALID_INPUT"
	ErrCodeModelUnavailable = "MODEL_UNAVAILABLE"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeNoScore          = "NO_SCORE"
	ErrCodeRateLimit        = "RATE_LIMIT_EXCEEDED"
	ErrCodeDatabaseError    = "DATABASE_ERROR"
	ErrCodeInternalServer   = "INTERNAL_SERVER_ERROR"
)

// NewAPIError creates a new APIError with timestamp
func NewAPIError(code, message, details, requestID string) *APIError {
	return &APIError{
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
		RequestID: requestID,
	}
}
