// Package errors provides standardized error handling for the context engine.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Fatal input errors: the only class allowed to cross the public boundary.
	ErrCodeInvalidQuery  ErrorCode = "INVALID_QUERY"
	ErrCodeInvalidTenant ErrorCode = "INVALID_TENANT"

	// Recovered locally by the orchestrator or calculators, never re-raised.
	ErrCodeRetrievalFailed    ErrorCode = "RETRIEVAL_FAILED"
	ErrCodeCalculationFailed  ErrorCode = "CALCULATION_FAILED"
	ErrCodeEntityLookupFailed ErrorCode = "ENTITY_LOOKUP_FAILED"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"
	ErrCodeCacheUnavailable         ErrorCode = "CACHE_UNAVAILABLE"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewInvalidQueryError creates a non-retryable input validation error.
func NewInvalidQueryError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidQuery,
		Message:   "Query text is missing or malformed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidTenantError creates a non-retryable caller-identity error.
func NewInvalidTenantError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidTenant,
		Message:   "Caller identity is missing or malformed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRetrievalFailedError wraps a single domain retrieval failure.
func NewRetrievalFailedError(domain string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRetrievalFailed,
		Message:   "Domain retrieval failed",
		Details:   fmt.Sprintf("domain: %s, error: %s", domain, err.Error()),
		Retryable: true,
		Metadata:  map[string]interface{}{"domain": domain},
		Timestamp: time.Now().UTC(),
	}
}

// NewCalculationFailedError wraps a financial calculator failure.
func NewCalculationFailedError(calculator string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCalculationFailed,
		Message:   "Financial calculation failed",
		Details:   fmt.Sprintf("calculator: %s, error: %s", calculator, err.Error()),
		Retryable: true,
		Metadata:  map[string]interface{}{"calculator": calculator},
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(entityType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Database query execution error",
		Details:   fmt.Sprintf("entityType: %s, error: %s", entityType, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}
