// Package errors provides standardized error handling for the NLQ pipeline.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeSynthesisFailed          ErrorCode = "SYNTHESIS_FAILED"
	ErrCodeEmptyCompletion          ErrorCode = "EMPTY_COMPLETION"
	ErrCodeCompletionTimeout        ErrorCode = "COMPLETION_TIMEOUT"
	ErrCodeSecurityValidationFailed ErrorCode = "SECURITY_VALIDATION_FAILED"

	ErrCodeWarehouseConnectionFailed ErrorCode = "WAREHOUSE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed      ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout              ErrorCode = "QUERY_TIMEOUT"

	ErrCodeRenderingFailed     ErrorCode = "RENDERING_FAILED"
	ErrCodeInvoiceFetchFailed  ErrorCode = "INVOICE_FETCH_FAILED"
	ErrCodeRequestInvalid      ErrorCode = "REQUEST_INVALID"
	ErrCodeCacheUnavailable    ErrorCode = "CACHE_UNAVAILABLE"
	ErrCodeConfigurationFailed ErrorCode = "CONFIGURATION_FAILED"
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

// NewSynthesisFailedError creates a retryable SQL synthesis error.
func NewSynthesisFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSynthesisFailed,
		Message:   "NL to SQL synthesis error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewEmptyCompletionError creates a retryable empty completion error.
func NewEmptyCompletionError(purpose string) *StandardError {
	return &StandardError{
		Code:      ErrCodeEmptyCompletion,
		Message:   "Completion API returned no content",
		Details:   fmt.Sprintf("purpose: %s", purpose),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCompletionTimeoutError creates a retryable completion timeout error.
func NewCompletionTimeoutError(purpose string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCompletionTimeout,
		Message:   "Completion API call timed out",
		Details:   fmt.Sprintf("purpose: %s", purpose),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSecurityValidationFailedError creates a non-retryable SQL safety error.
func NewSecurityValidationFailedError(reason string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSecurityValidationFailed,
		Message:   "Generated SQL rejected by safety gate",
		Details:   reason,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewWarehouseConnectionFailedError creates a retryable warehouse connection error.
func NewWarehouseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeWarehouseConnectionFailed,
		Message:   "Warehouse connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Warehouse query execution error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryTimeoutError creates a retryable query timeout error.
func NewQueryTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryTimeout,
		Message:   "Warehouse query timeout",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRenderingFailedError creates a retryable summary rendering error.
func NewRenderingFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRenderingFailed,
		Message:   "Result rendering error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvoiceFetchFailedError creates a retryable invoice collaborator error.
func NewInvoiceFetchFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvoiceFetchFailed,
		Message:   "Invoice service request failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRequestInvalidError creates a non-retryable request validation error.
func NewRequestInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRequestInvalid,
		Message:   "Request payload validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewConfigurationFailedError creates a non-retryable configuration error.
func NewConfigurationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfigurationFailed,
		Message:   "Service configuration invalid",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeSynthesisFailed,
		ErrCodeWarehouseConnectionFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeInvoiceFetchFailed,
		ErrCodeRenderingFailed:
		return 3

	case ErrCodeCompletionTimeout,
		ErrCodeQueryTimeout,
		ErrCodeEmptyCompletion:
		return 2

	default:
		return 0
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "COMPLETION") || strings.Contains(codeStr, "SYNTHESIS"):
		return "COMPLETION"
	case strings.Contains(codeStr, "WAREHOUSE") || strings.Contains(codeStr, "QUERY"):
		return "WAREHOUSE"
	case strings.Contains(codeStr, "SECURITY"):
		return "SECURITY"
	case strings.Contains(codeStr, "INVOICE"):
		return "INVOICE"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
