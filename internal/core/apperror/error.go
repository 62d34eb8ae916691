// Package apperror provides structured error handling for the platform.
// All business errors cross the workflow boundary as AppError so the HTTP
// layer can render a consistent JSON body with the right status code.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes. Grouped by how the caller is expected to react.
const (
	// Infrastructure errors (5xx)
	CodeInternal         = "INTERNAL_ERROR"
	CodeDatabase         = "DATABASE_ERROR"
	CodeRetryableStorage = "RETRYABLE_STORAGE"
	CodeMovementWrite    = "MOVEMENT_WRITE_FAILURE"

	// Validation errors (400)
	CodeValidation   = "VALIDATION_ERROR"
	CodeInvalidInput = "INVALID_INPUT"

	// Business rule violations (422)
	CodeBusinessRule      = "BUSINESS_RULE_VIOLATION"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"

	// Numbering
	CodeConfigurationMissing = "CONFIGURATION_MISSING"
	CodeAllocationExhausted  = "ALLOCATION_EXHAUSTED"

	// Authorization errors (401, 403)
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"

	// Not found (404)
	CodeNotFound = "NOT_FOUND"

	// Conflict (409)
	CodeConflict  = "CONFLICT"
	CodeDuplicate = "DUPLICATE_ENTRY"
)

// AppError is the standard error type for the platform.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (field errors, quantities, etc.)
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the suggested HTTP status code
	HTTPStatus int `json:"-"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error.
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// --- Factory functions ---

// NewValidation creates a validation error (400).
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewNotFound creates a not found error (404).
func NewNotFound(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewBusinessRule creates a business rule violation error (422).
func NewBusinessRule(code, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// NewInsufficientStock creates a stock shortage error.
// The shortfall amounts are part of the contract: the workflow boundary
// surfaces them to the user verbatim.
func NewInsufficientStock(productLabel string, requested, available float64) *AppError {
	return &AppError{
		Code:       CodeInsufficientStock,
		Message:    fmt.Sprintf("Insufficient stock for %s", productLabel),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details: map[string]any{
			"product":   productLabel,
			"requested": requested,
			"available": available,
		},
	}
}

// NewConfigurationMissing signals an absent numbering template.
// Callers recover locally by falling back to the built-in default pattern,
// so this rarely reaches the API boundary.
func NewConfigurationMissing(tenantID, series string) *AppError {
	return &AppError{
		Code:       CodeConfigurationMissing,
		Message:    fmt.Sprintf("No numbering template configured for series %s", series),
		HTTPStatus: http.StatusInternalServerError,
		Details:    map[string]any{"tenant_id": tenantID, "series": series},
	}
}

// NewAllocationExhausted signals that the collision-resolving allocator ran
// out of attempts. Fatal to the current request; the user should retry.
func NewAllocationExhausted(series string, attempts int) *AppError {
	return &AppError{
		Code:       CodeAllocationExhausted,
		Message:    "Could not allocate a unique document number, please retry",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"series": series, "attempts": attempts},
	}
}

// NewRetryableStorage wraps a transient storage failure (503).
func NewRetryableStorage(err error) *AppError {
	return &AppError{
		Code:       CodeRetryableStorage,
		Message:    "Temporary storage failure, please retry",
		HTTPStatus: http.StatusServiceUnavailable,
		Err:        err,
	}
}

// NewMovementWriteFailure wraps a ledger append that failed after the
// availability guard passed. Never retried automatically: re-issuing a
// stock mutation risks double-counting.
func NewMovementWriteFailure(err error) *AppError {
	return &AppError{
		Code:       CodeMovementWrite,
		Message:    "Failed to record stock movement",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewInternal creates an internal server error (hides details from client).
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewUnauthorized creates an authentication error (401).
func NewUnauthorized(message string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NewForbidden creates an authorization error (403).
func NewForbidden(message string) *AppError {
	return &AppError{
		Code:       CodeForbidden,
		Message:    message,
		HTTPStatus: http.StatusForbidden,
	}
}

// NewConflict creates a conflict error (409).
func NewConflict(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// NewDuplicate creates a duplicate entry error (409).
func NewDuplicate(entity, field, value string) *AppError {
	return &AppError{
		Code:       CodeDuplicate,
		Message:    fmt.Sprintf("%s with this %s already exists", entity, field),
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"entity": entity, "field": field, "value": value},
	}
}

// --- Helpers ---

// AsAppError extracts AppError from error chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetHTTPStatus returns appropriate HTTP status for any error.
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// IsNotFound checks if error is CodeNotFound.
func IsNotFound(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == CodeNotFound
	}
	return false
}

// IsInsufficientStock checks if error is CodeInsufficientStock.
func IsInsufficientStock(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == CodeInsufficientStock
	}
	return false
}

// IsAllocationExhausted checks if error is CodeAllocationExhausted.
func IsAllocationExhausted(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == CodeAllocationExhausted
	}
	return false
}
