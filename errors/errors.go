// Package errors provides the service error taxonomy: structured errors with
// machine-readable codes, an HTTP status, and optional details that are
// rendered to clients as a JSON body with at least an "error" field.
package errors

import (
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details carries extra context, e.g. the provider's error payload.
	Details any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails replaces the error details and returns the receiver.
func (e *AppError) WithDetails(details any) *AppError {
	e.Details = details
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Common Error Constructors ---

// Validation creates a new AppError for invalid client input.
func Validation(message string) *AppError {
	return New(ErrCodeInvalidInput, message, http.StatusBadRequest)
}

// MissingField creates a new AppError for a missing required field.
func MissingField(field, message string) *AppError {
	if message == "" {
		message = fmt.Sprintf("Missing required field: %s", field)
	}
	return New(ErrCodeMissingField, message, http.StatusBadRequest).
		WithDetails(map[string]any{"field": field})
}

// PayloadTooLarge creates a new AppError for a body or file over limitBytes.
// It maps to 400 so clients see it alongside the other input errors.
func PayloadTooLarge(message string, limitBytes int64) *AppError {
	return New(ErrCodePayloadTooLarge, message, http.StatusBadRequest).
		WithDetails(map[string]any{"limit_bytes": limitBytes})
}

// NotFound creates a new AppError for an unknown route.
func NotFound(path string) *AppError {
	return New(ErrCodeNotFound, "Not found", http.StatusNotFound).
		WithDetails(map[string]any{"path": path})
}

// MethodNotAllowed creates a new AppError for a method the route does not accept.
func MethodNotAllowed(method string) *AppError {
	return New(ErrCodeMethodNotAllowed, "Method Not Allowed", http.StatusMethodNotAllowed).
		WithDetails(map[string]any{"method": method})
}

// Configuration creates a new AppError for missing service configuration.
// It fails the request, not the process.
func Configuration(message string) *AppError {
	return New(ErrCodeConfiguration, message, http.StatusInternalServerError)
}

// Upstream creates a new AppError for a failed provider call. details should
// hold the provider's error payload when one was returned.
func Upstream(message string, details any, cause error) *AppError {
	return New(ErrCodeExternalService, message, http.StatusInternalServerError).
		WithDetails(details).
		WithCause(cause)
}

// UpstreamTimeout creates a new AppError for a provider call that exceeded its deadline.
func UpstreamTimeout(message string, cause error) *AppError {
	details := any(nil)
	if cause != nil {
		details = cause.Error()
	}
	return New(ErrCodeTimeout, message, http.StatusInternalServerError).
		WithDetails(details).
		WithCause(cause)
}

// Internal creates a new AppError for an unexpected server failure.
func Internal(cause error) *AppError {
	return New(ErrCodeInternal, "An unexpected error occurred.", http.StatusInternalServerError).
		WithCause(cause)
}
