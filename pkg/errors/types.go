package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a structured error code
type ErrorCode string

const (
	// Configuration errors
	ErrCodeConfigInvalid ErrorCode = "CONFIG_INVALID"

	// Database errors
	ErrCodeDatabaseConnection ErrorCode = "DATABASE_CONNECTION"
	ErrCodeDatabaseQuery      ErrorCode = "DATABASE_QUERY"
	ErrCodeDatabaseMigration  ErrorCode = "DATABASE_MIGRATION"

	// Resource errors
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// Feed errors
	ErrCodeFeedUnavailable ErrorCode = "FEED_UNAVAILABLE"
	ErrCodeMalformedFeed   ErrorCode = "MALFORMED_FEED"

	// Validation errors
	ErrCodeValidation   ErrorCode = "VALIDATION"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"

	// External service errors
	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE"
	ErrCodeAPITimeout      ErrorCode = "API_TIMEOUT"
	ErrCodeAPIRateLimit    ErrorCode = "API_RATE_LIMIT"

	// Internal errors
	ErrCodeInternal ErrorCode = "INTERNAL"

	// Authentication errors
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
)

// AppError represents a structured application error
type AppError struct {
	Code     ErrorCode              `json:"code"`
	Message  string                 `json:"message"`
	Details  map[string]interface{} `json:"details,omitempty"`
	Cause    error                  `json:"-"`
	HTTPCode int                    `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying cause
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// GetHTTPCode returns the appropriate HTTP status code
func (e *AppError) GetHTTPCode() int {
	if e.HTTPCode != 0 {
		return e.HTTPCode
	}
	return getDefaultHTTPCode(e.Code)
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		HTTPCode: getDefaultHTTPCode(code),
	}
}

// Newf creates a new AppError with formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		HTTPCode: getDefaultHTTPCode(code),
	}
}

// Wrap wraps an existing error with an AppError
func Wrap(cause error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		Cause:    cause,
		HTTPCode: getDefaultHTTPCode(code),
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(cause error, code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Cause:    cause,
		HTTPCode: getDefaultHTTPCode(code),
	}
}

// getDefaultHTTPCode returns the default HTTP status code for an error code
func getDefaultHTTPCode(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeValidation, ErrCodeInvalidInput, ErrCodeMissingField, ErrCodeMalformedFeed:
		return http.StatusBadRequest
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeAPIRateLimit:
		return http.StatusTooManyRequests
	case ErrCodeAPITimeout:
		return http.StatusGatewayTimeout
	case ErrCodeExternalService, ErrCodeFeedUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Common error constructors

// NotFound creates a not found error
func NotFound(resource string, id interface{}) *AppError {
	return Newf(ErrCodeNotFound, "%s not found", resource).
		WithDetail("resource", resource).
		WithDetail("id", id)
}

// ValidationError creates a validation error
func ValidationError(field string, reason string) *AppError {
	return Newf(ErrCodeValidation, "validation failed for field '%s': %s", field, reason).
		WithDetail("field", field).
		WithDetail("reason", reason)
}

// MissingFieldError creates a missing field error
func MissingFieldError(field string) *AppError {
	return Newf(ErrCodeMissingField, "required field '%s' is missing", field).
		WithDetail("field", field)
}

// DatabaseError creates a database error
func DatabaseError(operation string, cause error) *AppError {
	return Wrapf(cause, ErrCodeDatabaseQuery, "database %s failed", operation).
		WithDetail("operation", operation)
}

// ExternalServiceError creates an external service error
func ExternalServiceError(service string, cause error) *AppError {
	return Wrapf(cause, ErrCodeExternalService, "external service '%s' error", service).
		WithDetail("service", service)
}

// FeedUnavailable creates an error for a feed whose document could not be
// fetched. A non-zero upstream status is passed through as the HTTP code,
// a 404 becomes NOT_FOUND.
func FeedUnavailable(slug string, upstreamStatus int, cause error) *AppError {
	if upstreamStatus == http.StatusNotFound {
		return Wrapf(cause, ErrCodeNotFound, "feed '%s' not found", slug).
			WithDetail("slug", slug)
	}
	err := Wrapf(cause, ErrCodeFeedUnavailable, "could not load feed '%s'", slug).
		WithDetail("slug", slug)
	if upstreamStatus >= 400 && upstreamStatus <= 599 {
		err.HTTPCode = upstreamStatus
		err.WithDetail("upstream_status", upstreamStatus)
	}
	return err
}

// MalformedFeed creates an error for a feed document without a channel
func MalformedFeed(slug, documentType string, cause error) *AppError {
	return Wrapf(cause, ErrCodeMalformedFeed, "feed '%s' is not a valid RSS feed", slug).
		WithDetail("slug", slug).
		WithDetail("document_type", documentType)
}

// ConfigError creates a configuration error
func ConfigError(key string, reason string) *AppError {
	return Newf(ErrCodeConfigInvalid, "configuration error for '%s': %s", key, reason).
		WithDetail("key", key).
		WithDetail("reason", reason)
}

// TimeoutError creates a timeout error for an operation that ran out of time
func TimeoutError(operation string, cause error) *AppError {
	return Wrapf(cause, ErrCodeAPITimeout, "%s timed out", operation).
		WithDetail("operation", operation)
}

// RateLimitError creates a rate limit error
func RateLimitError(resource string, limit string) *AppError {
	return Newf(ErrCodeAPIRateLimit, "rate limit exceeded for '%s': %s", resource, limit).
		WithDetail("resource", resource).
		WithDetail("limit", limit)
}

// As returns the first AppError in err's chain
func As(err error) (*AppError, bool) {
	var appErr *AppError
	ok := errors.As(err, &appErr)
	return appErr, ok
}
