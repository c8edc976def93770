// Package apperror defines the application's error taxonomy.
//
// Every error that crosses the service boundary is an *AppError carrying a
// machine-readable code, an HTTP status, and a client-safe message. The
// Cause field is for server-side logging only and is never serialized, so
// internal detail (SQL text, provider responses, stack traces) cannot leak
// into a response body.
package apperror

import (
	"errors"
	"net/http"
)

// Error codes. The set is closed: handlers only ever emit these.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeDatabase           = "DATABASE_ERROR"
	CodeInternal           = "INTERNAL_ERROR"
	CodeAIService          = "AI_SERVICE_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// FieldError is a single field-level validation failure. Nested field paths
// are dot-joined, e.g. "tags.2".
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError is the canonical application error.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    []FieldError
	Cause      error // server-side only, never sent to clients
}

// Error implements the error interface, returning the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap lets errors.Is/errors.As traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// Envelope is the JSON error body written for every non-2xx response:
//
//	{"error":{"code":"...","message":"...","details":[...]}}
type Envelope struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody is the inner object of an error Envelope.
type ErrorBody struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Details []FieldError `json:"details,omitempty"`
}

// Envelope returns the serializable response body for this error.
func (e *AppError) Envelope() Envelope {
	return Envelope{Error: ErrorBody{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	}}
}

// Validation returns a 400 error with optional field-level details.
func Validation(message string, details ...FieldError) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// Unauthorized returns a 401 error.
func Unauthorized(message string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Forbidden returns a 403 error. Reserved: ownership failures are folded
// into NotFound so the API never confirms that another user's row exists.
func Forbidden(message string) *AppError {
	return &AppError{
		Code:       CodeForbidden,
		Message:    message,
		HTTPStatus: http.StatusForbidden,
	}
}

// NotFound returns a 404 error for a named resource.
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// Database returns a 500 error with a generic message. The original error is
// retained in Cause for logging.
func Database(cause error) *AppError {
	return &AppError{
		Code:       CodeDatabase,
		Message:    "A database error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// Internal returns a 500 error with a fixed generic message. The message
// never incorporates the cause.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// AIService returns a 500 error for an AI provider failure, suggesting the
// client retry.
func AIService(cause error) *AppError {
	return &AppError{
		Code:       CodeAIService,
		Message:    "The AI service is currently unavailable. Please try again.",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// ServiceUnavailable returns a 503 error. Reserved for future use.
func ServiceUnavailable(message string) *AppError {
	return &AppError{
		Code:       CodeServiceUnavailable,
		Message:    message,
		HTTPStatus: http.StatusServiceUnavailable,
	}
}

// From extracts the *AppError from err's chain, or wraps err as Internal if
// no typed error is found. Every boundary error path goes through this, so
// unrecognized errors always degrade to the generic 500.
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// Is reports whether err carries the given error code.
func Is(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}
