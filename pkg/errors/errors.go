package errors

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// Model errors
	ErrorTypeInvalidOperation ErrorType = "INVALID_OPERATION"
	ErrorTypeArgument         ErrorType = "ARGUMENT"
	ErrorTypeRead             ErrorType = "READ"
	ErrorTypeUnknownType      ErrorType = "UNKNOWN_TYPE"

	// Domain errors
	ErrorTypeValidation ErrorType = "VALIDATION"
	ErrorTypeNotFound   ErrorType = "NOT_FOUND"

	// Application errors
	ErrorTypeInternal ErrorType = "INTERNAL"

	// Infrastructure errors
	ErrorTypeDatabase ErrorType = "DATABASE"
	ErrorTypeExternal ErrorType = "EXTERNAL"
)

// AppError represents an application-specific error
type AppError struct {
	Type       ErrorType              `json:"type"`
	Message    string                 `json:"message"`
	Code       string                 `json:"code,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	StackTrace string                 `json:"-"`
	HTTPStatus int                    `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCode adds an error code
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// WithDetail adds a single error detail
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithCause wraps an underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

// captureStackTrace captures the current stack trace
func captureStackTrace() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	stack := ""
	for {
		frame, more := frames.Next()
		stack += fmt.Sprintf("%s:%d %s\n", frame.File, frame.Line, frame.Function)
		if !more {
			break
		}
	}
	return stack
}

// Constructor functions for common error types

// NewTypeMismatchError reports a JSON document whose _type discriminator
// does not name the type it is being read into.
func NewTypeMismatchError(expected, actual string) *AppError {
	return &AppError{
		Type:       ErrorTypeInvalidOperation,
		Message:    fmt.Sprintf("the json being used does not represent the type it is being read into: expected %q, got %q", expected, actual),
		Code:       "TYPE_MISMATCH",
		Details:    map[string]interface{}{"expected": expected, "actual": actual},
		HTTPStatus: http.StatusBadRequest,
		StackTrace: captureStackTrace(),
	}
}

// NewArgumentError reports a required construction argument that was
// missing or left at its zero value.
func NewArgumentError(argument string) *AppError {
	return &AppError{
		Type:       ErrorTypeArgument,
		Message:    fmt.Sprintf("argument '%s' is required", argument),
		Details:    map[string]interface{}{"argument": argument},
		HTTPStatus: http.StatusBadRequest,
		StackTrace: captureStackTrace(),
	}
}

// NewReadError reports a key that could not be read from a JSON document
func NewReadError(key string, err error) *AppError {
	return &AppError{
		Type:       ErrorTypeRead,
		Message:    fmt.Sprintf("unable to read '%s'", key),
		Details:    map[string]interface{}{"key": key},
		Cause:      err,
		HTTPStatus: http.StatusBadRequest,
		StackTrace: captureStackTrace(),
	}
}

// NewUnknownTypeError reports a discriminator no entity is registered for
func NewUnknownTypeError(tag string) *AppError {
	return &AppError{
		Type:       ErrorTypeUnknownType,
		Message:    fmt.Sprintf("unknown entity type '%s'", tag),
		Details:    map[string]interface{}{"type": tag},
		HTTPStatus: http.StatusUnprocessableEntity,
		StackTrace: captureStackTrace(),
	}
}

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
		StackTrace: captureStackTrace(),
	}
}

// NewDocumentTooLargeError reports a request document above the size limit
func NewDocumentTooLargeError(limit int64) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    fmt.Sprintf("document exceeds the %d byte limit", limit),
		Code:       "DOCUMENT_TOO_LARGE",
		Details:    map[string]interface{}{"limit": limit},
		HTTPStatus: http.StatusRequestEntityTooLarge,
		StackTrace: captureStackTrace(),
	}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		StackTrace: captureStackTrace(),
	}
}

// NewInternalError creates an internal error
func NewInternalError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		StackTrace: captureStackTrace(),
	}
}

// NewDatabaseError creates a database error
func NewDatabaseError(operation string, err error) *AppError {
	return &AppError{
		Type:       ErrorTypeDatabase,
		Message:    fmt.Sprintf("database operation '%s' failed", operation),
		Cause:      err,
		HTTPStatus: http.StatusInternalServerError,
		StackTrace: captureStackTrace(),
	}
}

// NewExternalError creates an external service error
func NewExternalError(service string, err error) *AppError {
	return &AppError{
		Type:       ErrorTypeExternal,
		Message:    fmt.Sprintf("external service '%s' error", service),
		Cause:      err,
		HTTPStatus: http.StatusBadGateway,
		StackTrace: captureStackTrace(),
	}
}

// Helper functions

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts AppError from an error chain
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsType checks if an error is of a specific type
func IsType(err error, errType ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == errType
}

// IsTypeMismatch checks if an error is a discriminator mismatch
func IsTypeMismatch(err error) bool {
	return IsType(err, ErrorTypeInvalidOperation)
}

// IsArgument checks if an error is a missing argument error
func IsArgument(err error) bool {
	return IsType(err, ErrorTypeArgument)
}

// IsRead checks if an error is a read error
func IsRead(err error) bool {
	return IsType(err, ErrorTypeRead)
}

// IsUnknownType checks if an error is an unknown discriminator error
func IsUnknownType(err error) bool {
	return IsType(err, ErrorTypeUnknownType)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return IsType(err, ErrorTypeNotFound)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return IsType(err, ErrorTypeValidation)
}

// IsClientError reports whether err describes a bad request rather than a
// failure of the service
func IsClientError(err error) bool {
	return IsRead(err) || IsArgument(err) || IsTypeMismatch(err) ||
		IsUnknownType(err) || IsValidation(err)
}

// HTTPStatus returns the status code carried by an AppError, or 500
func HTTPStatus(err error) int {
	if appErr := GetAppError(err); appErr != nil && appErr.HTTPStatus != 0 {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	// If it's already an AppError, add context to message
	if appErr := GetAppError(err); appErr != nil {
		appErr.Message = fmt.Sprintf("%s: %s", message, appErr.Message)
		return appErr
	}

	// Otherwise create a new internal error
	return NewInternalError(message).WithCause(err)
}

// Wrapf wraps an error with formatted message
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}
