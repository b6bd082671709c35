package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError is the error type returned by services and repositories. StatusCode follows
// HTTP status code semantics.
type AppError struct {
	Code       string
	Message    string
	StatusCode int
	Err        error
	Details    map[string]interface{}
}

// Error returns a string representation of the error
func (e AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches on Code so callers can compare against a freshly built error.
func (e AppError) Is(target error) bool {
	if target, ok := target.(AppError); ok {
		return target.Code == e.Code
	}
	return false
}

// Unwrap returns the underlying error
func (e AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a single detail to the error
func (e AppError) WithDetail(key string, value interface{}) AppError {
	details := make(map[string]interface{}, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	e.Details = details
	return e
}

// As extracts an AppError from err. Errors of any other type are reported as internal
// errors carrying the original as their cause.
func As(err error) AppError {
	var appErr AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError("internal server error", err)
}

// NewValidationError creates a new validation error
func NewValidationError(message string) AppError {
	return AppError{
		Code:       "VALIDATION_ERROR",
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

// NewInvalidInputError creates a new invalid input error
func NewInvalidInputError(message string, err error) AppError {
	return AppError{
		Code:       "INVALID_INPUT",
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Err:        err,
	}
}

// NewUnsupportedFormatError is returned when a report is requested in a format that
// cannot be rendered.
func NewUnsupportedFormatError(format string) AppError {
	return AppError{
		Code:       "UNSUPPORTED_FORMAT",
		Message:    fmt.Sprintf("unsupported report format %q, expected CSV or HTML", format),
		StatusCode: http.StatusBadRequest,
	}
}

// NewBookError is returned when a request is not scoped to a book.
func NewBookError(message string) AppError {
	return AppError{
		Code:       "BOOK_ERROR",
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) AppError {
	return AppError{
		Code:       "NOT_FOUND",
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

// NewConflictError creates a new conflict error
func NewConflictError(message string) AppError {
	return AppError{
		Code:       "CONFLICT",
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) AppError {
	return AppError{
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Err:        err,
	}
}
