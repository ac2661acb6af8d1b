package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError carries an error code, a caller-safe message and the HTTP status
// it maps to. The wrapped cause is kept for logs only and is never echoed.
type AppError struct {
	Code    string
	Message string
	Status  int
	Err     error
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// BadInput is returned before any store access is attempted.
func BadInput(message string) *AppError {
	return &AppError{Code: "BAD_INPUT", Message: message, Status: http.StatusBadRequest}
}

func NotFound(resource string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s not found", resource),
		Status:  http.StatusNotFound,
	}
}

func Conflict(message string) *AppError {
	return &AppError{Code: "CONFLICT", Message: message, Status: http.StatusConflict}
}

// Internal keeps the cause for diagnostics and exposes only a generic message.
func Internal(message string, err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: message,
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// As extracts an *AppError from an error chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
