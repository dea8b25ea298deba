package errors

import (
	"errors"
	"fmt"
)

// Domain errors - Sentinel errors for use with errors.Is()
var (
	ErrNotFound        = errors.New("resource not found")
	ErrBadRequest      = errors.New("bad request")
	ErrConflict        = errors.New("resource already exists")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrExpired         = errors.New("credentials expired")
	ErrInvalidIdentity = errors.New("invalid federated identity")
	ErrInternal        = errors.New("internal server error")
)

// Custom error type with context
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Constructors
func NotFound(msg string) *AppError {
	return &AppError{Code: "NOT_FOUND", Message: msg, Err: ErrNotFound}
}

func BadRequest(msg string) *AppError {
	return &AppError{Code: "BAD_REQUEST", Message: msg, Err: ErrBadRequest}
}

func Conflict(msg string) *AppError {
	return &AppError{Code: "CONFLICT", Message: msg, Err: ErrConflict}
}

func Unauthenticated(msg string) *AppError {
	return &AppError{Code: "UNAUTHENTICATED", Message: msg, Err: ErrUnauthenticated}
}

func Forbidden(msg string) *AppError {
	return &AppError{Code: "FORBIDDEN", Message: msg, Err: ErrForbidden}
}

func Expired(msg string) *AppError {
	return &AppError{Code: "EXPIRED", Message: msg, Err: ErrExpired}
}

func InvalidIdentity(msg string) *AppError {
	return &AppError{Code: "INVALID_IDENTITY", Message: msg, Err: ErrInvalidIdentity}
}

// Internal wraps an unexpected lower-level failure. The original cause stays
// attached for logging but is never rendered to the caller.
func Internal(msg string, err error) *AppError {
	if err == nil {
		return &AppError{Code: "INTERNAL_SERVER_ERROR", Message: msg, Err: ErrInternal}
	}
	return &AppError{Code: "INTERNAL_SERVER_ERROR", Message: msg, Err: fmt.Errorf("%w: %w", ErrInternal, err)}
}
