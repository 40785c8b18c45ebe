package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the resource is not in a state that allows the requested operation.
var ErrConflict = errors.New("resource state conflict")

// ErrForbidden indicates that the caller lacks the capability for the operation.
var ErrForbidden = errors.New("forbidden")

// ErrPolicy indicates that a ledger policy (control account, period lock) rejected the operation.
var ErrPolicy = errors.New("policy violation")

// ErrTransient indicates a storage failure that may succeed if the whole unit of work is retried.
var ErrTransient = errors.New("transient storage failure")

// ErrInternal indicates an unexpected failure.
var ErrInternal = errors.New("internal error")

// AppError carries an HTTP-ish status code alongside a wrapped cause.
type AppError struct {
	Code    int
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

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError wrapping ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message, Err: ErrNotFound}
}

// NewTransientError wraps err so that errors.Is(err, ErrTransient) holds.
func NewTransientError(message string, err error) *AppError {
	return &AppError{Code: http.StatusServiceUnavailable, Message: message, Err: fmt.Errorf("%w: %w", ErrTransient, err)}
}

// IsTransient reports whether err is eligible for an automatic retry.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransient)
}
