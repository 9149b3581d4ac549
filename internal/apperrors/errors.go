package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrBusinessRule indicates that structurally valid input violates a
// bookkeeping rule (tax outside tolerance, unbalanced allocation, write on a
// closed period, ...). Never auto-corrected, never retried.
var ErrBusinessRule = errors.New("business rule violation")

// ErrIntegrity indicates ledger corruption (e.g. debit/credit totals diverge
// during a period close). This is a bug signal, not bad caller input, and
// must be surfaced distinctly from ordinary validation failures.
var ErrIntegrity = errors.New("ledger integrity violation")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates the operation conflicts with current resource state
// (e.g. a second contra against an already mirrored transaction).
var ErrConflict = errors.New("conflicting operation")

// ErrForbidden indicates the caller is not allowed to act on the resource.
var ErrForbidden = errors.New("forbidden")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// AppError wraps a lower-level error with an HTTP-ish status code and a
// message suitable for logs. Repositories return these for infrastructure
// failures.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
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
