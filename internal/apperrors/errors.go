package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates the caller is not allowed to act on the resource.
var ErrForbidden = errors.New("forbidden")

// ErrMalformedAmount indicates a monetary literal could not be normalized
// into a non-negative decimal magnitude.
var ErrMalformedAmount = errors.New("malformed amount")

// ErrInvalidTransition indicates an illegal transaction status change.
// Only PENDING -> COMPLETED and PENDING -> FAILED are permitted.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrOverRefund indicates a refund request that would push the sum of
// completed refunds for an income transaction past its original amount.
var ErrOverRefund = errors.New("refund exceeds refundable amount")

// ErrInsufficientBalance indicates a payout or refund request larger than
// the owner's currently available balance.
var ErrInsufficientBalance = errors.New("insufficient available balance")

// AppError wraps a lower-level failure with an HTTP-ish status code and a
// message suitable for logging. Used by the repository layer.
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

// NewAppError creates a new AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
