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

// ErrInvalidAmount indicates a monetary amount that is zero or negative.
var ErrInvalidAmount = errors.New("amount must be positive")

// ErrInsufficientFunds indicates a debit that would drive a balance below zero.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrInvalidAccount indicates an account that does not exist or has been deleted.
var ErrInvalidAccount = errors.New("invalid account")

// ErrInvalidRecipient indicates a transfer destination that cannot receive funds.
var ErrInvalidRecipient = errors.New("invalid recipient")

// ErrInvalidPayer indicates a transfer source that cannot be charged.
var ErrInvalidPayer = errors.New("invalid payer")

// ErrSelfTransfer indicates a transfer whose source and destination accounts are the same.
var ErrSelfTransfer = errors.New("cannot transfer to the same account")

// ErrAlreadySettled indicates an attempt to settle a transfer that has already
// reached a terminal status.
var ErrAlreadySettled = errors.New("transfer already settled")

// ErrUnauthorized indicates missing or invalid authentication credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the authenticated user is not allowed to perform the action.
var ErrForbidden = errors.New("forbidden")

// ErrRefreshTokenExpired indicates the stored refresh token is past its expiry.
var ErrRefreshTokenExpired = errors.New("refresh token expired")

// ErrStorageUnavailable indicates the datastore could not serve the request;
// the operation may be retried.
var ErrStorageUnavailable = errors.New("storage unavailable")

// ErrConflict indicates the request conflicts with the current state of the resource.
var ErrConflict = errors.New("conflict with current state")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// AppError wraps an underlying error with an HTTP-ish status code and a
// human-readable message. Repositories use it for failures that do not map to
// one of the sentinel errors above.
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

// NewAppError creates an AppError with the given code, message and cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that satisfies errors.Is(err, ErrNotFound).
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}
