package apperrors

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates a concurrent modification was detected by an
// optimistic version check. The caller should re-read and retry.
var ErrConflict = errors.New("concurrent modification")

// ErrInvalidAmount indicates a non-positive or out-of-policy amount.
// Rejected locally, never retried.
var ErrInvalidAmount = errors.New("invalid amount")

// ErrInsufficientFunds indicates a local balance precondition failure.
// The operation aborts with no partial effect.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrPersistence indicates a storage failure. Fatal for the current
// operation; ledger mutations are ordered so a failure leaves prior
// state unchanged.
var ErrPersistence = errors.New("persistence error")

// ErrProviderPermanent indicates a non-retryable payment provider error.
var ErrProviderPermanent = errors.New("permanent provider error")

// RateLimitedError is returned when the provider asks us to back off.
// It is retried after RetryAfter and does not count against the retry budget.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("provider rate limited, retry after %s", e.RetryAfter)
}

// TransientError wraps a temporary network-level provider failure.
// Retried with exponential backoff up to a fixed attempt cap.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient provider error: %v", e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether an error from the provider may be retried.
func IsRetryable(err error) bool {
	var rl *RateLimitedError
	var tr *TransientError
	return errors.As(err, &rl) || errors.As(err, &tr)
}
