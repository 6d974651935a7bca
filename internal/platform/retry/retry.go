// Package retry implements the retry policy applied around failure-prone
// payment provider calls.
package retry

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/StarGiftLabs/star_gifting_app/internal/apperrors"
)

// Policy governs how provider calls are retried. Rate-limit signals are
// waited out without consuming an attempt; transient failures consume an
// attempt and back off exponentially; anything else aborts immediately.
type Policy struct {
	// MaxAttempts is the retry budget for transient failures.
	MaxAttempts int
	// BackoffUnit is the base duration for the 2^attempt backoff.
	BackoffUnit time.Duration
}

// DefaultPolicy mirrors the provider integration defaults: three
// attempts with a one-second backoff unit.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BackoffUnit: time.Second,
	}
}

// Do runs op under the policy. It returns nil on the first success, the
// last error once the budget is exhausted, and the original error
// unchanged for non-retryable failures.
func (p Policy) Do(ctx context.Context, logger *slog.Logger, op func(context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; {
		err := op(ctx)
		if err == nil {
			return nil
		}

		var rateLimited *apperrors.RateLimitedError
		if errors.As(err, &rateLimited) {
			// Provider-directed wait; does not count against the budget.
			logger.Warn("Provider rate limited",
				slog.Duration("retry_after", rateLimited.RetryAfter))
			if err := sleep(ctx, rateLimited.RetryAfter); err != nil {
				return err
			}
			continue
		}

		var transient *apperrors.TransientError
		if errors.As(err, &transient) {
			lastErr = err
			backoff := p.BackoffUnit * (1 << attempt)
			logger.Warn("Transient provider error",
				slog.Int("attempt", attempt),
				slog.Int("max_attempts", attempts),
				slog.Duration("backoff", backoff),
				slog.String("error", err.Error()))
			attempt++
			if attempt > attempts {
				break
			}
			if err := sleep(ctx, backoff); err != nil {
				return err
			}
			continue
		}

		// Non-retryable: permanent provider error, validation, cancellation.
		return err
	}
	return lastErr
}

// sleep waits for d or until the context is cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
