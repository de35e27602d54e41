package services

import (
	"context"
	"time"
)

// defaultRetryBackoff is the pause before the single retry that model
// calls get.
const defaultRetryBackoff = 500 * time.Millisecond

// withRetry runs fn and, when it fails, retries exactly once after
// backoff. Cancellation during the backoff aborts the retry.
func withRetry(ctx context.Context, backoff time.Duration, fn func() error) error {
	err := fn()
	if err == nil {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(backoff):
	}

	return fn()
}
