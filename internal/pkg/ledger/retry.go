package ledger

import (
	"context"
	"strings"
	"time"
)

const (
	// DefaultMaxRetries bounds how often a transient storage failure is retried.
	DefaultMaxRetries = 3

	baseDelay = 1000 * time.Millisecond
	maxDelay  = 5000 * time.Millisecond
)

type retryConfig struct {
	maxRetries int
	sleep      func(context.Context, time.Duration) error
}

// RetryOption customizes WithRetry.
type RetryOption func(*retryConfig)

// WithMaxRetries overrides the retry cap.
func WithMaxRetries(n int) RetryOption {
	return func(c *retryConfig) {
		if n > 0 {
			c.maxRetries = n
		}
	}
}

// WithSleep overrides the backoff sleeper. Tests use this to avoid real delays.
func WithSleep(sleep func(context.Context, time.Duration) error) RetryOption {
	return func(c *retryConfig) {
		c.sleep = sleep
	}
}

// WithRetry re-executes fn as long as it fails with a transient storage
// error, up to the retry cap, backing off exponentially between attempts
// (1s, 2s, 4s, capped at 5s). Non-transient failures, including
// insufficient-funds rejections, propagate immediately without a retry.
// Exhausting the cap returns the last transient error.
func WithRetry(ctx context.Context, fn func() error, opts ...RetryOption) error {
	cfg := retryConfig{
		maxRetries: DefaultMaxRetries,
		sleep:      sleepWithContext,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.maxRetries; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !IsTransient(lastErr) || attempt == cfg.maxRetries {
			return lastErr
		}
		if err := cfg.sleep(ctx, backoffDelay(attempt)); err != nil {
			return err
		}
	}
	return lastErr
}

// IsTransient classifies storage failures that are expected to resolve on
// their own: lock contention, dropped connections, timeouts.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "deadlock") ||
		strings.Contains(msg, "connection") ||
		strings.Contains(msg, "timeout")
}

func backoffDelay(attempt int) time.Duration {
	delay := baseDelay << (attempt - 1)
	if delay > maxDelay {
		return maxDelay
	}
	return delay
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
