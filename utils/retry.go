package utils

import (
	"context"
	"fmt"
	"time"
)

// RetryConfig describes how often and how patiently an operation is retried.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	// MaxDelay caps the doubled delay. Zero means no cap.
	MaxDelay time.Duration
	// ShouldRetry reports whether err is worth another attempt.
	// Nil retries every error.
	ShouldRetry func(error) bool
	Logger      *Logger
}

func (r *RetryConfig) attempts() int {
	if r.MaxAttempts < 1 {
		return 1
	}
	return r.MaxAttempts
}

func (r *RetryConfig) next(delay time.Duration) time.Duration {
	delay *= 2
	if r.MaxDelay > 0 && delay > r.MaxDelay {
		return r.MaxDelay
	}
	return delay
}

// Do runs fn until it succeeds, the attempts run out, ShouldRetry rejects
// the error or ctx is done. The wait between attempts doubles each time.
func (r *RetryConfig) Do(ctx context.Context, op string, fn func() error) error {
	total := r.attempts()
	delay := r.BaseDelay

	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		if r.ShouldRetry != nil && !r.ShouldRetry(err) {
			return fmt.Errorf("%s: %w", op, err)
		}
		if attempt == total {
			return fmt.Errorf("%s failed after %d attempts: %w", op, total, err)
		}

		if r.Logger != nil {
			r.Logger.Warn("[retry] %s failed (attempt %d/%d): %v, next try in %v", op, attempt, total, err, delay)
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%s cancelled after %d attempts: %w", op, attempt, ctx.Err())
		case <-timer.C:
		}
		delay = r.next(delay)
	}
}
