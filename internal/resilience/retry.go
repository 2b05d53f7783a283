package resilience

import (
	"context"
	"math/rand"
	"time"
)

// Config holds the retry policy for calls to external collaborators.
type Config struct {
	MaxAttempts    int           // Total attempts, including the first call
	InitialBackoff time.Duration // Backoff before the second attempt
	MaxBackoff     time.Duration // Upper bound for any single backoff
	Multiplier     float64       // Exponential growth factor
	Jitter         bool          // Randomize each backoff by up to 25%
}

// DefaultConfig returns the policy used when none is configured: a single
// attempt, so the first failure surfaces immediately.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:    1,
		InitialBackoff: 250 * time.Millisecond,
		MaxBackoff:     5 * time.Second,
		Multiplier:     2.0,
		Jitter:         true,
	}
}

// FromAttempts builds a policy from the environment-driven knobs, falling
// back to defaults for values that are unset.
func FromAttempts(maxAttempts int, initialBackoff time.Duration) Config {
	cfg := DefaultConfig()
	if maxAttempts > 0 {
		cfg.MaxAttempts = maxAttempts
	}
	if initialBackoff > 0 {
		cfg.InitialBackoff = initialBackoff
	}
	return cfg
}

// Func is an operation that can be retried.
type Func func() error

// Classifier reports whether an error is worth retrying.
type Classifier func(error) bool

// Retry executes fn up to cfg.MaxAttempts times with exponential backoff
// between attempts. A nil classifier treats every error as retryable.
// Cancelling the context stops both the waiting and any further attempts.
func Retry(ctx context.Context, fn Func, cfg Config, retryable Classifier) error {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}

	backoff := cfg.InitialBackoff
	var lastErr error

	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if retryable != nil && !retryable(lastErr) {
			return lastErr
		}

		// Don't sleep after the last attempt
		if attempt == cfg.MaxAttempts-1 {
			break
		}

		delay := backoff
		if cfg.Jitter {
			delay += time.Duration(rand.Float64() * 0.25 * float64(delay))
		}
		if cfg.MaxBackoff > 0 && delay > cfg.MaxBackoff {
			delay = cfg.MaxBackoff
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		backoff = time.Duration(float64(backoff) * cfg.Multiplier)
		if cfg.MaxBackoff > 0 && backoff > cfg.MaxBackoff {
			backoff = cfg.MaxBackoff
		}
	}

	return lastErr
}
