package resilience

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// BackoffFunc computes the delay before the retry following attempt
// (1-based: attempt 1 is the delay after the first failure).
type BackoffFunc func(attempt int) time.Duration

// LinearBackoff returns a backoff that grows by step per attempt:
// step, 2*step, 3*step, ...
func LinearBackoff(step time.Duration) BackoffFunc {
	return func(attempt int) time.Duration {
		return time.Duration(attempt) * step
	}
}

// RetryConfig is an explicit per-call retry policy. Stages that do not
// retry use MaxAttempts 1 so the absence of retry is visible configuration,
// not an omission.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts including the first try.
	// A value <= 1 means no retries.
	MaxAttempts int

	// Backoff computes the sleep before each retry. Defaults to
	// LinearBackoff(5s).
	Backoff BackoffFunc

	// ShouldRetry decides whether an error is retryable. Defaults to
	// IsRateLimited.
	ShouldRetry func(err error) bool

	// OnRetry is called before each retry sleep with the attempt number and
	// the error that triggered it.
	OnRetry func(attempt int, err error)

	// Sleep overrides the sleep implementation; tests inject a fake. The
	// default honors context cancellation.
	Sleep func(ctx context.Context, d time.Duration)
}

// NoRetry is the single-attempt policy.
func NoRetry() RetryConfig {
	return RetryConfig{MaxAttempts: 1}
}

// RateLimitRetry is the policy for LLM calls that should survive provider
// throttling: attempts total attempts, linear backoff of step, 2*step, ...,
// retrying only rate-limit-class errors.
func RateLimitRetry(attempts int, step time.Duration) RetryConfig {
	return RetryConfig{
		MaxAttempts: attempts,
		Backoff:     LinearBackoff(step),
		ShouldRetry: IsRateLimited,
	}
}

func applyDefaults(cfg RetryConfig) RetryConfig {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.Backoff == nil {
		cfg.Backoff = LinearBackoff(5 * time.Second)
	}
	if cfg.ShouldRetry == nil {
		cfg.ShouldRetry = IsRateLimited
	}
	if cfg.Sleep == nil {
		cfg.Sleep = sleepCtx
	}
	return cfg
}

func sleepCtx(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// DoVal executes fn under the retry policy, preserving the value from the
// successful call. The backoff sleep blocks only the calling goroutine;
// context cancellation stops retries immediately.
func DoVal[T any](ctx context.Context, cfg RetryConfig, fn func(ctx context.Context) (T, error)) (T, error) {
	cfg = applyDefaults(cfg)

	var zero T
	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		val, err := fn(ctx)
		if err == nil {
			return val, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return zero, lastErr
		}
		if !cfg.ShouldRetry(lastErr) {
			return zero, lastErr
		}
		if attempt == cfg.MaxAttempts {
			break
		}

		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, lastErr)
		}
		cfg.Sleep(ctx, cfg.Backoff(attempt))
	}

	return zero, lastErr
}

// Do executes fn under the retry policy.
func Do(ctx context.Context, cfg RetryConfig, fn func(ctx context.Context) error) error {
	_, err := DoVal(ctx, cfg, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// RetryLogger returns an OnRetry callback that logs each retry attempt.
func RetryLogger(stage, operation string) func(int, error) {
	return func(attempt int, err error) {
		zap.L().Warn("retrying after rate limit",
			zap.String("stage", stage),
			zap.String("operation", operation),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}
}
