// Package retry implements a bounded exponential-backoff retry policy for
// idempotent operations.
//
// The policy is intended for read-only provider calls only. Mutating calls
// (snapshot or volume creation) must not be wrapped here; the remediation
// package reconciles prior side effects before re-attempting instead.
package retry

import (
	"context"
	"errors"
	"time"
)

// Config configures the retry policy.
type Config struct {
	// MaxAttempts is the maximum number of attempts, including the first.
	// Default: 5.
	MaxAttempts int

	// InitialDelay is the wait after the first failed attempt.
	// Default: 5s.
	InitialDelay time.Duration

	// Factor multiplies the delay after every failed attempt. Default: 2.
	Factor float64

	// Sleep is the wait primitive. Defaults to a context-aware time.Sleep.
	// Tests inject a recorder here instead of sleeping for real.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultConfig returns the production retry policy: 5 attempts, 5 s initial
// delay, doubling after every failure. Worst case the policy waits
// 5+10+20+40+80 = 155 s before giving up.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  5,
		InitialDelay: 5 * time.Second,
		Factor:       2,
	}
}

// normalized fills zero fields with defaults.
func (c Config) normalized() Config {
	d := DefaultConfig()
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = d.MaxAttempts
	}
	if c.InitialDelay <= 0 {
		c.InitialDelay = d.InitialDelay
	}
	if c.Factor < 1 {
		c.Factor = d.Factor
	}
	if c.Sleep == nil {
		c.Sleep = sleepContext
	}
	return c
}

// Func is a unit of work that can be retried. It must be idempotent.
type Func func(ctx context.Context) error

// permanentError marks an error that retrying cannot fix.
type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent wraps err so Do returns it immediately without further attempts.
// Use it for terminal conditions such as a resource that does not exist.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Do executes fn under the retry policy. On a non-nil error the policy waits
// the current delay, multiplies it by Factor, and retries; the delay is paid
// after every failed attempt, the final one included. A success on the last
// allowed attempt is not retried further. The error from the last attempt is
// returned after exhaustion; ctx cancellation aborts the wait immediately.
func Do(ctx context.Context, cfg Config, fn Func) error {
	cfg = cfg.normalized()

	delay := cfg.InitialDelay
	var lastErr error

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		var perm *permanentError
		if errors.As(lastErr, &perm) {
			return perm.err
		}

		if err := cfg.Sleep(ctx, delay); err != nil {
			return err
		}
		delay = time.Duration(float64(delay) * cfg.Factor)
	}

	return lastErr
}

// sleepContext blocks for d or until ctx is cancelled, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
