// Package retrylimit provides rate-limited retry with exponential backoff,
// used for the audio node connection bootstrap and other flaky startup work.
//
// Example usage:
//
//	lim := retrylimit.NewLimiter(1, 5)
//	err := retrylimit.WithRetry(ctx, func() error {
//	    return node.Connect(ctx)
//	}, lim)
package retrylimit

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"golang.org/x/time/rate"
)

// Limiter paces retry attempts through a token bucket.
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter creates a Limiter allowing rps attempts per second with the
// given burst.
func NewLimiter(rps rate.Limit, burst int) *Limiter {
	if rps <= 0 {
		rps = 1
	}
	if burst < 1 {
		burst = 1
	}
	return &Limiter{limiter: rate.NewLimiter(rps, burst)}
}

// Wait blocks until a token is available or the context is canceled.
func (l *Limiter) Wait(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	return l.limiter.Wait(ctx)
}

// FatalError wraps errors that should stop retries immediately.
type FatalError struct {
	Err error
}

func (f *FatalError) Error() string { return f.Err.Error() }
func (f *FatalError) Unwrap() error { return f.Err }

// Config configures retry behavior.
type Config struct {
	MaxAttempts  int                          // 0 means the safety cap of 100
	InitialDelay time.Duration                // first backoff delay
	MaxDelay     time.Duration                // backoff ceiling
	Multiplier   float64                      // exponential growth factor
	Jitter       bool                         // add 0-25% random jitter
	OnRetry      func(attempt int, err error) // optional callback on each failure
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  100,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     10 * time.Second,
		Multiplier:   2.0,
		Jitter:       true,
	}
}

// WithRetry executes fn with exponential backoff and the default config.
// Stops when fn succeeds, fn returns a FatalError, the context ends, or the
// attempt cap is hit.
func WithRetry(ctx context.Context, fn func() error, lim *Limiter) error {
	return WithRetryConfig(ctx, fn, lim, DefaultConfig())
}

// WithRetryConfig executes fn with custom retry configuration.
func WithRetryConfig(ctx context.Context, fn func() error, lim *Limiter, cfg Config) error {
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 100
	}

	delay := cfg.InitialDelay

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if lim != nil {
			if err := lim.Wait(ctx); err != nil {
				return err
			}
		}

		err := fn()
		if err == nil {
			if attempt > 1 {
				log.Printf("[Retry] Success after %d attempts", attempt)
			}
			return nil
		}

		if _, fatal := err.(*FatalError); fatal {
			return err
		}

		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, err)
		}
		log.Printf("[Retry] Attempt %d failed: %v. Sleeping %v", attempt, err, delay)

		nextDelay := delay
		if cfg.Jitter {
			nextDelay = addJitter(delay)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(nextDelay):
		}

		delay = time.Duration(float64(delay) * cfg.Multiplier)
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	return fmt.Errorf("max attempts (%d) exceeded", cfg.MaxAttempts)
}

// addJitter adds random jitter (0-25% of delay) to prevent thundering herd.
func addJitter(delay time.Duration) time.Duration {
	if delay <= 0 {
		return delay
	}
	return delay + time.Duration(rand.Int63n(int64(delay/4)))
}
