package retrier

import (
	"context"
	"time"
)

const (
	defaultInterval    = 2 * time.Second
	defaultMaxAttempts = 5
)

// Retrier runs a function up to a fixed number of attempts with a fixed
// delay between them. The delay is deliberately not exponential: request
// volume is low and the flaky upstream recovers within seconds.
type Retrier struct {
	interval    time.Duration
	maxAttempts int
}

// Option configures the Retrier.
type Option func(*Retrier)

// WithInterval sets the delay between attempts.
func WithInterval(d time.Duration) Option {
	return func(r *Retrier) {
		r.interval = d
	}
}

// WithMaxAttempts sets the total number of attempts, including the first.
func WithMaxAttempts(n int) Option {
	return func(r *Retrier) {
		r.maxAttempts = n
	}
}

// New creates a Retrier with default values and optional overrides.
func New(opts ...Option) *Retrier {
	r := &Retrier{
		interval:    defaultInterval,
		maxAttempts: defaultMaxAttempts,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Do executes fn until it succeeds or attempts run out. The first success
// wins; the error of the last attempt is returned on exhaustion.
func (r *Retrier) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	var err error

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(r.interval):
			}
		}

		err = fn(ctx)
		if err == nil {
			return nil
		}
	}

	return err
}

// DoWithData executes fn with retries and returns its value.
func DoWithData[T any](r *Retrier, ctx context.Context, fn func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := r.Do(ctx, func(ctx context.Context) error {
		var e error
		result, e = fn(ctx)
		return e
	})
	return result, err
}
