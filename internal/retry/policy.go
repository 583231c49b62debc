// Package retry retries backend calls that failed with a retryable
// StudioError, waiting between attempts on an injected clock.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/jonboulle/clockwork"

	serrors "git.home.luguber.info/inful/jekyll-studio/internal/errors"
)

// BackoffMode selects how the wait grows between attempts.
type BackoffMode string

const (
	BackoffFixed       BackoffMode = "fixed"
	BackoffLinear      BackoffMode = "linear"
	BackoffExponential BackoffMode = "exponential"
)

// Policy describes how often and how patiently to retry.
type Policy struct {
	Mode       BackoffMode
	Initial    time.Duration // first wait
	Max        time.Duration // upper bound for any wait
	MaxRetries int           // attempts after the first one
}

// DefaultPolicy waits 1s, 2s, ... capped at 15s, for at most two retries.
func DefaultPolicy() Policy {
	return Policy{Mode: BackoffExponential, Initial: time.Second, Max: 15 * time.Second, MaxRetries: 2}
}

// NewPolicy starts from DefaultPolicy and applies every positive duration,
// non-negative retry count and known mode. Initial never exceeds Max.
func NewPolicy(mode BackoffMode, initial, maxDelay time.Duration, maxRetries int) Policy {
	p := DefaultPolicy()
	switch mode {
	case BackoffFixed, BackoffLinear, BackoffExponential:
		p.Mode = mode
	}
	if initial > 0 {
		p.Initial = initial
	}
	if maxDelay > 0 {
		p.Max = maxDelay
	}
	if maxRetries >= 0 {
		p.MaxRetries = maxRetries
	}
	p.Initial = min(p.Initial, p.Max)
	return p
}

// Delay is the wait before retry n (n=1 is the first retry).
func (p Policy) Delay(n int) time.Duration {
	if n < 1 {
		return 0
	}
	var d time.Duration
	switch p.Mode {
	case BackoffFixed:
		d = p.Initial
	case BackoffExponential:
		// Past 2^30 the shift overflows; the cap applies long before.
		if n > 31 {
			return p.Max
		}
		d = p.Initial << (n - 1)
	default:
		d = p.Initial * time.Duration(n)
	}
	if d <= 0 || d > p.Max {
		return p.Max
	}
	return d
}

// Validate rejects policies that cannot wait or retry sensibly.
func (p Policy) Validate() error {
	switch {
	case p.Initial <= 0:
		return errors.New("retry: initial delay must be positive")
	case p.Max <= 0:
		return errors.New("retry: max delay must be positive")
	case p.MaxRetries < 0:
		return errors.New("retry: max retries must not be negative")
	}
	return nil
}

// Do calls fn until it succeeds, returns an error that is not retryable, the
// retries are exhausted or ctx is done. attempt starts at 1. onRetry, when
// non-nil, is called before each wait.
func (p Policy) Do(ctx context.Context, clock clockwork.Clock, fn func(attempt int) error, onRetry func(attempt int, err error)) error {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	for attempt := 1; ; attempt++ {
		err := fn(attempt)
		if err == nil || !serrors.IsRetryable(err) || attempt > p.MaxRetries {
			return err
		}
		if onRetry != nil {
			onRetry(attempt, err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-clock.After(p.Delay(attempt)):
		}
	}
}
