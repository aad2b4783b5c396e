package dnsresolver

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"net"
	"time"

	"github.com/inboxguard/spfaudit"
)

// RetryOption configures a RetryPort.
type RetryOption func(*RetryPort)

// RetryBackoffMin sets the delay before the first retry.
func RetryBackoffMin(d time.Duration) RetryOption {
	return func(r *RetryPort) {
		if d > 0 {
			r.min = d
		}
	}
}

// RetryBackoffFactor sets the exponential growth factor applied to the
// backoff delay between attempts.
func RetryBackoffFactor(f float64) RetryOption {
	return func(r *RetryPort) {
		if f > 0 {
			r.factor = f
		}
	}
}

// RetryBackoffJitter toggles randomizing each backoff delay within
// [min, computed) instead of using the computed delay exactly.
func RetryBackoffJitter(b bool) RetryOption {
	return func(r *RetryPort) { r.jitter = b }
}

// RetryTimeout bounds the total time RetryPort spends retrying a single
// query before giving up and returning the last error.
func RetryTimeout(d time.Duration) RetryOption {
	return func(r *RetryPort) {
		if d > 0 {
			r.max = d
		}
	}
}

// RetryPort wraps an spf.DNSPort, retrying a query with exponential
// backoff as long as it keeps failing with ErrTemporary. It gives up and
// returns once either a query succeeds, fails with something other than
// ErrTemporary, or the configured timeout elapses.
type RetryPort struct {
	next   spf.DNSPort
	min    time.Duration
	max    time.Duration
	factor float64
	jitter bool
}

// NewRetryPort wraps next with backoff retry.
func NewRetryPort(next spf.DNSPort, opts ...RetryOption) *RetryPort {
	r := &RetryPort{
		next:   next,
		min:    100 * time.Millisecond,
		max:    2 * time.Second,
		factor: 2,
		jitter: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *RetryPort) QueryTXT(ctx context.Context, name string) ([]string, error) {
	expired := r.expiredFunc()
	for attempt := 0; ; attempt++ {
		v, err := r.next.QueryTXT(ctx, name)
		if !errors.Is(err, ErrTemporary) || expired() {
			return v, err
		}
		if !r.sleep(ctx, attempt) {
			return v, err
		}
	}
}

func (r *RetryPort) QueryA(ctx context.Context, name string) ([]net.IP, error) {
	expired := r.expiredFunc()
	for attempt := 0; ; attempt++ {
		v, err := r.next.QueryA(ctx, name)
		if !errors.Is(err, ErrTemporary) || expired() {
			return v, err
		}
		if !r.sleep(ctx, attempt) {
			return v, err
		}
	}
}

func (r *RetryPort) QueryMX(ctx context.Context, name string) ([]string, error) {
	expired := r.expiredFunc()
	for attempt := 0; ; attempt++ {
		v, err := r.next.QueryMX(ctx, name)
		if !errors.Is(err, ErrTemporary) || expired() {
			return v, err
		}
		if !r.sleep(ctx, attempt) {
			return v, err
		}
	}
}

func (r *RetryPort) expiredFunc() func() bool {
	start := time.Now()
	return func() bool {
		return time.Since(start) > r.max
	}
}

// sleep waits out the backoff delay for attempt, returning false if ctx
// was cancelled first.
func (r *RetryPort) sleep(ctx context.Context, attempt int) bool {
	t := time.NewTimer(r.backoff(attempt))
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// backoff calculates the delay before the given zero-based attempt.
// Adapted from https://github.com/jpillora/backoff.
func (r *RetryPort) backoff(attempt int) time.Duration {
	if r.min >= r.max {
		return r.max
	}
	const maxInt64 = float64(math.MaxInt64 - 512)

	minf := float64(r.min)
	durf := minf * math.Pow(r.factor, float64(attempt))
	if r.jitter {
		durf = rand.Float64()*(durf-minf) + minf
	}
	if durf > maxInt64 {
		return r.max
	}
	dur := time.Duration(durf)
	if dur < r.min {
		return r.min
	} else if dur > r.max {
		return r.max
	}
	return dur
}
