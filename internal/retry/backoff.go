package retry

import (
	"math"
	"math/rand"
	"time"
)

// Backoff computes exponentially growing delays with optional jitter.
type Backoff struct {
	initialDelay time.Duration
	maxDelay     time.Duration
	multiplier   float64
	retries      int

	// jitter of 0.1 spreads each delay by +/- 10%
	jitter     float64
	jitterFunc func() float64
}

// BackoffOption configures a Backoff.
type BackoffOption func(*Backoff)

func WithInitialDelay(d time.Duration) BackoffOption { return func(b *Backoff) { b.initialDelay = d } }
func WithMaxDelay(d time.Duration) BackoffOption     { return func(b *Backoff) { b.maxDelay = d } }
func WithMultiplier(m float64) BackoffOption         { return func(b *Backoff) { b.multiplier = m } }
func WithJitter(j float64) BackoffOption             { return func(b *Backoff) { b.jitter = j } }

// WithJitterFunc replaces the random source, returning values in [0, 1).
func WithJitterFunc(f func() float64) BackoffOption {
	return func(b *Backoff) { b.jitterFunc = f }
}

// NewBackoff returns a Backoff allowing retries attempts after the first,
// starting at 250ms and doubling up to 10s.
func NewBackoff(retries int, opts ...BackoffOption) *Backoff {
	b := &Backoff{
		initialDelay: 250 * time.Millisecond,
		maxDelay:     10 * time.Second,
		multiplier:   2.0,
		retries:      max(retries, 0),
		jitter:       0.1,
		jitterFunc:   rand.Float64,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Retries is the number of attempts allowed after the first.
func (b *Backoff) Retries() int {
	return b.retries
}

// Delay returns the wait before retry n, counting from zero.
func (b *Backoff) Delay(n int) time.Duration {
	d := float64(b.initialDelay) * math.Pow(b.multiplier, float64(n))
	d = math.Min(d, float64(b.maxDelay))

	if b.jitter > 0 {
		offset := (b.jitterFunc() - 0.5) * 2.0
		d *= 1.0 + b.jitter*offset
	}
	return time.Duration(d)
}
