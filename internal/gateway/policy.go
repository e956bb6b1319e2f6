package gateway

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Policy decides how often and how patiently a call is retried.
type Policy struct {
	// MaxAttempts counts the first try.
	MaxAttempts int
	// Backoff returns the wait after the given failed attempt (1-based).
	Backoff func(attempt int) time.Duration
	// Retryable reports whether the error from the given attempt may be
	// retried.
	Retryable func(err error, attempt int) bool
}

const (
	defaultAttempts   = 5
	defaultInitial    = 800 * time.Millisecond
	defaultMultiplier = 1.6
	defaultJitter     = 500 * time.Millisecond

	ackAttempts = 3
	ackStep     = time.Second
)

// DefaultPolicy is used for every call except interaction responses:
// exponential backoff from 0.8s by 1.6x plus up to 0.5s of jitter.
func DefaultPolicy(attempts int) Policy {
	if attempts <= 0 {
		attempts = defaultAttempts
	}
	return Policy{
		MaxAttempts: attempts,
		Backoff:     Exponential(defaultInitial, defaultMultiplier, defaultJitter),
		Retryable:   RetryableKind,
	}
}

// AckPolicy covers interaction acknowledgements and follow-ups, whose
// tokens expire quickly: three attempts, waiting 1s then 2s.
func AckPolicy() Policy {
	return Policy{
		MaxAttempts: ackAttempts,
		Backoff:     Linear(ackStep),
		Retryable:   RetryableKind,
	}
}

// Exponential returns initial*multiplier^(attempt-1) plus a random jitter
// in [0, jitter).
func Exponential(initial time.Duration, multiplier float64, jitter time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		if attempt < 1 {
			attempt = 1
		}
		d := time.Duration(float64(initial) * math.Pow(multiplier, float64(attempt-1)))
		if jitter > 0 {
			d += rand.N(jitter)
		}
		return d
	}
}

// Linear returns step*attempt.
func Linear(step time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		return step * time.Duration(attempt)
	}
}

// RetryableKind retries transient errors on every attempt and the
// @everyone permission error on the first attempt only.
func RetryableKind(err error, attempt int) bool {
	switch Classify(err) {
	case KindTransient:
		return true
	case KindPermission:
		return attempt == 1
	default:
		return false
	}
}

func (p Policy) attempts() int {
	if p.MaxAttempts <= 0 {
		return 1
	}
	return p.MaxAttempts
}

func (p Policy) retryable(err error, attempt int) bool {
	if p.Retryable == nil {
		return false
	}
	return p.Retryable(err, attempt)
}

// policyBackOff feeds a Policy's schedule to backoff.Retry.
type policyBackOff struct {
	policy  Policy
	attempt int
}

var _ backoff.BackOff = (*policyBackOff)(nil)

func (b *policyBackOff) NextBackOff() time.Duration {
	b.attempt++
	if b.policy.Backoff == nil {
		return 0
	}
	return b.policy.Backoff(b.attempt)
}

func (b *policyBackOff) Reset() {
	b.attempt = 0
}
