package orchestrator

import (
	"errors"
	"time"
)

// RetryDecision represents the decision after evaluating a step failure.
type RetryDecision int

const (
	// RetryStep indicates the step should retry after backoff.
	RetryStep RetryDecision = iota
	// FailStep indicates the failure is permanent for this step.
	FailStep
)

// String returns a human-readable representation of the retry decision.
func (d RetryDecision) String() string {
	switch d {
	case RetryStep:
		return "retry"
	case FailStep:
		return "fail"
	default:
		return "unknown"
	}
}

// RetryPolicy controls how step failures are retried. Only transient
// adapter failures are retried; everything else fails the step on the
// first attempt.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts per step, including
	// the first.
	MaxAttempts int
	// BaseDelay is the backoff before the second attempt. Each further
	// attempt doubles it.
	BaseDelay time.Duration
	// MaxDelay caps the backoff.
	MaxDelay time.Duration
}

// DefaultRetryPolicy returns the policy used when none is configured.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   200 * time.Millisecond,
		MaxDelay:    5 * time.Second,
	}
}

// Decide evaluates a failure on the given attempt (1-indexed) and
// returns whether the step should retry.
func (p RetryPolicy) Decide(err error, attempt int) RetryDecision {
	if attempt >= p.MaxAttempts {
		return FailStep
	}

	var adapterErr *AdapterError
	if errors.As(err, &adapterErr) && adapterErr.Retryable {
		return RetryStep
	}
	return FailStep
}

// Backoff returns the delay before the next attempt after the given
// attempt (1-indexed) failed. The delay doubles per attempt and is
// capped at MaxDelay.
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	delay := p.BaseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if delay > p.MaxDelay {
		delay = p.MaxDelay
	}
	return delay
}
