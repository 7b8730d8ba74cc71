package orchestrator

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestRetryDecide(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: time.Second}

	transient := &AdapterError{SpecialistID: "alpha", Retryable: true, Err: errors.New("overloaded")}
	permanent := &AdapterError{SpecialistID: "alpha", Retryable: false, Err: errors.New("bad request")}

	tests := []struct {
		name    string
		err     error
		attempt int
		want    RetryDecision
	}{
		{"transient first attempt", transient, 1, RetryStep},
		{"transient mid budget", transient, 2, RetryStep},
		{"transient at budget", transient, 3, FailStep},
		{"transient past budget", transient, 4, FailStep},
		{"permanent first attempt", permanent, 1, FailStep},
		{"plain error", errors.New("boom"), 1, FailStep},
		{"wrapped transient", fmt.Errorf("step: %w", transient), 1, RetryStep},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := policy.Decide(tt.err, tt.attempt); got != tt.want {
				t.Errorf("Decide(%v, %d) = %s, want %s", tt.err, tt.attempt, got, tt.want)
			}
		})
	}
}

func TestRetryBackoff(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 10, BaseDelay: 100 * time.Millisecond, MaxDelay: time.Second}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 100 * time.Millisecond},
		{2, 200 * time.Millisecond},
		{3, 400 * time.Millisecond},
		{4, 800 * time.Millisecond},
		{5, time.Second},
		{9, time.Second},
	}

	for _, tt := range tests {
		if got := policy.Backoff(tt.attempt); got != tt.want {
			t.Errorf("Backoff(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestRetryDecisionString(t *testing.T) {
	tests := []struct {
		decision RetryDecision
		want     string
	}{
		{RetryStep, "retry"},
		{FailStep, "fail"},
		{RetryDecision(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.decision.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestDefaultRetryPolicy(t *testing.T) {
	policy := DefaultRetryPolicy()
	if policy.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", policy.MaxAttempts)
	}
	if policy.BaseDelay <= 0 || policy.MaxDelay < policy.BaseDelay {
		t.Errorf("delays are inconsistent: base %v, max %v", policy.BaseDelay, policy.MaxDelay)
	}
}
