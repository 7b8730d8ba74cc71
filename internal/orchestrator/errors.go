package orchestrator

import "fmt"

// DuplicateSpecialistError is returned by the registry when a
// specialist is registered under an ID that already exists.
type DuplicateSpecialistError struct {
	// ID is the specialist ID that was already registered.
	ID string
}

func (e *DuplicateSpecialistError) Error() string {
	return fmt.Sprintf("specialist %s is already registered", e.ID)
}

// AdapterError is returned by adapters when a specialist invocation
// fails. Retryable errors are retried with backoff; others fail the
// step immediately.
type AdapterError struct {
	// SpecialistID is the specialist whose invocation failed.
	SpecialistID string
	// Retryable indicates the failure is transient.
	Retryable bool
	// Err is the underlying cause.
	Err error
}

func (e *AdapterError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("adapter call for specialist %s failed: %v", e.SpecialistID, e.Err)
	}
	return fmt.Sprintf("adapter call for specialist %s failed", e.SpecialistID)
}

func (e *AdapterError) Unwrap() error {
	return e.Err
}

// StepExhaustedError records that a step gave up after exhausting its
// retry budget. It is stored on the step result, never returned from
// the execution pipeline.
type StepExhaustedError struct {
	// StepID is the plan step that gave up.
	StepID string
	// Attempts is how many attempts were made.
	Attempts int
	// Last is the error from the final attempt.
	Last error
}

func (e *StepExhaustedError) Error() string {
	return fmt.Sprintf("step %s exhausted %d attempts: %v", e.StepID, e.Attempts, e.Last)
}

func (e *StepExhaustedError) Unwrap() error {
	return e.Last
}

// NoSpecialistOutputError is returned when every step of a plan
// failed and there is nothing to fuse a response from.
type NoSpecialistOutputError struct {
	// SessionID is the session whose plan produced no output.
	SessionID string
}

func (e *NoSpecialistOutputError) Error() string {
	return fmt.Sprintf("no specialist produced output for session %s", e.SessionID)
}

// PlanConstructionError is returned when no plan can be built for a
// request, most commonly because no specialist is enabled.
type PlanConstructionError struct {
	// Reason describes why planning failed.
	Reason string
	// Err is the underlying cause, if any.
	Err error
}

func (e *PlanConstructionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot construct plan: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("cannot construct plan: %s", e.Reason)
}

func (e *PlanConstructionError) Unwrap() error {
	return e.Err
}
