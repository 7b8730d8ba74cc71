package orchestrator

import (
	"time"

	"github.com/ckeeney/maestro/pkg/models"
)

// EventType represents the type of orchestrator event.
type EventType string

const (
	// EventSessionStarted indicates a session has been created for a request.
	EventSessionStarted EventType = "session_started"
	// EventPlanCreated indicates an execution plan was constructed.
	EventPlanCreated EventType = "plan_created"
	// EventPhaseStarted indicates a phase barrier has opened.
	EventPhaseStarted EventType = "phase_started"
	// EventPhaseCompleted indicates every step of a phase has settled.
	EventPhaseCompleted EventType = "phase_completed"
	// EventStepStarted indicates a step has been dispatched to its adapter.
	EventStepStarted EventType = "step_started"
	// EventStepCompleted indicates a step produced output.
	EventStepCompleted EventType = "step_completed"
	// EventStepFailed indicates a step failed and was absorbed.
	EventStepFailed EventType = "step_failed"
	// EventStepRetrying indicates a step hit a transient failure and will retry.
	EventStepRetrying EventType = "step_retrying"
	// EventExecutionDegraded indicates the deadline cut execution short.
	EventExecutionDegraded EventType = "execution_degraded"
	// EventResponseReady indicates the fused response is available.
	EventResponseReady EventType = "response_ready"
	// EventSessionClosed indicates the session is finished.
	EventSessionClosed EventType = "session_closed"
)

// Event represents an observable moment in the pipeline.
// Subscribers receive these through the orchestrator's Events channel.
type Event struct {
	// Type is the kind of event.
	Type EventType
	// SessionID is the session the event belongs to.
	SessionID string
	// StepID is the ID of the related step, if applicable.
	StepID string
	// SpecialistID is the ID of the related specialist, if applicable.
	SpecialistID string
	// Phase is the related phase, if applicable.
	Phase models.Phase
	// Message provides additional context about the event.
	Message string
	// Error contains error details for failure events.
	Error error
	// Timestamp is when the event occurred.
	Timestamp time.Time
	// Attempt is the attempt number for retry events.
	Attempt int
	// Confidence is the reported confidence for completion events.
	Confidence float64
	// Duration is the elapsed time for completion events.
	Duration time.Duration
}
