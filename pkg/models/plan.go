package models

import (
	"math"
	"time"
)

// IntegrationSpecialistID is the pseudo specialist ID carried by the
// integration step appended when more than one specialist participates.
// It never resolves to a registered specialist; the integrator owns it.
const IntegrationSpecialistID = "integration"

// IntegrationPriority orders the integration step after every
// dispatchable step. Lower priority runs earlier, so fusion carries
// the highest possible value.
const IntegrationPriority = math.MaxInt

// ExecutionStep is one unit of work in a plan: one specialist invoked
// during one phase.
type ExecutionStep struct {
	// ID uniquely identifies the step within its plan.
	ID string `json:"id"`
	// SpecialistID is the specialist that performs this step.
	SpecialistID string `json:"specialist_id"`
	// Phase is the pipeline stage this step belongs to.
	Phase Phase `json:"phase"`
	// DependsOn lists step IDs that must complete before this step.
	DependsOn []string `json:"depends_on,omitempty"`
	// Priority orders steps within a phase; lower runs first when capped.
	Priority int `json:"priority"`
}

// ExecutionPlan is the ordered set of steps answering one request.
// Steps are grouped by phase in pipeline order; dependencies only ever
// point at steps of the immediately preceding phase, so the plan is a
// layered acyclic graph by construction.
type ExecutionPlan struct {
	// Steps holds every dispatchable step in phase order.
	Steps []ExecutionStep `json:"steps"`
	// Integration is the fusion step appended when more than one
	// specialist participates. It is performed by the integrator, never
	// dispatched to an adapter. Nil for single-specialist plans.
	Integration *ExecutionStep `json:"integration,omitempty"`
	// Phases lists the phases this plan runs, in order.
	Phases []Phase `json:"phases"`
	// Complexity is the analyzer score the plan was built from.
	Complexity int `json:"complexity"`
}

// StepsInPhase returns the steps belonging to the phase, in plan order.
func (p *ExecutionPlan) StepsInPhase(phase Phase) []ExecutionStep {
	var steps []ExecutionStep
	for _, s := range p.Steps {
		if s.Phase == phase {
			steps = append(steps, s)
		}
	}
	return steps
}

// SpecialistIDs returns the distinct specialist IDs participating in
// the plan, in first-appearance order. The integration pseudo ID is
// not included.
func (p *ExecutionPlan) SpecialistIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, s := range p.Steps {
		if !seen[s.SpecialistID] {
			seen[s.SpecialistID] = true
			ids = append(ids, s.SpecialistID)
		}
	}
	return ids
}

// StepIDs returns every step ID in plan order.
func (p *ExecutionPlan) StepIDs() []string {
	ids := make([]string, 0, len(p.Steps))
	for _, s := range p.Steps {
		ids = append(ids, s.ID)
	}
	return ids
}

// StepResult is the outcome of executing one step.
type StepResult struct {
	// StepID is the plan step that produced this result.
	StepID string `json:"step_id"`
	// SpecialistID is the specialist that ran.
	SpecialistID string `json:"specialist_id"`
	// Phase is the phase the step ran in.
	Phase Phase `json:"phase"`
	// Content is the specialist's output text. Empty on failure.
	Content string `json:"content,omitempty"`
	// Confidence is the specialist's self-reported confidence in [0,1].
	Confidence float64 `json:"confidence"`
	// Err records why the step failed. Nil on success.
	Err error `json:"-"`
	// Duration is the wall time the step took, retries included.
	Duration time.Duration `json:"duration"`
}

// Succeeded returns true if the step produced usable output.
func (r StepResult) Succeeded() bool {
	return r.Err == nil
}
