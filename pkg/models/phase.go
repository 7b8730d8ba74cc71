package models

// Phase identifies one stage of an execution plan. Phases run as
// sequential barriers; steps inside a phase run concurrently.
type Phase string

const (
	// PhaseAnalysis is the initial read of the request.
	PhaseAnalysis Phase = "analysis"
	// PhaseReasoning works through causes and implications.
	PhaseReasoning Phase = "reasoning"
	// PhasePlanning lays out a multi-step approach.
	PhasePlanning Phase = "planning"
	// PhaseExecution performs lookups, calculations, and tool work.
	PhaseExecution Phase = "execution"
	// PhaseSynthesis produces the material the final response is fused from.
	PhaseSynthesis Phase = "synthesis"
)

// Valid returns true if the phase is a known value.
func (p Phase) Valid() bool {
	switch p {
	case PhaseAnalysis, PhaseReasoning, PhasePlanning, PhaseExecution, PhaseSynthesis:
		return true
	default:
		return false
	}
}

// AllPhases returns every phase in canonical pipeline order.
func AllPhases() []Phase {
	return []Phase{PhaseAnalysis, PhaseReasoning, PhasePlanning, PhaseExecution, PhaseSynthesis}
}
