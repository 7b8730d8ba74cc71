package orchestrator

import (
	"fmt"
	"sort"

	"github.com/ckeeney/maestro/internal/graph"
	"github.com/ckeeney/maestro/pkg/models"
)

// Planner builds an execution plan for an analyzed request.
type Planner interface {
	CreatePlan(sc *SessionContext) (*models.ExecutionPlan, error)
}

// PhasePlanner is the default planner. It picks candidate specialists
// by analysis tags, widens to the full enabled roster when nothing
// matches, and lays steps out in complexity-driven phases where each
// phase depends on the whole phase before it.
type PhasePlanner struct {
	registry *Registry
}

var _ Planner = (*PhasePlanner)(nil)

// NewPhasePlanner creates a PhasePlanner over the registry.
func NewPhasePlanner(registry *Registry) *PhasePlanner {
	return &PhasePlanner{registry: registry}
}

// CreatePlan builds the plan for the session's request and analysis.
// Returns a PlanConstructionError when no specialist is enabled.
// A returned plan always contains at least one step.
func (p *PhasePlanner) CreatePlan(sc *SessionContext) (*models.ExecutionPlan, error) {
	enabled := p.registry.Enabled()
	if len(enabled) == 0 {
		return nil, &PlanConstructionError{Reason: "no specialists enabled"}
	}

	candidates := filterByTags(enabled, sc.Analysis.Tags)
	if len(candidates) == 0 {
		// Nothing matched the detected tags. Widen to the full enabled
		// roster rather than failing the request.
		debugLog("[planner] no tag match for session %s, widening to all %d enabled specialists", sc.ID, len(enabled))
		candidates = enabled
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Priority < candidates[j].Priority
	})

	phases := phasesForComplexity(sc.Analysis.Complexity)

	var steps []models.ExecutionStep
	var prevIDs []string
	for _, phase := range phases {
		selected := p.selectForPhase(phase, candidates)
		phaseIDs := make([]string, 0, len(selected))
		for _, s := range selected {
			step := models.ExecutionStep{
				ID:           stepID(phase, s.ID),
				SpecialistID: s.ID,
				Phase:        phase,
				DependsOn:    append([]string(nil), prevIDs...),
				Priority:     s.Priority,
			}
			steps = append(steps, step)
			phaseIDs = append(phaseIDs, step.ID)
		}
		prevIDs = phaseIDs
	}

	plan := &models.ExecutionPlan{
		Steps:      steps,
		Phases:     phases,
		Complexity: sc.Analysis.Complexity,
	}

	if len(plan.SpecialistIDs()) > 1 {
		plan.Integration = &models.ExecutionStep{
			ID:           models.IntegrationSpecialistID,
			SpecialistID: models.IntegrationSpecialistID,
			Phase:        models.PhaseSynthesis,
			DependsOn:    plan.StepIDs(),
			Priority:     models.IntegrationPriority,
		}
	}

	if err := validatePlan(plan); err != nil {
		return nil, &PlanConstructionError{Reason: "plan failed validation", Err: err}
	}

	debugLog("[planner] session %s: complexity %d, %d phases, %d steps, integration=%v",
		sc.ID, plan.Complexity, len(plan.Phases), len(plan.Steps), plan.Integration != nil)

	return plan, nil
}

// selectForPhase picks which candidates run in a phase. Analysis takes
// everyone; reasoning, planning, and execution prefer specialists
// tagged for the phase and fall back to everyone; synthesis takes the
// two heaviest.
func (p *PhasePlanner) selectForPhase(phase models.Phase, candidates []models.Specialist) []models.Specialist {
	switch phase {
	case models.PhaseAnalysis:
		return candidates
	case models.PhaseReasoning:
		return tagged(candidates, models.SpecReasoning, models.SpecThinking)
	case models.PhasePlanning:
		return tagged(candidates, models.SpecPlanning)
	case models.PhaseExecution:
		return tagged(candidates, models.SpecTool)
	case models.PhaseSynthesis:
		return topByWeight(candidates, 2)
	default:
		return candidates
	}
}

// filterByTags returns the specialists whose specializations intersect
// the tags, keeping input order.
func filterByTags(specialists []models.Specialist, tags []models.Specialization) []models.Specialist {
	var matched []models.Specialist
	for _, s := range specialists {
		for _, tag := range tags {
			if s.HasSpecialization(tag) {
				matched = append(matched, s)
				break
			}
		}
	}
	return matched
}

// tagged returns the candidates carrying any of the tags, or every
// candidate when none carries one.
func tagged(candidates []models.Specialist, tags ...models.Specialization) []models.Specialist {
	var matched []models.Specialist
	for _, s := range candidates {
		for _, tag := range tags {
			if s.HasSpecialization(tag) {
				matched = append(matched, s)
				break
			}
		}
	}
	if len(matched) == 0 {
		return candidates
	}
	return matched
}

// topByWeight returns the n heaviest candidates, stable for ties.
func topByWeight(candidates []models.Specialist, n int) []models.Specialist {
	sorted := make([]models.Specialist, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Weight > sorted[j].Weight
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// phasesForComplexity maps the complexity score to the phases the plan
// runs. Harder requests pass through more phases.
func phasesForComplexity(complexity int) []models.Phase {
	switch {
	case complexity < 2:
		return []models.Phase{models.PhaseAnalysis}
	case complexity < 4:
		return []models.Phase{models.PhaseAnalysis, models.PhaseSynthesis}
	case complexity < 7:
		return []models.Phase{models.PhaseAnalysis, models.PhaseReasoning, models.PhaseSynthesis}
	default:
		return models.AllPhases()
	}
}

// stepID builds the plan-unique ID for a step.
func stepID(phase models.Phase, specialistID string) string {
	return fmt.Sprintf("%s-%s", phase, specialistID)
}

// validatePlan checks the layered-graph invariant: every dependency
// resolves and no cycle exists.
func validatePlan(plan *models.ExecutionPlan) error {
	steps := plan.Steps
	if plan.Integration != nil {
		steps = append(append([]models.ExecutionStep(nil), plan.Steps...), *plan.Integration)
	}

	g := graph.New()
	g.SetDebugLog(debugLog)
	return g.Build(steps)
}
