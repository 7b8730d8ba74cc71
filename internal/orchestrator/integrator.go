package orchestrator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ckeeney/maestro/pkg/models"
)

// Integrator fuses step results into the final response.
type Integrator interface {
	Integrate(results []models.StepResult, sc *SessionContext) (*models.Response, error)
}

// WeightedIntegrator is the default integrator. Confidence is the
// weight-averaged confidence of the contributing specialists; content
// is fused from synthesis output when the plan carried an integration
// step, and concatenated by weight otherwise.
type WeightedIntegrator struct {
	registry *Registry
	// attributeSources prefixes each fused section with the name of
	// the specialist that wrote it.
	attributeSources bool
}

var _ Integrator = (*WeightedIntegrator)(nil)

// NewWeightedIntegrator creates a WeightedIntegrator over the registry.
func NewWeightedIntegrator(registry *Registry, attributeSources bool) *WeightedIntegrator {
	return &WeightedIntegrator{
		registry:         registry,
		attributeSources: attributeSources,
	}
}

// Integrate builds the response from the successful results. Failed
// steps contribute nothing. Returns a NoSpecialistOutputError when no
// result succeeded.
func (i *WeightedIntegrator) Integrate(results []models.StepResult, sc *SessionContext) (*models.Response, error) {
	var successful []models.StepResult
	for _, res := range results {
		if res.Succeeded() {
			successful = append(successful, res)
		}
	}
	if len(successful) == 0 {
		return nil, &NoSpecialistOutputError{SessionID: sc.ID}
	}

	resp := &models.Response{
		Content:    i.fuseContent(successful, sc),
		Confidence: i.fuseConfidence(successful),
		Metadata: models.ResponseMetadata{
			ModelsUsed:       i.modelsUsed(successful),
			ProcessingTimeMS: sc.Elapsed().Milliseconds(),
			SessionID:        sc.ID,
			Degraded:         sc.Degraded,
		},
	}
	if sc.Plan != nil {
		resp.Metadata.PhaseCount = len(sc.Plan.Phases)
		resp.Metadata.StepCount = len(sc.Plan.Steps)
	}

	debugLog("[integrator] session %s: fused %d results, confidence %.3f", sc.ID, len(successful), resp.Confidence)
	return resp, nil
}

// fuseConfidence computes the weighted average confidence over the
// results whose specialist carries positive weight. When no weight is
// in play the confidence is the neutral 0.5. The result is always
// within [0,1].
func (i *WeightedIntegrator) fuseConfidence(results []models.StepResult) float64 {
	var weightedSum, totalWeight float64
	for _, res := range results {
		weight := i.weightOf(res.SpecialistID)
		if weight <= 0 {
			continue
		}
		weightedSum += clamp01(res.Confidence) * weight
		totalWeight += weight
	}

	if totalWeight == 0 {
		return 0.5
	}
	return clamp01(weightedSum / totalWeight)
}

// fuseContent assembles the response body.
func (i *WeightedIntegrator) fuseContent(successful []models.StepResult, sc *SessionContext) string {
	// A single participating specialist needs no fusion: its
	// latest-phase output is the answer.
	if sc.Plan != nil && sc.Plan.Integration == nil {
		return successful[len(successful)-1].Content
	}

	var synthesis []models.StepResult
	for _, res := range successful {
		if res.Phase == models.PhaseSynthesis {
			synthesis = append(synthesis, res)
		}
	}

	if len(synthesis) > 0 {
		return i.joinByWeight(synthesis)
	}

	// No synthesis output survived; concatenate what exists, heaviest
	// specialist first.
	return i.joinByWeight(successful)
}

// joinByWeight joins result contents ordered by specialist weight
// descending, stable for ties. Empty outputs are skipped. Sections get
// a specialist heading only when attribution is on.
func (i *WeightedIntegrator) joinByWeight(results []models.StepResult) string {
	ordered := make([]models.StepResult, len(results))
	copy(ordered, results)
	sort.SliceStable(ordered, func(a, b int) bool {
		return i.weightOf(ordered[a].SpecialistID) > i.weightOf(ordered[b].SpecialistID)
	})

	var b strings.Builder
	for _, res := range ordered {
		if res.Content == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		if i.attributeSources {
			name := res.SpecialistID
			if s, ok := i.registry.Get(res.SpecialistID); ok {
				name = s.Name
			}
			fmt.Fprintf(&b, "## %s\n\n", name)
		}
		b.WriteString(res.Content)
	}
	return b.String()
}

// modelsUsed returns the distinct models behind the results, in first
// contribution order.
func (i *WeightedIntegrator) modelsUsed(results []models.StepResult) []string {
	seen := make(map[string]bool)
	var used []string
	for _, res := range results {
		s, ok := i.registry.Get(res.SpecialistID)
		if !ok || s.Model == "" {
			continue
		}
		if !seen[s.Model] {
			seen[s.Model] = true
			used = append(used, s.Model)
		}
	}
	return used
}

// weightOf returns the registered weight for a specialist, 0 when the
// specialist is unknown.
func (i *WeightedIntegrator) weightOf(specialistID string) float64 {
	s, ok := i.registry.Get(specialistID)
	if !ok {
		return 0
	}
	return s.Weight
}

// clamp01 clamps v into [0,1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
