package models

import (
	"errors"
	"testing"
)

func twoPhasePlan() *ExecutionPlan {
	return &ExecutionPlan{
		Steps: []ExecutionStep{
			{ID: "analysis-alpha", SpecialistID: "alpha", Phase: PhaseAnalysis},
			{ID: "analysis-beta", SpecialistID: "beta", Phase: PhaseAnalysis},
			{ID: "synthesis-alpha", SpecialistID: "alpha", Phase: PhaseSynthesis, DependsOn: []string{"analysis-alpha", "analysis-beta"}},
		},
		Phases:     []Phase{PhaseAnalysis, PhaseSynthesis},
		Complexity: 3,
	}
}

func TestExecutionPlan_StepsInPhase(t *testing.T) {
	plan := twoPhasePlan()

	analysis := plan.StepsInPhase(PhaseAnalysis)
	if len(analysis) != 2 {
		t.Fatalf("StepsInPhase(analysis) returned %d steps, want 2", len(analysis))
	}
	if analysis[0].ID != "analysis-alpha" || analysis[1].ID != "analysis-beta" {
		t.Errorf("analysis steps out of plan order: %q, %q", analysis[0].ID, analysis[1].ID)
	}

	synthesis := plan.StepsInPhase(PhaseSynthesis)
	if len(synthesis) != 1 {
		t.Fatalf("StepsInPhase(synthesis) returned %d steps, want 1", len(synthesis))
	}

	if got := plan.StepsInPhase(PhaseExecution); got != nil {
		t.Errorf("StepsInPhase(execution) = %v, want nil for absent phase", got)
	}
}

func TestExecutionPlan_SpecialistIDs(t *testing.T) {
	plan := twoPhasePlan()

	ids := plan.SpecialistIDs()
	if len(ids) != 2 {
		t.Fatalf("SpecialistIDs() returned %d ids, want 2", len(ids))
	}
	if ids[0] != "alpha" || ids[1] != "beta" {
		t.Errorf("SpecialistIDs() = %v, want [alpha beta] in first-appearance order", ids)
	}
}

func TestExecutionPlan_StepIDs(t *testing.T) {
	plan := twoPhasePlan()

	ids := plan.StepIDs()
	want := []string{"analysis-alpha", "analysis-beta", "synthesis-alpha"}
	if len(ids) != len(want) {
		t.Fatalf("StepIDs() returned %d ids, want %d", len(ids), len(want))
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("StepIDs()[%d] = %q, want %q", i, ids[i], want[i])
		}
	}
}

func TestStepResult_Succeeded(t *testing.T) {
	ok := StepResult{SpecialistID: "alpha", Phase: PhaseAnalysis, Content: "fine", Confidence: 0.9}
	if !ok.Succeeded() {
		t.Error("result without error should have succeeded")
	}

	failed := StepResult{SpecialistID: "beta", Phase: PhaseAnalysis, Err: errors.New("adapter down")}
	if failed.Succeeded() {
		t.Error("result with error should not have succeeded")
	}
}
