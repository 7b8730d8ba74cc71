package models

import "testing"

func TestPhase_Valid(t *testing.T) {
	tests := []struct {
		name  string
		phase Phase
		want  bool
	}{
		{"analysis is valid", PhaseAnalysis, true},
		{"reasoning is valid", PhaseReasoning, true},
		{"planning is valid", PhasePlanning, true},
		{"execution is valid", PhaseExecution, true},
		{"synthesis is valid", PhaseSynthesis, true},
		{"empty string is invalid", Phase(""), false},
		{"unknown phase is invalid", Phase("review"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.phase.Valid(); got != tt.want {
				t.Errorf("Phase(%q).Valid() = %v, want %v", tt.phase, got, tt.want)
			}
		})
	}
}

func TestAllPhases_Order(t *testing.T) {
	want := []Phase{PhaseAnalysis, PhaseReasoning, PhasePlanning, PhaseExecution, PhaseSynthesis}
	got := AllPhases()

	if len(got) != len(want) {
		t.Fatalf("AllPhases() returned %d phases, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("AllPhases()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestAllPhases_AllValid(t *testing.T) {
	for _, p := range AllPhases() {
		if !p.Valid() {
			t.Errorf("AllPhases() contains invalid phase %q", p)
		}
	}
}
