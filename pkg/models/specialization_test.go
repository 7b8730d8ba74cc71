package models

import "testing"

func TestSpecialization_Valid(t *testing.T) {
	tests := []struct {
		name string
		spec Specialization
		want bool
	}{
		{"text is valid", SpecText, true},
		{"code is valid", SpecCode, true},
		{"data is valid", SpecData, true},
		{"multimodal is valid", SpecMultimodal, true},
		{"reasoning is valid", SpecReasoning, true},
		{"thinking is valid", SpecThinking, true},
		{"tool is valid", SpecTool, true},
		{"planning is valid", SpecPlanning, true},
		{"empty string is invalid", Specialization(""), false},
		{"unknown tag is invalid", Specialization("juggling"), false},
		{"typo tag is invalid", Specialization("textt"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.spec.Valid(); got != tt.want {
				t.Errorf("Specialization(%q).Valid() = %v, want %v", tt.spec, got, tt.want)
			}
		})
	}
}

func TestSpecialization_StringValues(t *testing.T) {
	tests := []struct {
		spec Specialization
		want string
	}{
		{SpecText, "text"},
		{SpecCode, "code"},
		{SpecData, "data"},
		{SpecMultimodal, "multimodal"},
		{SpecReasoning, "reasoning"},
		{SpecThinking, "thinking"},
		{SpecTool, "tool"},
		{SpecPlanning, "planning"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := string(tt.spec); got != tt.want {
				t.Errorf("string(Specialization) = %q, want %q", got, tt.want)
			}
		})
	}
}
