package api

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/ckeeney/maestro/internal/orchestrator"
	"github.com/ckeeney/maestro/pkg/models"
)

// StaticAdapter answers specialist calls locally with deterministic
// canned output. It backs offline runs where no API key is configured
// and doubles as a fixture for exercising the full pipeline.
type StaticAdapter struct {
	// Delay simulates per-call latency when positive.
	Delay time.Duration
}

var _ orchestrator.Adapter = (*StaticAdapter)(nil)

// NewStaticAdapter creates a StaticAdapter with no artificial latency.
func NewStaticAdapter() *StaticAdapter {
	return &StaticAdapter{}
}

// Execute produces a deterministic answer derived from the specialist,
// the phase, and the request text.
func (a *StaticAdapter) Execute(ctx context.Context, in orchestrator.AdapterInput) (orchestrator.AdapterOutput, error) {
	if a.Delay > 0 {
		select {
		case <-time.After(a.Delay):
		case <-ctx.Done():
			return orchestrator.AdapterOutput{}, &orchestrator.AdapterError{
				SpecialistID: in.Specialist.ID,
				Retryable:    false,
				Err:          ctx.Err(),
			}
		}
	}

	input := in.Request.Input
	const maxEcho = 120
	if len(input) > maxEcho {
		// Back off to a rune boundary so the echo stays valid UTF-8.
		cut := maxEcho
		for cut > 0 && !utf8.RuneStart(input[cut]) {
			cut--
		}
		input = input[:cut] + "..."
	}

	confidence := in.Specialist.Weight
	if confidence <= 0 {
		confidence = 0.5
	} else if confidence > 1 {
		confidence = 1
	}

	return orchestrator.AdapterOutput{
		Content:    fmt.Sprintf("[%s] %s", in.Specialist.Name, staticAnswer(in.Phase, input)),
		Confidence: confidence,
	}, nil
}

// staticAnswer phrases the canned output per phase so multi-phase runs
// still read like a progression.
func staticAnswer(phase models.Phase, input string) string {
	switch phase {
	case models.PhaseAnalysis:
		return "the request asks: " + input
	case models.PhaseReasoning:
		return "working through the implications of: " + input
	case models.PhasePlanning:
		return "a plan for: " + input
	case models.PhaseExecution:
		return "carried out the legwork for: " + input
	case models.PhaseSynthesis:
		return "considering all findings, the answer to: " + input
	default:
		return input
	}
}
