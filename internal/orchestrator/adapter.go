package orchestrator

import (
	"context"

	"github.com/ckeeney/maestro/pkg/models"
)

// AdapterInput is everything an adapter needs to invoke one specialist
// for one step: the specialist card, the assembled prompt, and the
// phase the step runs in.
type AdapterInput struct {
	// Specialist is the card of the specialist being invoked.
	Specialist models.Specialist
	// Prompt is the assembled input: the original request plus the
	// transcript of prior-phase results.
	Prompt string
	// Phase is the phase this invocation belongs to.
	Phase models.Phase
	// Request is the original request, for adapters that need
	// attachments or caller context.
	Request models.Request
}

// AdapterOutput is one specialist's answer for one step.
type AdapterOutput struct {
	// Content is the specialist's output text.
	Content string
	// Confidence is the specialist's self-reported confidence in [0,1].
	Confidence float64
}

// Adapter invokes a specialist. Failures should be returned as
// *AdapterError so the executor can tell transient failures from
// permanent ones.
type Adapter interface {
	Execute(ctx context.Context, in AdapterInput) (AdapterOutput, error)
}

// AdapterFunc adapts a function to the Adapter interface.
type AdapterFunc func(ctx context.Context, in AdapterInput) (AdapterOutput, error)

// Execute calls f.
func (f AdapterFunc) Execute(ctx context.Context, in AdapterInput) (AdapterOutput, error) {
	return f(ctx, in)
}
