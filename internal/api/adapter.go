package api

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/ckeeney/maestro/internal/orchestrator"
	"github.com/ckeeney/maestro/pkg/models"
)

// defaultMaxTokens bounds a specialist answer when the card sets no budget.
const defaultMaxTokens = 4096

// phaseInstructions steer a specialist's behavior for the phase its
// step runs in.
var phaseInstructions = map[models.Phase]string{
	models.PhaseAnalysis:  "Break the request down: what is being asked, the constraints, and the unknowns. Be concise.",
	models.PhaseReasoning: "Reason through the problem using the findings so far. Lay out the causal chain before the conclusion.",
	models.PhasePlanning:  "Produce a concrete, ordered plan for answering the request, building on the findings so far.",
	models.PhaseExecution: "Carry out the plan: perform the lookups, calculations, or transformations and report the outcomes.",
	models.PhaseSynthesis: "Fuse everything above into the single best final answer. No meta commentary.",
}

// ClaudeAdapter invokes specialists through the Anthropic Messages
// API. One adapter serves the whole roster; each call resolves the
// model and token budget from the specialist card.
type ClaudeAdapter struct {
	client *Client
}

var _ orchestrator.Adapter = (*ClaudeAdapter)(nil)

// NewClaudeAdapter creates a ClaudeAdapter over the client.
func NewClaudeAdapter(client *Client) *ClaudeAdapter {
	return &ClaudeAdapter{client: client}
}

// Execute runs one specialist step. API failures come back as
// *orchestrator.AdapterError with Retryable set for throttling and
// server-side errors, so the executor can back off and retry.
func (a *ClaudeAdapter) Execute(ctx context.Context, in orchestrator.AdapterInput) (orchestrator.AdapterOutput, error) {
	maxTokens := in.Specialist.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	resp, err := a.client.sdk().Messages.New(ctx, anthropic.MessageNewParams{
		Model:     a.client.ModelForSpecialist(in.Specialist),
		MaxTokens: maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt(in.Specialist, in.Phase)},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(in.Prompt)),
		},
	})
	if err != nil {
		return orchestrator.AdapterOutput{}, &orchestrator.AdapterError{
			SpecialistID: in.Specialist.ID,
			Retryable:    retryable(err),
			Err:          err,
		}
	}

	a.client.Tracker().Add(resp.Usage.InputTokens, resp.Usage.OutputTokens)

	var b strings.Builder
	for _, block := range resp.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			b.WriteString(variant.Text)
		}
	}
	content := b.String()
	if content == "" {
		return orchestrator.AdapterOutput{}, &orchestrator.AdapterError{
			SpecialistID: in.Specialist.ID,
			Retryable:    false,
			Err:          fmt.Errorf("response contained no text"),
		}
	}

	return orchestrator.AdapterOutput{
		Content:    content,
		Confidence: confidenceFor(resp.StopReason),
	}, nil
}

// systemPrompt builds the per-call system prompt from the specialist
// card and the phase instruction.
func systemPrompt(s models.Specialist, phase models.Phase) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s, a specialist consulted for %s.", s.Name, describeSpecializations(s.Specializations))
	if instruction, ok := phaseInstructions[phase]; ok {
		b.WriteString("\n\n")
		b.WriteString(instruction)
	}
	return b.String()
}

func describeSpecializations(tags []models.Specialization) string {
	if len(tags) == 0 {
		return "general questions"
	}
	parts := make([]string, len(tags))
	for i, tag := range tags {
		parts[i] = string(tag)
	}
	return strings.Join(parts, ", ")
}

// confidenceFor derives a coarse confidence from how the model
// stopped. A truncated answer is worth less than a finished one.
func confidenceFor(reason anthropic.StopReason) float64 {
	switch reason {
	case anthropic.StopReasonEndTurn, anthropic.StopReasonStopSequence:
		return 0.85
	case anthropic.StopReasonMaxTokens:
		return 0.4
	default:
		return 0.6
	}
}

// retryable classifies an API failure. Throttling and server-side
// errors are transient; client errors and canceled contexts are not.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 408, 429, 500, 502, 503, 504, 529:
			return true
		}
		return false
	}

	// Network-level failure without a status: worth another attempt.
	return true
}
