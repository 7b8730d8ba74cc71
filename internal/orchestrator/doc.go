// Package orchestrator coordinates multiple specialists answering one request.
//
// The orchestrator package provides functionality for:
//   - Request analysis: Classifying a request into capability tags and a complexity score
//   - Planning: Selecting specialists and laying their work out in dependency-ordered phases
//   - Execution: Running each phase's steps concurrently with retry and failure absorption
//   - Integration: Fusing the surviving outputs into one response with a weighted confidence
//
// Phases act as barriers: every step of a phase settles before the next
// phase starts, and results are merged into the session context between
// phases so later steps see a consistent transcript. A step failure is
// recorded on its result and absorbed; only a plan where every step
// failed escalates as an error.
//
// Example usage:
//
//	registry := orchestrator.NewRegistry()
//	registry.Register(models.Specialist{ID: "analyst", Weight: 0.8, Enabled: true})
//	orch, err := orchestrator.New(orchestrator.RequiredConfig{
//		Registry: registry,
//		Adapter:  adapter,
//	}, orchestrator.WithMaxConcurrent(4))
//	resp, err := orch.Respond(ctx, models.Request{Input: "Compare A and B"})
package orchestrator
