package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ckeeney/maestro/internal/graph"
	"github.com/ckeeney/maestro/pkg/models"
)

// Executor runs an execution plan against a session.
type Executor interface {
	Execute(ctx context.Context, plan *models.ExecutionPlan, sc *SessionContext) ([]models.StepResult, error)
}

// ExecutorConfig carries the collaborators a PhaseExecutor needs.
type ExecutorConfig struct {
	// Registry resolves specialist IDs to cards.
	Registry *Registry
	// Adapter invokes specialists.
	Adapter Adapter
	// Emitter receives lifecycle events. May be nil.
	Emitter *EventEmitter
	// Clock is the time source for event timestamps and step
	// durations. Nil means time.Now.
	Clock func() time.Time
	// Retry controls backoff for transient adapter failures.
	Retry RetryPolicy
	// MaxConcurrent caps how many steps of one phase run at once.
	// Zero means no cap.
	MaxConcurrent int
}

// PhaseExecutor runs plans phase by phase. Phases are sequential
// barriers; the steps inside a phase run concurrently up to the
// configured cap. Step failures are absorbed into their results and
// never abort the phase.
type PhaseExecutor struct {
	registry      *Registry
	adapter       Adapter
	emitter       *EventEmitter
	clock         func() time.Time
	retry         RetryPolicy
	maxConcurrent int
}

var _ Executor = (*PhaseExecutor)(nil)

// NewPhaseExecutor creates a PhaseExecutor from the config.
func NewPhaseExecutor(cfg ExecutorConfig) *PhaseExecutor {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &PhaseExecutor{
		registry:      cfg.Registry,
		adapter:       cfg.Adapter,
		emitter:       cfg.Emitter,
		clock:         clock,
		retry:         cfg.Retry,
		maxConcurrent: cfg.MaxConcurrent,
	}
}

// Execute runs the plan. Dispatch is gated by the plan's dependency
// graph: a phase runs the steps whose dependencies have all settled,
// and settled steps (failed ones included) release the phase behind
// them. After each phase the results are merged into the session
// context single-threaded, so steps of the next phase see a consistent
// snapshot of everything before them.
//
// When the context expires mid-plan, no further phases are launched and
// the results gathered so far are kept; the session is marked degraded.
// If every step of the plan failed, Execute returns a
// NoSpecialistOutputError.
func (e *PhaseExecutor) Execute(ctx context.Context, plan *models.ExecutionPlan, sc *SessionContext) ([]models.StepResult, error) {
	g := graph.New()
	g.SetDebugLog(debugLog)
	if err := g.Build(plan.Steps); err != nil {
		return nil, fmt.Errorf("build step graph: %w", err)
	}
	debugLog("[executor] session %s: step graph holds %d steps", sc.ID, g.Size())

	var all []models.StepResult

	for _, phase := range plan.Phases {
		if ctx.Err() != nil {
			sc.Degraded = true
			e.emit(Event{
				Type:      EventExecutionDegraded,
				SessionID: sc.ID,
				Phase:     phase,
				Message:   fmt.Sprintf("deadline reached before phase %s", phase),
				Error:     ctx.Err(),
				Timestamp: e.clock(),
			})
			debugLog("[executor] session %s: degraded before phase %s: %v", sc.ID, phase, ctx.Err())
			break
		}

		steps := readySteps(g, phase)
		if len(steps) == 0 {
			continue
		}

		e.emit(Event{Type: EventPhaseStarted, SessionID: sc.ID, Phase: phase, Timestamp: e.clock()})
		phaseStart := e.clock()

		results := e.runPhase(ctx, steps, sc)

		// Every settled step unblocks its dependents, absorbed
		// failures included.
		for _, res := range results {
			g.MarkComplete(res.StepID)
		}

		// Barrier merge: single-threaded, after every step settled.
		sc.MergeResults(results)
		all = append(all, results...)

		e.emit(Event{
			Type:      EventPhaseCompleted,
			SessionID: sc.ID,
			Phase:     phase,
			Duration:  e.clock().Sub(phaseStart),
			Timestamp: e.clock(),
		})
	}

	succeeded := 0
	for _, res := range all {
		if res.Succeeded() {
			succeeded++
		}
	}
	debugLog("[executor] session %s: %d/%d steps succeeded", sc.ID, succeeded, len(all))

	if succeeded == 0 {
		return all, &NoSpecialistOutputError{SessionID: sc.ID}
	}
	return all, nil
}

// runPhase runs one phase's steps concurrently and returns their
// results. Launch order follows step priority; every goroutine returns
// nil so one failed step never cancels its siblings.
func (e *PhaseExecutor) runPhase(ctx context.Context, steps []models.ExecutionStep, sc *SessionContext) []models.StepResult {
	ordered := make([]models.ExecutionStep, len(steps))
	copy(ordered, steps)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority < ordered[j].Priority
	})

	results := make([]models.StepResult, len(ordered))
	g, gctx := errgroup.WithContext(ctx)
	if e.maxConcurrent > 0 {
		g.SetLimit(e.maxConcurrent)
	}

	for i, step := range ordered {
		g.Go(func() error {
			results[i] = e.runStep(gctx, step, sc)
			return nil
		})
	}
	_ = g.Wait() // no goroutine returns an error

	return results
}

// readySteps resolves the graph's ready set to the steps of one phase,
// in step ID order for deterministic dispatch. Ready steps of other
// phases wait for their own phase's turn.
func readySteps(g *graph.StepGraph, phase models.Phase) []models.ExecutionStep {
	ids := g.Ready()
	sort.Strings(ids)

	var steps []models.ExecutionStep
	for _, id := range ids {
		step, ok := g.Step(id)
		if !ok || step.Phase != phase {
			continue
		}
		steps = append(steps, step)
	}
	return steps
}

// runStep invokes one step's specialist, retrying transient adapter
// failures with capped exponential backoff. The returned result carries
// the failure instead of propagating it.
func (e *PhaseExecutor) runStep(ctx context.Context, step models.ExecutionStep, sc *SessionContext) models.StepResult {
	start := e.clock()
	result := models.StepResult{
		StepID:       step.ID,
		SpecialistID: step.SpecialistID,
		Phase:        step.Phase,
	}

	specialist, ok := e.registry.Get(step.SpecialistID)
	if !ok {
		result.Err = fmt.Errorf("specialist %s is not registered", step.SpecialistID)
		result.Duration = e.clock().Sub(start)
		e.emitStepFailed(sc, step, result.Err)
		return result
	}

	input := AdapterInput{
		Specialist: specialist,
		Prompt:     buildPrompt(sc, step),
		Phase:      step.Phase,
		Request:    sc.Request,
	}

	e.emit(Event{
		Type:         EventStepStarted,
		SessionID:    sc.ID,
		StepID:       step.ID,
		SpecialistID: step.SpecialistID,
		Phase:        step.Phase,
		Timestamp:    e.clock(),
	})

	var out AdapterOutput
	var err error
	attempt := 1
retryLoop:
	for {
		out, err = e.adapter.Execute(ctx, input)
		if err == nil {
			break
		}

		if e.retry.Decide(err, attempt) != RetryStep {
			// Permanent for this step. If the budget ran out on a
			// transient failure, record the exhaustion.
			var adapterErr *AdapterError
			if errors.As(err, &adapterErr) && adapterErr.Retryable {
				err = &StepExhaustedError{StepID: step.ID, Attempts: attempt, Last: err}
			}
			break
		}

		e.emit(Event{
			Type:         EventStepRetrying,
			SessionID:    sc.ID,
			StepID:       step.ID,
			SpecialistID: step.SpecialistID,
			Phase:        step.Phase,
			Attempt:      attempt,
			Error:        err,
			Timestamp:    e.clock(),
		})
		debugLog("[executor] step %s: attempt %d failed transiently, backing off: %v", step.ID, attempt, err)

		select {
		case <-ctx.Done():
			err = ctx.Err()
			break retryLoop
		case <-time.After(e.retry.Backoff(attempt)):
		}
		attempt++
	}

	result.Duration = e.clock().Sub(start)

	if err != nil {
		result.Err = err
		e.emitStepFailed(sc, step, err)
		return result
	}

	result.Content = out.Content
	result.Confidence = out.Confidence
	e.emit(Event{
		Type:         EventStepCompleted,
		SessionID:    sc.ID,
		StepID:       step.ID,
		SpecialistID: step.SpecialistID,
		Phase:        step.Phase,
		Confidence:   out.Confidence,
		Duration:     result.Duration,
		Timestamp:    e.clock(),
	})
	return result
}

// emitStepFailed reports an absorbed step failure.
func (e *PhaseExecutor) emitStepFailed(sc *SessionContext, step models.ExecutionStep, err error) {
	e.emit(Event{
		Type:         EventStepFailed,
		SessionID:    sc.ID,
		StepID:       step.ID,
		SpecialistID: step.SpecialistID,
		Phase:        step.Phase,
		Error:        err,
		Timestamp:    e.clock(),
	})
}

// emit forwards an event when an emitter is configured.
func (e *PhaseExecutor) emit(event Event) {
	if e.emitter != nil {
		e.emitter.Emit(event)
	}
}

// buildPrompt assembles the adapter input for a step: the original
// request followed by the transcript of successful results from the
// phases already merged. Steps inside one phase never see each other's
// output because merging happens at the barrier.
func buildPrompt(sc *SessionContext, step models.ExecutionStep) string {
	prior := sc.SuccessfulResults()
	if len(prior) == 0 {
		return sc.Request.Input
	}

	var b strings.Builder
	b.WriteString(sc.Request.Input)
	b.WriteString("\n\n--- Findings so far ---\n")
	for _, res := range prior {
		fmt.Fprintf(&b, "\n[%s during %s]\n%s\n", res.SpecialistID, res.Phase, res.Content)
	}
	return b.String()
}
