package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/ckeeney/maestro/pkg/models"
)

// Orchestrator coordinates the entire pipeline from request to response.
// It wires together: analyzer -> planner -> executor -> integrator.
type Orchestrator struct {
	registry   *Registry
	analyzer   Analyzer
	planner    Planner
	executor   Executor
	integrator Integrator
	store      Store
	emitter    *EventEmitter
	clock      func() time.Time
	timeout    time.Duration
	logger     *DebugLogger
}

// New creates an Orchestrator from the required configuration plus options.
// The registry is read-only for the lifetime of the orchestrator; callers
// register specialists before handing it over.
func New(cfg RequiredConfig, opts ...Option) (*Orchestrator, error) {
	if cfg.Registry == nil {
		return nil, fmt.Errorf("orchestrator: registry is required")
	}
	if cfg.Adapter == nil {
		return nil, fmt.Errorf("orchestrator: adapter is required")
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	logger := options.logger
	if logger == nil {
		logger = NopLogger()
	}
	setPackageLogger(logger)

	emitter := options.emitter
	if emitter == nil {
		emitter = NewEventEmitter(options.eventBuffer)
	}
	clock := options.clock
	if clock == nil {
		clock = time.Now
	}

	retry := RetryPolicy{
		MaxAttempts: options.maxRetries,
		BaseDelay:   options.retryBaseDelay,
		MaxDelay:    options.retryMaxDelay,
	}

	analyzer := options.analyzer
	if analyzer == nil {
		analyzer = NewRequestAnalyzer()
	}
	planner := options.planner
	if planner == nil {
		planner = NewPhasePlanner(cfg.Registry)
	}
	executor := options.executor
	if executor == nil {
		executor = NewPhaseExecutor(ExecutorConfig{
			Registry:      cfg.Registry,
			Adapter:       cfg.Adapter,
			Emitter:       emitter,
			Clock:         clock,
			Retry:         retry,
			MaxConcurrent: options.maxConcurrent,
		})
	}
	integrator := options.integrator
	if integrator == nil {
		integrator = NewWeightedIntegrator(cfg.Registry, options.attributeSources)
	}
	store := options.store
	if store == nil {
		store = NewMemoryStore()
	}

	return &Orchestrator{
		registry:   cfg.Registry,
		analyzer:   analyzer,
		planner:    planner,
		executor:   executor,
		integrator: integrator,
		store:      store,
		emitter:    emitter,
		clock:      clock,
		timeout:    options.timeout,
		logger:     logger,
	}, nil
}

// Respond runs the full pipeline for a single request:
//  1. Open a session and analyze the request
//  2. Build the phased execution plan
//  3. Execute the plan against the specialist adapter
//  4. Integrate the surviving outputs into one response
//
// Partial specialist failures are absorbed. The call fails only when
// planning is impossible or no specialist produced any output.
func (o *Orchestrator) Respond(ctx context.Context, req models.Request) (*models.Response, error) {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	sc, err := o.store.Create(req)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	o.emitter.Emit(Event{
		Type:      EventSessionStarted,
		SessionID: sc.ID,
		Timestamp: o.clock(),
	})
	debugLog("session %s started (input length %d)", sc.ID, len(req.Input))

	sc.Analysis = o.analyzer.Analyze(req)
	debugLog("session %s analyzed: complexity=%d tags=%v", sc.ID, sc.Analysis.Complexity, sc.Analysis.Tags)

	plan, err := o.planner.CreatePlan(sc)
	if err != nil {
		o.closeSession(sc, nil)
		return nil, err
	}
	sc.Plan = plan
	o.emitter.Emit(Event{
		Type:      EventPlanCreated,
		SessionID: sc.ID,
		Message:   fmt.Sprintf("%d steps across %d phases", len(plan.Steps), len(plan.Phases)),
		Timestamp: o.clock(),
	})

	results, err := o.executor.Execute(ctx, plan, sc)
	if err != nil {
		o.closeSession(sc, nil)
		return nil, err
	}

	resp, err := o.integrator.Integrate(results, sc)
	if err != nil {
		o.closeSession(sc, nil)
		return nil, err
	}
	o.emitter.Emit(Event{
		Type:       EventResponseReady,
		SessionID:  sc.ID,
		Confidence: resp.Confidence,
		Timestamp:  o.clock(),
	})

	o.closeSession(sc, resp)
	return resp, nil
}

func (o *Orchestrator) closeSession(sc *SessionContext, resp *models.Response) {
	if err := o.store.Close(sc, resp); err != nil {
		debugLog("close session %s: %v", sc.ID, err)
	}
	o.emitter.Emit(Event{
		Type:      EventSessionClosed,
		SessionID: sc.ID,
		Duration:  sc.Elapsed(),
		Timestamp: o.clock(),
	})
}

// Events returns the channel of pipeline events. Consumers should drain it
// promptly; the emitter drops events when the buffer stays full.
func (o *Orchestrator) Events() <-chan Event {
	return o.emitter.Events()
}

// Registry returns the specialist registry the orchestrator was built with.
func (o *Orchestrator) Registry() *Registry {
	return o.registry
}

// Close releases orchestrator resources. No Respond calls may be in flight.
func (o *Orchestrator) Close() {
	o.emitter.Close()
	if o.logger != nil {
		o.logger.Close()
	}
}
