package orchestrator

import "time"

// RequiredConfig contains the minimal required configuration for an
// Orchestrator. All fields are required and have no defaults.
type RequiredConfig struct {
	// Registry holds the specialist roster.
	Registry *Registry
	// Adapter invokes specialists.
	Adapter Adapter
}

// Option configures an Orchestrator. Use With* functions to create Options.
type Option func(*orchestratorOptions)

// orchestratorOptions holds all optional configuration.
type orchestratorOptions struct {
	maxConcurrent    int
	maxRetries       int
	retryBaseDelay   time.Duration
	retryMaxDelay    time.Duration
	timeout          time.Duration
	attributeSources bool
	eventBuffer      int
	emitter          *EventEmitter
	clock            func() time.Time
	logger           *DebugLogger
	store            Store

	// Injectable pipeline stages for testing
	analyzer   Analyzer
	planner    Planner
	executor   Executor
	integrator Integrator
}

// defaultOptions returns the options used before any Option runs.
func defaultOptions() *orchestratorOptions {
	retry := DefaultRetryPolicy()
	return &orchestratorOptions{
		maxConcurrent:  4,
		maxRetries:     retry.MaxAttempts,
		retryBaseDelay: retry.BaseDelay,
		retryMaxDelay:  retry.MaxDelay,
		eventBuffer:    100,
	}
}

// WithMaxConcurrent sets how many steps of one phase may run at once.
func WithMaxConcurrent(n int) Option {
	return func(o *orchestratorOptions) { o.maxConcurrent = n }
}

// WithMaxRetries sets the total attempts per step, including the first.
func WithMaxRetries(n int) Option {
	return func(o *orchestratorOptions) { o.maxRetries = n }
}

// WithRetryBaseDelay sets the backoff before the second attempt.
func WithRetryBaseDelay(d time.Duration) Option {
	return func(o *orchestratorOptions) { o.retryBaseDelay = d }
}

// WithRetryMaxDelay caps the backoff between attempts.
func WithRetryMaxDelay(d time.Duration) Option {
	return func(o *orchestratorOptions) { o.retryMaxDelay = d }
}

// WithTimeout bounds the wall time of one Respond call. Zero means no
// bound beyond the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(o *orchestratorOptions) { o.timeout = d }
}

// WithAttribution controls whether fused sections are headed by the
// name of the specialist that wrote them. Off by default.
func WithAttribution(enabled bool) Option {
	return func(o *orchestratorOptions) { o.attributeSources = enabled }
}

// WithEventBuffer sets the event channel buffer size.
func WithEventBuffer(n int) Option {
	return func(o *orchestratorOptions) { o.eventBuffer = n }
}

// WithEmitter sets a caller-owned event emitter, overriding the
// internal one (and WithEventBuffer). The orchestrator still closes
// the emitter on Close.
func WithEmitter(e *EventEmitter) Option {
	return func(o *orchestratorOptions) { o.emitter = e }
}

// WithClock sets the time source used to stamp events and measure
// durations. Defaults to time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *orchestratorOptions) { o.clock = now }
}

// WithLogger sets the debug logger.
func WithLogger(l *DebugLogger) Option {
	return func(o *orchestratorOptions) { o.logger = l }
}

// WithStore sets the session store.
func WithStore(s Store) Option {
	return func(o *orchestratorOptions) { o.store = s }
}

// WithAnalyzer sets a custom request analyzer.
func WithAnalyzer(a Analyzer) Option {
	return func(o *orchestratorOptions) { o.analyzer = a }
}

// WithPlanner sets a custom planner (mainly for testing).
func WithPlanner(p Planner) Option {
	return func(o *orchestratorOptions) { o.planner = p }
}

// WithExecutor sets a custom executor (mainly for testing).
func WithExecutor(e Executor) Option {
	return func(o *orchestratorOptions) { o.executor = e }
}

// WithIntegrator sets a custom integrator (mainly for testing).
func WithIntegrator(i Integrator) Option {
	return func(o *orchestratorOptions) { o.integrator = i }
}
