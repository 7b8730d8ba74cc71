package orchestrator

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ckeeney/maestro/pkg/models"
)

// resultKey identifies one merged result: which specialist produced it
// during which phase.
type resultKey struct {
	SpecialistID string
	Phase        models.Phase
}

// SessionContext carries the per-request state flowing through the
// pipeline: identity, timing, the analysis, the plan, and the step
// results gathered so far.
//
// A SessionContext belongs to exactly one request and is never shared
// across requests. Results are merged in at phase barriers by a single
// goroutine, so access needs no locking.
type SessionContext struct {
	// ID names the session: requester, start timestamp, random suffix.
	ID string
	// Request is the request this session answers.
	Request models.Request
	// StartTime is when the session was created.
	StartTime time.Time
	// Analysis is the classifier output, set once analysis ran.
	Analysis models.Analysis
	// Plan is the execution plan, set once planning ran.
	Plan *models.ExecutionPlan
	// Degraded is set when a deadline stopped the plan early and the
	// response was fused from partial results.
	Degraded bool

	results map[resultKey]models.StepResult
	// resultOrder preserves merge order for stable iteration.
	resultOrder []resultKey
}

// NewSessionContext creates a session for the request. An empty
// requester falls back to "anonymous".
func NewSessionContext(req models.Request) *SessionContext {
	user := req.UserID
	if user == "" {
		user = "anonymous"
	}
	now := time.Now()

	return &SessionContext{
		ID:        fmt.Sprintf("%s-%d-%s", user, now.UnixMilli(), uuid.New().String()[:8]),
		Request:   req,
		StartTime: now,
		results:   make(map[resultKey]models.StepResult),
	}
}

// MergeResults records a batch of step results, keyed by specialist and
// phase. Called once per phase barrier; a later merge for the same key
// overwrites the earlier entry.
func (sc *SessionContext) MergeResults(results []models.StepResult) {
	for _, res := range results {
		key := resultKey{SpecialistID: res.SpecialistID, Phase: res.Phase}
		if _, seen := sc.results[key]; !seen {
			sc.resultOrder = append(sc.resultOrder, key)
		}
		sc.results[key] = res
	}
}

// Result returns the merged result for a specialist and phase.
// The second return reports whether such a result exists.
func (sc *SessionContext) Result(specialistID string, phase models.Phase) (models.StepResult, bool) {
	res, ok := sc.results[resultKey{SpecialistID: specialistID, Phase: phase}]
	return res, ok
}

// Results returns every merged result in merge order.
func (sc *SessionContext) Results() []models.StepResult {
	out := make([]models.StepResult, 0, len(sc.resultOrder))
	for _, key := range sc.resultOrder {
		out = append(out, sc.results[key])
	}
	return out
}

// SuccessfulResults returns the merged results that produced output,
// in merge order.
func (sc *SessionContext) SuccessfulResults() []models.StepResult {
	var out []models.StepResult
	for _, key := range sc.resultOrder {
		if res := sc.results[key]; res.Succeeded() {
			out = append(out, res)
		}
	}
	return out
}

// PhaseResults returns the successful results of one phase, merge order.
func (sc *SessionContext) PhaseResults(phase models.Phase) []models.StepResult {
	var out []models.StepResult
	for _, key := range sc.resultOrder {
		if key.Phase != phase {
			continue
		}
		if res := sc.results[key]; res.Succeeded() {
			out = append(out, res)
		}
	}
	return out
}

// Elapsed returns the wall time since the session started.
func (sc *SessionContext) Elapsed() time.Duration {
	return time.Since(sc.StartTime)
}

// Store creates and closes sessions around the pipeline. The default
// in-memory store archives nothing; a persistent implementation can
// record closed sessions for later inspection.
type Store interface {
	// Create builds a fresh session context for the request.
	Create(req models.Request) (*SessionContext, error)
	// Close finishes the session. The response is nil when the
	// pipeline failed before producing one.
	Close(sc *SessionContext, resp *models.Response) error
}

// MemoryStore is the default Store. Sessions live only for the
// duration of the request.
type MemoryStore struct{}

// NewMemoryStore creates a MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Create builds a fresh session context for the request.
func (s *MemoryStore) Create(req models.Request) (*SessionContext, error) {
	return NewSessionContext(req), nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close(sc *SessionContext, resp *models.Response) error {
	return nil
}
