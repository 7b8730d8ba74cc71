package models

// Response is the fused answer returned for one request.
type Response struct {
	// Content is the fused response body.
	Content string `json:"content"`
	// Confidence is the weighted average confidence in [0,1].
	Confidence float64 `json:"confidence"`
	// Metadata describes how the response was produced.
	Metadata ResponseMetadata `json:"metadata"`
}

// ResponseMetadata describes the work behind a response. The JSON
// field names are part of the wire contract consumed by callers.
type ResponseMetadata struct {
	// ModelsUsed lists the distinct models that contributed, in first
	// contribution order.
	ModelsUsed []string `json:"modelsUsed"`
	// ProcessingTimeMS is wall time from session start to response.
	ProcessingTimeMS int64 `json:"processingTimeMs"`
	// SessionID names the session that produced the response.
	SessionID string `json:"sessionId,omitempty"`
	// PhaseCount is how many phases the plan ran.
	PhaseCount int `json:"phaseCount,omitempty"`
	// StepCount is how many steps the plan dispatched.
	StepCount int `json:"stepCount,omitempty"`
	// Degraded is true when a deadline cut execution short and the
	// response was fused from partial results.
	Degraded bool `json:"degraded,omitempty"`
}
