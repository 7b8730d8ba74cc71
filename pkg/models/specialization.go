package models

// Specialization is a capability tag a specialist can carry.
type Specialization string

const (
	// SpecText is general text handling. Every request implies it.
	SpecText Specialization = "text"
	// SpecCode indicates code understanding and generation.
	SpecCode Specialization = "code"
	// SpecData indicates structured data and serialization formats.
	SpecData Specialization = "data"
	// SpecMultimodal indicates image, audio, and other media handling.
	SpecMultimodal Specialization = "multimodal"
	// SpecReasoning indicates causal and argumentative analysis.
	SpecReasoning Specialization = "reasoning"
	// SpecThinking indicates ethical, creative, and strategic work.
	SpecThinking Specialization = "thinking"
	// SpecTool indicates lookups, calculations, and conversions.
	SpecTool Specialization = "tool"
	// SpecPlanning indicates multi-step plan construction.
	SpecPlanning Specialization = "planning"
)

// Valid returns true if the specialization is a known value.
func (s Specialization) Valid() bool {
	switch s {
	case SpecText, SpecCode, SpecData, SpecMultimodal, SpecReasoning, SpecThinking, SpecTool, SpecPlanning:
		return true
	default:
		return false
	}
}
