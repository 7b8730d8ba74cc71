package models

// Specialist describes one registered specialist: its identity, the
// model behind it, and the capability card the planner selects on.
type Specialist struct {
	// ID is the unique identifier for this specialist.
	ID string `json:"id"`
	// Name is the human-readable display name.
	Name string `json:"name"`
	// Model is the backing model identifier passed to the adapter.
	Model string `json:"model"`
	// Specializations lists the capability tags this specialist carries.
	Specializations []Specialization `json:"specializations"`
	// Weight scales this specialist's contribution during fusion.
	Weight float64 `json:"weight"`
	// Priority orders selection; lower values are picked first.
	Priority int `json:"priority"`
	// Enabled controls whether the planner may select this specialist.
	Enabled bool `json:"enabled"`
	// MaxTokens caps the adapter's output tokens, 0 for the adapter default.
	MaxTokens int64 `json:"max_tokens,omitempty"`
}

// HasSpecialization returns true if the specialist carries the tag.
func (s Specialist) HasSpecialization(tag Specialization) bool {
	for _, have := range s.Specializations {
		if have == tag {
			return true
		}
	}
	return false
}
