package orchestrator

import (
	"sync"

	"github.com/ckeeney/maestro/pkg/models"
)

// Registry holds the specialist roster. It provides thread-safe
// registration and lookup and preserves registration order, which the
// planner relies on for stable candidate ordering.
//
// The registry is injected into the orchestrator; during plan execution
// it is only read.
type Registry struct {
	// specialists maps specialist IDs to their cards.
	specialists map[string]models.Specialist
	// order holds specialist IDs in registration order.
	order []string
	// mu protects all fields.
	mu sync.RWMutex
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		specialists: make(map[string]models.Specialist),
	}
}

// Register adds a specialist to the registry.
// Registering an ID twice returns a DuplicateSpecialistError.
func (r *Registry) Register(s models.Specialist) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.specialists[s.ID]; exists {
		return &DuplicateSpecialistError{ID: s.ID}
	}
	r.specialists[s.ID] = s
	r.order = append(r.order, s.ID)
	return nil
}

// Enabled returns the enabled specialists in registration order.
func (r *Registry) Enabled() []models.Specialist {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var enabled []models.Specialist
	for _, id := range r.order {
		if s := r.specialists[id]; s.Enabled {
			enabled = append(enabled, s)
		}
	}
	return enabled
}

// FindBySpecialization returns the enabled specialists carrying the
// tag, in registration order.
func (r *Registry) FindBySpecialization(tag models.Specialization) []models.Specialist {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []models.Specialist
	for _, id := range r.order {
		s := r.specialists[id]
		if s.Enabled && s.HasSpecialization(tag) {
			matched = append(matched, s)
		}
	}
	return matched
}

// Get retrieves a specialist by ID.
// The second return reports whether the specialist is registered.
func (r *Registry) Get(id string) (models.Specialist, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.specialists[id]
	return s, ok
}

// All returns a copy of every registered specialist in registration
// order, enabled or not.
func (r *Registry) All() []models.Specialist {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]models.Specialist, 0, len(r.order))
	for _, id := range r.order {
		all = append(all, r.specialists[id])
	}
	return all
}

// Count returns the number of registered specialists.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.specialists)
}
