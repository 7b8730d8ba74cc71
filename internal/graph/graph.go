// Package graph provides a dependency graph for execution step ordering.
package graph

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ckeeney/maestro/pkg/models"
)

// ErrCycleDetected indicates a circular dependency was found between steps.
var ErrCycleDetected = errors.New("circular dependency detected")

// StepGraph represents a directed acyclic graph of execution steps.
// Steps are nodes, and edges represent "blocked by" relationships.
type StepGraph struct {
	mu sync.RWMutex
	// nodes maps step ID to the step itself.
	nodes map[string]models.ExecutionStep
	// edges maps step ID to IDs of steps it depends on (is blocked by).
	edges map[string][]string
	// completed tracks which steps have been marked complete.
	completed map[string]bool
	// debugLog is an optional logging function.
	debugLog func(format string, args ...interface{})
}

// New creates a new empty step graph.
func New() *StepGraph {
	return &StepGraph{
		nodes:     make(map[string]models.ExecutionStep),
		edges:     make(map[string][]string),
		completed: make(map[string]bool),
		debugLog:  func(format string, args ...interface{}) {},
	}
}

// SetDebugLog sets the debug logging function.
func (g *StepGraph) SetDebugLog(fn func(format string, args ...interface{})) {
	if fn != nil {
		g.debugLog = fn
	}
}

// Build constructs the dependency graph from a slice of steps.
// Returns an error if a cycle is detected or a dependency references an
// unknown step.
func (g *StepGraph) Build(steps []models.ExecutionStep) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.debugLog("[graph.Build] building graph from %d steps", len(steps))

	for _, step := range steps {
		if _, exists := g.nodes[step.ID]; exists {
			return fmt.Errorf("duplicate step id %s", step.ID)
		}
		g.nodes[step.ID] = step
		g.edges[step.ID] = nil
	}

	for _, step := range steps {
		for _, depID := range step.DependsOn {
			if _, exists := g.nodes[depID]; !exists {
				return fmt.Errorf("step %s depends on unknown step %s", step.ID, depID)
			}
			g.edges[step.ID] = append(g.edges[step.ID], depID)
		}
	}

	if g.hasCycleLocked() {
		return ErrCycleDetected
	}

	g.debugLog("[graph.Build] graph built successfully with %d nodes", len(g.nodes))
	return nil
}

// HasCycle returns true if the graph contains a circular dependency.
// Uses depth-first search with coloring to detect back edges.
func (g *StepGraph) HasCycle() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.hasCycleLocked()
}

// hasCycleLocked is the internal implementation that assumes the lock is held.
func (g *StepGraph) hasCycleLocked() bool {
	// Color states: 0 = white (unvisited), 1 = gray (in progress), 2 = black (done).
	colors := make(map[string]int)
	for id := range g.nodes {
		colors[id] = 0
	}

	var hasCycle bool
	var visit func(id string) bool
	visit = func(id string) bool {
		colors[id] = 1

		for _, depID := range g.edges[id] {
			switch colors[depID] {
			case 1:
				// Back edge, cycle detected.
				return true
			case 0:
				if visit(depID) {
					return true
				}
			}
		}

		colors[id] = 2
		return false
	}

	for id := range g.nodes {
		if colors[id] == 0 {
			if visit(id) {
				hasCycle = true
				break
			}
		}
	}

	return hasCycle
}

// TopologicalSort returns step IDs in an order where all dependencies
// come before the steps that depend on them.
// Returns an error if the graph contains a cycle.
func (g *StepGraph) TopologicalSort() ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.hasCycleLocked() {
		return nil, ErrCycleDetected
	}

	visited := make(map[string]bool)
	var result []string

	var visit func(id string)
	visit = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true

		for _, depID := range g.edges[id] {
			visit(depID)
		}

		result = append(result, id)
	}

	for id := range g.nodes {
		visit(id)
	}

	return result, nil
}

// Ready returns step IDs whose dependencies are all complete and which
// have not themselves completed. These steps can run in parallel.
func (g *StepGraph) Ready() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var ready []string
	for id := range g.nodes {
		if g.completed[id] {
			continue
		}

		blocked := false
		for _, depID := range g.edges[id] {
			if !g.completed[depID] {
				blocked = true
				break
			}
		}
		if !blocked {
			ready = append(ready, id)
		}
	}

	g.debugLog("[graph.Ready] %d of %d steps ready", len(ready), len(g.nodes))
	return ready
}

// MarkComplete marks a step as completed in the graph.
// This affects subsequent calls to Ready.
func (g *StepGraph) MarkComplete(stepID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.completed[stepID] = true
}

// Step returns the step for a given ID. The second return reports
// whether the step exists.
func (g *StepGraph) Step(stepID string) (models.ExecutionStep, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	step, ok := g.nodes[stepID]
	return step, ok
}

// Size returns the number of steps in the graph.
func (g *StepGraph) Size() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}
