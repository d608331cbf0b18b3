package controls

import (
	"fmt"

	"github.com/cloudhygiene/ebsguard/internal/models"
)

// Registry manages the set of active controls and drives evaluation.
type Registry interface {
	// Register adds a control to the registry. Panics on duplicate ID.
	Register(c Control)

	// All returns all registered controls in registration order.
	All() []Control

	// ByID returns the control with the given canonical ID.
	ByID(id string) (Control, bool)

	// EvaluateAll runs every registered control against ctx and merges
	// results.
	EvaluateAll(ctx ControlContext) []models.ControlResult
}

// DefaultRegistry is a simple, ordered, in-memory registry.
// Controls are evaluated in registration order.
// Register panics on duplicate control IDs to catch wiring mistakes at
// startup.
type DefaultRegistry struct {
	controls []Control
	index    map[string]Control
}

// NewDefaultRegistry returns an empty registry ready for registration.
func NewDefaultRegistry() *DefaultRegistry {
	return &DefaultRegistry{index: make(map[string]Control)}
}

// Register adds c to the registry. Panics if the same ID is registered twice.
func (r *DefaultRegistry) Register(c Control) {
	if _, exists := r.index[c.ID()]; exists {
		panic(fmt.Sprintf("duplicate control ID: %q", c.ID()))
	}
	r.controls = append(r.controls, c)
	r.index[c.ID()] = c
}

// All returns all registered controls in registration order.
func (r *DefaultRegistry) All() []Control {
	return r.controls
}

// ByID returns the control registered under the given canonical ID.
func (r *DefaultRegistry) ByID(id string) (Control, bool) {
	c, ok := r.index[id]
	return c, ok
}

// EvaluateAll runs every registered control against ctx and returns the
// merged result slice. Controls are called sequentially in registration
// order.
func (r *DefaultRegistry) EvaluateAll(ctx ControlContext) []models.ControlResult {
	var results []models.ControlResult
	for _, c := range r.controls {
		results = append(results, c.Evaluate(ctx)...)
	}
	return results
}
