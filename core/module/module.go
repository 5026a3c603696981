// Package module defines the shared prediction module contract and the seven
// reference implementations composed by the engine. Modules are stateless:
// every invocation computes purely from its input.
package module

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/brandsignal/foresight/core/benchmark"
	"github.com/brandsignal/foresight/core/model"
)

// Input carries everything a module may consume. Adjustment is nil when the
// domain is not a benchmark case. Now is the generation stamp supplied by the
// caller; modules never read the wall clock.
type Input struct {
	Domain     string
	History    []model.Observation
	Adjustment *benchmark.Adjustment
	Config     model.AnalysisConfig
	Now        time.Time
}

// Module is the contract every analytical unit implements. Compute must not
// fail for expected no-data conditions; it returns a low-confidence result
// instead. Returned errors indicate genuine internal faults. Modules never
// call each other; composition happens only in the engine.
type Module interface {
	ID() string
	Compute(ctx context.Context, in Input) (model.ModuleResult, error)
}

// Registry maps component names to modules.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]Module
	order   []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{modules: map[string]Module{}}
}

// Register adds a module under its ID. Duplicate registration is an error.
func (r *Registry) Register(m Module) error {
	id := m.ID()
	if id == "" {
		return fmt.Errorf("module has empty id")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.modules[id]; exists {
		return fmt.Errorf("module %s already registered", id)
	}
	r.modules[id] = m
	r.order = append(r.order, id)
	return nil
}

// Get returns the module registered under name.
func (r *Registry) Get(name string) (Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.modules[name]
	return m, ok
}

// Components lists registered component names in registration order.
func (r *Registry) Components() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// DefaultRegistry returns a registry with all seven reference modules.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, m := range []Module{
		MarketPositionModule{},
		ThreatWarningModule{},
		TrajectoryModule{},
		DisruptionModule{},
		AllocationModule{},
		ConfidenceModule{},
		TemporalModule{},
	} {
		// Reference modules have distinct, non-empty IDs.
		if err := r.Register(m); err != nil {
			panic(err)
		}
	}
	return r
}

func meta(id string, now time.Time) model.ResultMeta {
	return model.ResultMeta{ModuleID: id, GeneratedAt: now}
}
