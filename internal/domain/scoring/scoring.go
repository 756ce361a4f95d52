// Package scoring turns raw evaluation answers into normalized test scores,
// pillar scores and an overall rating.
//
// Every function in this package is pure with respect to its inputs and the
// read-only reference data it is given, and is safe for concurrent use.
// Missing data never fails a call: each lookup has a documented fallback.
package scoring

import (
	"github.com/okian/talentlab/internal/domain/model"
)

// Score bounds for a single normalized test.
const (
	MinScore     = 1.0
	MaxScore     = 10.0
	NeutralScore = 5.0
)

// Reference is the read-only reference data the engine scores against.
// *catalog.Catalog implements it.
type Reference interface {
	Test(id string) (model.TestDefinition, bool)
	AllTests() []model.TestDefinition
	IsObjective(id string) bool
	Benchmark(id string, group model.AgeGroup) (b model.Benchmark, fallback bool, ok bool)
	Weight(position model.Position, id string) float64
}

// Fallback names a lookup that degraded to a default.
type Fallback string

// Fallback kinds reported to an Observer.
const (
	FallbackPassthrough    Fallback = "passthrough"
	FallbackDefaultBracket Fallback = "default_bracket"
	FallbackNeutral        Fallback = "neutral"
)

// Observer is notified whenever normalization takes a fallback path.
// It must not block; it never influences the returned score.
type Observer func(kind Fallback, testID string)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithObserver registers a fallback observer.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observer = o
		}
	}
}

// Engine scores evaluations against a Reference.
type Engine struct {
	ref      Reference
	observer Observer
}

// NewEngine creates a scoring engine over ref.
func NewEngine(ref Reference, opts ...Option) *Engine {
	e := &Engine{
		ref:      ref,
		observer: func(Fallback, string) {},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}
