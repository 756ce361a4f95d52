// Package catalog holds the read-only reference data used by the scoring
// pipeline: test definitions grouped into question sets, the benchmark
// table, positional weights and the training drill catalog.
//
// A Catalog is immutable after Load and safe for concurrent use.
package catalog

import (
	"github.com/okian/talentlab/internal/domain/model"
)

// DefaultWeight is the positional multiplier used when no entry exists.
const DefaultWeight = 1.0

// Catalog is the validated reference data.
type Catalog struct {
	tests      []model.TestDefinition
	byID       map[string]model.TestDefinition
	benchmarks map[string]map[model.AgeGroup]model.Benchmark
	weights    map[model.Position]map[string]float64
	drills     []model.TrainingDrill
	positions  map[model.Position]struct{}
}

// Test returns the definition for id.
func (c *Catalog) Test(id string) (model.TestDefinition, bool) {
	t, ok := c.byID[id]
	return t, ok
}

// Tests returns the definitions of a question set in declaration order.
func (c *Catalog) Tests(set model.QuestionSet) []model.TestDefinition {
	out := make([]model.TestDefinition, 0, len(c.tests))
	for _, t := range c.tests {
		if t.Set == set {
			out = append(out, t)
		}
	}
	return out
}

// AllTests returns every definition in declaration order.
func (c *Catalog) AllTests() []model.TestDefinition {
	return append([]model.TestDefinition(nil), c.tests...)
}

// IsObjective reports whether id belongs to the objective-test family:
// declared OBJECTIVE, or calibrated by at least one benchmark row.
func (c *Catalog) IsObjective(id string) bool {
	if t, ok := c.byID[id]; ok && t.Type == model.TestObjective {
		return true
	}
	return c.HasBenchmark(id)
}

// HasBenchmark reports whether id has at least one benchmark row.
func (c *Catalog) HasBenchmark(id string) bool {
	return len(c.benchmarks[id]) > 0
}

// Benchmark looks up the calibration range for (id, group). When the exact
// bracket is absent it falls back to model.DefaultAgeGroup; fallback reports
// whether that happened. ok is false when neither row exists.
func (c *Catalog) Benchmark(id string, group model.AgeGroup) (b model.Benchmark, fallback bool, ok bool) {
	rows, exists := c.benchmarks[id]
	if !exists {
		return model.Benchmark{}, false, false
	}
	if b, ok = rows[group]; ok {
		return b, false, true
	}
	b, ok = rows[model.DefaultAgeGroup]
	return b, ok, ok
}

// Weight returns the positional multiplier for (position, id), DefaultWeight when absent.
func (c *Catalog) Weight(position model.Position, id string) float64 {
	if w, ok := c.weights[position][id]; ok {
		return w
	}
	return DefaultWeight
}

// HasPosition reports whether p appears in the positional weights or in
// any drill's position list.
func (c *Catalog) HasPosition(p model.Position) bool {
	_, ok := c.positions[p]
	return ok
}

// Drills returns the drill catalog in declaration order.
func (c *Catalog) Drills() []model.TrainingDrill {
	return append([]model.TrainingDrill(nil), c.drills...)
}

// Stats summarises catalog coverage for logging.
func (c *Catalog) Stats() map[string]int {
	rows := 0
	for _, byGroup := range c.benchmarks {
		rows += len(byGroup)
	}
	return map[string]int{
		"tests":          len(c.tests),
		"benchmarkTests": len(c.benchmarks),
		"benchmarkRows":  rows,
		"positions":      len(c.weights),
		"drills":         len(c.drills),
	}
}
