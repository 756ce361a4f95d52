package scoring

import (
	"math"

	"github.com/okian/talentlab/internal/domain/model"
)

const percent = 100

// Insight compares raw against the midpoint of its benchmark. The delta is
// signed so that better-than-average is positive (for inverse benchmarks a
// lower raw value is better); the returned percentage is its rounded
// absolute value and Direction carries the sign.
//
// ok is false when testID has no benchmark, or when the midpoint is zero
// and a relative delta is undefined.
func (e *Engine) Insight(testID string, raw float64, group model.AgeGroup, position model.Position, label string) (model.BenchmarkInsight, bool) {
	b, _, ok := e.ref.Benchmark(testID, group)
	if !ok {
		return model.BenchmarkInsight{}, false
	}
	avg := b.Midpoint()
	if avg == 0 {
		return model.BenchmarkInsight{}, false
	}

	var delta float64
	if b.Inverse {
		delta = (avg - raw) / avg * percent
	} else {
		delta = (raw - avg) / avg * percent
	}

	dir := model.DirectionAbove
	if delta < 0 {
		dir = model.DirectionBelow
	}
	return model.BenchmarkInsight{
		TestID:     testID,
		Label:      label,
		Percentage: int(math.Round(math.Abs(delta))),
		Direction:  dir,
		AgeGroup:   group,
		Position:   position,
	}, true
}
