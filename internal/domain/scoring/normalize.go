package scoring

import (
	"math"

	"github.com/okian/talentlab/internal/domain/model"
)

// Normalize converts a raw answer for testID into a score in [1,10].
//
// Tests outside the objective family are already 1-10 ratings and are
// returned unchanged. Objective tests are interpolated against the
// benchmark for group (falling back to model.DefaultAgeGroup), scaled by
// the positional weight, clamped and rounded to one decimal. An objective
// test without any benchmark row scores NeutralScore.
func (e *Engine) Normalize(testID string, raw float64, group model.AgeGroup, position model.Position) float64 {
	if !e.ref.IsObjective(testID) {
		e.observer(FallbackPassthrough, testID)
		return raw
	}

	b, fallback, ok := e.ref.Benchmark(testID, group)
	if !ok {
		e.observer(FallbackNeutral, testID)
		return NeutralScore
	}
	if fallback {
		e.observer(FallbackDefaultBracket, testID)
	}

	score := Interpolate(b, raw) * e.ref.Weight(position, testID)
	return roundTenth(clamp(score, MinScore, MaxScore))
}

// Interpolate maps raw linearly from b.Min -> 1 to b.Max -> 10, clamping
// values beyond either end. Inverse benchmarks have Min > Max, so the same
// formula flips direction: values at or above Min score 1, values at or
// below Max score 10.
func Interpolate(b model.Benchmark, raw float64) float64 {
	t := clamp((raw-b.Min)/(b.Max-b.Min), 0, 1)
	return MinScore + t*(MaxScore-MinScore)
}

func clamp(v, lo, hi float64) float64 {
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	default:
		return v
	}
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
