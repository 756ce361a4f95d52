package scoring

import (
	"sort"

	"github.com/okian/talentlab/internal/domain/model"
)

// Result is the full scoring output for one evaluation.
type Result struct {
	EvaluationID string              `json:"evaluation_id,omitempty"`
	PlayerID     string              `json:"player_id,omitempty"`
	AgeGroup     model.AgeGroup      `json:"age_group"`
	Position     model.Position      `json:"position"`
	Scores       []model.TestScore   `json:"scores"`
	Skipped      []string            `json:"skipped,omitempty"`
	Metrics      model.PlayerMetrics `json:"metrics"`
}

// Evaluate normalizes every answer whose test is known to the reference
// data, aggregates pillars and computes the OVR. Scores follow catalog
// declaration order; answers for unknown tests are listed in Skipped.
func (e *Engine) Evaluate(ev model.Evaluation) Result {
	group := ev.Bracket()
	res := Result{
		EvaluationID: ev.EvaluationID,
		PlayerID:     ev.PlayerID,
		AgeGroup:     group,
		Position:     ev.Position,
		Scores:       make([]model.TestScore, 0, len(ev.Answers)),
	}

	for _, t := range e.ref.AllTests() {
		raw, ok := ev.Answers[t.ID]
		if !ok {
			continue
		}
		res.Scores = append(res.Scores, model.TestScore{
			TestID: t.ID,
			Pillar: t.Pillar,
			Raw:    raw,
			Score:  e.Normalize(t.ID, raw, group, ev.Position),
		})
	}
	for id := range ev.Answers {
		if _, ok := e.ref.Test(id); !ok {
			res.Skipped = append(res.Skipped, id)
		}
	}
	sort.Strings(res.Skipped)

	pillars := Aggregate(res.Scores)
	res.Metrics = model.PlayerMetrics{
		PillarScores: pillars,
		OVR:          OVROf(pillars),
		Timestamp:    ev.TS,
	}
	return res
}

// Insights returns a benchmark insight for every objective answer that has a
// benchmark, in catalog declaration order.
func (e *Engine) Insights(ev model.Evaluation) []model.BenchmarkInsight {
	group := ev.Bracket()
	out := make([]model.BenchmarkInsight, 0)
	for _, t := range e.ref.AllTests() {
		raw, ok := ev.Answers[t.ID]
		if !ok || !e.ref.IsObjective(t.ID) {
			continue
		}
		if in, ok := e.Insight(t.ID, raw, group, ev.Position, t.Label); ok {
			out = append(out, in)
		}
	}
	return out
}
