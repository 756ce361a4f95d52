package scoring

import (
	"math"

	"github.com/okian/talentlab/internal/domain/model"
)

// Pillar defaults used when no test contributed to a pillar.
const (
	DefaultPhysical      = 65
	DefaultTechnical     = 70
	DefaultTactical      = 60
	DefaultPsychological = 75
)

// pillarScale lifts a 1-10 mean onto the 0-100 pillar scale.
const pillarScale = 10

// DefaultPillarScores returns the per-pillar defaults.
func DefaultPillarScores() model.PillarScores {
	return model.PillarScores{
		Physical:      DefaultPhysical,
		Technical:     DefaultTechnical,
		Tactical:      DefaultTactical,
		Psychological: DefaultPsychological,
	}
}

// Aggregate reduces normalized test scores to one 0-100 score per pillar:
// the mean of the pillar's scores times ten, rounded to the nearest integer.
// A pillar with no scores keeps its default, so the result is always complete.
func Aggregate(scores []model.TestScore) model.PillarScores {
	var (
		sums   = make(map[model.Pillar]float64, 4)
		counts = make(map[model.Pillar]int, 4)
	)
	for _, s := range scores {
		sums[s.Pillar] += s.Score
		counts[s.Pillar]++
	}

	out := DefaultPillarScores()
	for _, p := range model.Pillars() {
		n := counts[p]
		if n == 0 {
			continue
		}
		out = out.Set(p, int(math.Round(sums[p]/float64(n)*pillarScale)))
	}
	return out
}
