package seed

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/okian/talentlab/internal/domain/model"
)

// Reference is the catalog view the generator needs.
type Reference interface {
	AllTests() []model.TestDefinition
	IsObjective(id string) bool
	Benchmark(id string, group model.AgeGroup) (model.Benchmark, bool, bool)
}

// Evaluation mirrors the POST /evaluations request body.
type Evaluation struct {
	EvaluationID string             `json:"evaluation_id"`
	PlayerID     string             `json:"player_id"`
	Age          int                `json:"age"`
	Position     string             `json:"position"`
	Answers      map[string]float64 `json:"answers"`
	TS           string             `json:"ts"`
}

// Generation ranges.
const (
	minSeedAge        = 9
	maxSeedAge        = 17
	startLevelMin     = 0.1
	startLevelRange   = 0.4
	maxStepPerSession = 0.12
	minRating         = 1.0
	ratingSpan        = 9.0
	decimals          = 10
)

var positions = []string{"GK", "DEF", "MID", "ATT"}

// Generate builds sessions evaluations for each of players synthetic
// players. A player's level on every test starts low and never drops, and
// sessions are spaced interval apart from start. The result is grouped by
// player, oldest session first.
func Generate(ref Reference, cfg Config) [][]Evaluation {
	cfg = cfg.withDefaults()
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	tests := ref.AllTests()

	out := make([][]Evaluation, cfg.Players)
	for p := range out {
		playerID := "seed-" + uuidFrom(rng)
		age := minSeedAge + rng.IntN(maxSeedAge-minSeedAge+1)
		position := positions[rng.IntN(len(positions))]
		group := model.AgeGroupForAge(age)

		level := make(map[string]float64, len(tests))
		for _, t := range tests {
			level[t.ID] = startLevelMin + rng.Float64()*startLevelRange
		}

		history := make([]Evaluation, cfg.Sessions)
		for s := range history {
			answers := make(map[string]float64, len(tests))
			for _, t := range tests {
				if s > 0 {
					level[t.ID] = math.Min(1, level[t.ID]+rng.Float64()*maxStepPerSession)
				}
				if raw, ok := rawFor(ref, t, group, level[t.ID]); ok {
					answers[t.ID] = raw
				}
			}
			history[s] = Evaluation{
				EvaluationID: uuidFrom(rng),
				PlayerID:     playerID,
				Age:          age,
				Position:     position,
				Answers:      answers,
				TS:           cfg.Start.Add(time.Duration(s) * cfg.Interval).UTC().Format(time.RFC3339),
			}
		}
		out[p] = history
	}
	return out
}

// rawFor maps a level in [0,1] to a raw answer. Objective results move from
// the benchmark's worst end towards its best end; subjective ratings go from
// 1 to 10. Objective tests without a benchmark are left out.
func rawFor(ref Reference, t model.TestDefinition, group model.AgeGroup, level float64) (float64, bool) {
	if !ref.IsObjective(t.ID) {
		return round(minRating + level*ratingSpan), true
	}
	b, _, ok := ref.Benchmark(t.ID, group)
	if !ok {
		return 0, false
	}
	return round(b.Min + level*(b.Max-b.Min)), true
}

func round(v float64) float64 { return math.Round(v*decimals) / decimals }

// rngReader exposes a seeded generator as an io.Reader.
type rngReader struct{ rng *rand.Rand }

func (r rngReader) Read(p []byte) (int, error) {
	for i := 0; i < len(p); i += 8 {
		v := r.rng.Uint64()
		for j := 0; j < 8 && i+j < len(p); j++ {
			p[i+j] = byte(v >> (8 * j))
		}
	}
	return len(p), nil
}

// uuidFrom draws a version 4 UUID from rng so runs are reproducible.
func uuidFrom(rng *rand.Rand) string {
	return uuid.Must(uuid.NewRandomFromReader(rngReader{rng})).String()
}
