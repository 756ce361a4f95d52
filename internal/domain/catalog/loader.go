package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/talentlab/internal/domain/model"
)

//go:embed catalog.yaml
var embedded []byte

// Embedded returns a copy of the built-in catalog document.
func Embedded() []byte {
	return append([]byte(nil), embedded...)
}

// rawTest mirrors one entry under `tests:`.
type rawTest struct {
	ID             string `koanf:"id"`
	Label          string `koanf:"label"`
	Pillar         string `koanf:"pillar"`
	Unit           string `koanf:"unit"`
	BiggerIsBetter bool   `koanf:"bigger_is_better"`
	Type           string `koanf:"type"`
	Set            string `koanf:"set"`
}

type rawBenchmark struct {
	Min     float64 `koanf:"min"`
	Max     float64 `koanf:"max"`
	Inverse bool    `koanf:"inverse"`
}

type rawDrill struct {
	ID              string   `koanf:"id"`
	Title           string   `koanf:"title"`
	Pillar          string   `koanf:"pillar"`
	DurationMinutes int      `koanf:"duration_minutes"`
	Difficulty      string   `koanf:"difficulty"`
	MinAge          int      `koanf:"min_age"`
	MaxAge          int      `koanf:"max_age"`
	Positions       []string `koanf:"positions"`
	Philosophy      string   `koanf:"philosophy"`
}

type document struct {
	Tests             []rawTest                          `koanf:"tests"`
	Benchmarks        map[string]map[string]rawBenchmark `koanf:"benchmarks"`
	PositionalWeights map[string]map[string]float64      `koanf:"positional_weights"`
	Drills            []rawDrill                         `koanf:"drills"`
}

// bytesProvider feeds an in-memory YAML document to koanf.
type bytesProvider []byte

func (b bytesProvider) ReadBytes() ([]byte, error) { return b, nil }

func (b bytesProvider) Read() (map[string]interface{}, error) {
	return nil, fmt.Errorf("%w: bytes provider requires a parser", ErrLoadCatalog)
}

// Load reads the catalog from path, or the embedded document when path is
// empty, and validates it. Table errors such as min == max are reported here
// so that lookups never have to handle them.
func Load(ctx context.Context, path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return LoadBytes(ctx, embedded)
	}
	return load(ctx, file.Provider(path))
}

// LoadBytes parses and validates a YAML catalog document.
func LoadBytes(ctx context.Context, b []byte) (*Catalog, error) {
	return load(ctx, bytesProvider(b))
}

func load(_ context.Context, p koanf.Provider) (*Catalog, error) {
	k := koanf.New(".")
	if err := k.Load(p, yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadCatalog, err)
	}

	var doc document
	if err := k.UnmarshalWithConf("", &doc, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadCatalog, err)
	}
	return build(&doc)
}

func build(doc *document) (*Catalog, error) {
	if len(doc.Tests) == 0 {
		return nil, fmt.Errorf("%w: no tests defined", ErrInvalidCatalog)
	}

	c := &Catalog{
		tests:      make([]model.TestDefinition, 0, len(doc.Tests)),
		byID:       make(map[string]model.TestDefinition, len(doc.Tests)),
		benchmarks: make(map[string]map[model.AgeGroup]model.Benchmark, len(doc.Benchmarks)),
		weights:    make(map[model.Position]map[string]float64, len(doc.PositionalWeights)),
		drills:     make([]model.TrainingDrill, 0, len(doc.Drills)),
		positions:  make(map[model.Position]struct{}),
	}

	for i, rt := range doc.Tests {
		t, err := buildTest(rt)
		if err != nil {
			return nil, fmt.Errorf("tests[%d]: %w", i, err)
		}
		if _, dup := c.byID[t.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate test id %q", ErrInvalidCatalog, t.ID)
		}
		c.byID[t.ID] = t
		c.tests = append(c.tests, t)
	}

	for id, rows := range doc.Benchmarks {
		byGroup := make(map[model.AgeGroup]model.Benchmark, len(rows))
		for group, rb := range rows {
			b := model.Benchmark{Min: rb.Min, Max: rb.Max, Inverse: rb.Inverse}
			if err := validateBenchmark(b); err != nil {
				return nil, fmt.Errorf("benchmarks.%s.%s: %w", id, group, err)
			}
			byGroup[model.AgeGroup(strings.ToUpper(group))] = b
		}
		c.benchmarks[id] = byGroup
	}

	for pos, byTest := range doc.PositionalWeights {
		ws := make(map[string]float64, len(byTest))
		for id, w := range byTest {
			if w <= 0 {
				return nil, fmt.Errorf("%w: positional_weights.%s.%s must be positive, got %v", ErrInvalidCatalog, pos, id, w)
			}
			ws[id] = w
		}
		c.weights[model.Position(strings.ToUpper(pos))] = ws
		c.positions[model.Position(strings.ToUpper(pos))] = struct{}{}
	}

	seenDrills := make(map[string]struct{}, len(doc.Drills))
	for i, rd := range doc.Drills {
		d, err := buildDrill(rd)
		if err != nil {
			return nil, fmt.Errorf("drills[%d]: %w", i, err)
		}
		if _, dup := seenDrills[d.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate drill id %q", ErrInvalidCatalog, d.ID)
		}
		seenDrills[d.ID] = struct{}{}
		c.drills = append(c.drills, d)
		for _, p := range d.Positions {
			c.positions[p] = struct{}{}
		}
	}

	return c, nil
}

func buildTest(rt rawTest) (model.TestDefinition, error) {
	if strings.TrimSpace(rt.ID) == "" {
		return model.TestDefinition{}, fmt.Errorf("%w: missing id", ErrInvalidCatalog)
	}
	pillar, err := model.ParsePillar(rt.Pillar)
	if err != nil {
		return model.TestDefinition{}, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}
	typ, err := model.ParseTestType(rt.Type)
	if err != nil {
		return model.TestDefinition{}, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}
	set, err := model.ParseQuestionSet(rt.Set)
	if err != nil {
		return model.TestDefinition{}, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}
	return model.TestDefinition{
		ID:             rt.ID,
		Label:          rt.Label,
		Pillar:         pillar,
		Unit:           rt.Unit,
		BiggerIsBetter: rt.BiggerIsBetter,
		Type:           typ,
		Set:            set,
	}, nil
}

// validateBenchmark rejects ranges that would divide by zero or run against
// their declared direction.
func validateBenchmark(b model.Benchmark) error {
	if b.Min == b.Max {
		return fmt.Errorf("%w: min == max (%v)", ErrInvalidBenchmark, b.Min)
	}
	if b.Inverse != (b.Min > b.Max) {
		return fmt.Errorf("%w: inverse=%t but min=%v max=%v", ErrInvalidBenchmark, b.Inverse, b.Min, b.Max)
	}
	return nil
}

func buildDrill(rd rawDrill) (model.TrainingDrill, error) {
	if strings.TrimSpace(rd.ID) == "" {
		return model.TrainingDrill{}, fmt.Errorf("%w: missing id", ErrInvalidCatalog)
	}
	pillar, err := model.ParsePillar(rd.Pillar)
	if err != nil {
		return model.TrainingDrill{}, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}
	if rd.MinAge > rd.MaxAge {
		return model.TrainingDrill{}, fmt.Errorf("%w: drill %s min_age %d > max_age %d", ErrInvalidCatalog, rd.ID, rd.MinAge, rd.MaxAge)
	}
	positions := make([]model.Position, 0, len(rd.Positions))
	for _, p := range rd.Positions {
		positions = append(positions, model.Position(strings.ToUpper(strings.TrimSpace(p))))
	}
	return model.TrainingDrill{
		ID:              rd.ID,
		Title:           rd.Title,
		Pillar:          pillar,
		DurationMinutes: rd.DurationMinutes,
		Difficulty:      rd.Difficulty,
		MinAge:          rd.MinAge,
		MaxAge:          rd.MaxAge,
		Positions:       positions,
		Philosophy:      rd.Philosophy,
	}, nil
}
