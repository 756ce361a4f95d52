// Package recommend selects training drills for a player's weakest pillar.
package recommend

import (
	"fmt"
	"strings"

	"github.com/okian/talentlab/internal/domain/model"
)

// perHorizon caps the drills returned for each horizon.
const perHorizon = 2

// DrillSource provides the drill catalog in declaration order.
type DrillSource interface {
	Drills() []model.TrainingDrill
}

// Plan is a three-horizon development plan.
type Plan struct {
	WeakestPillar model.Pillar          `json:"weakest_pillar"`
	ShortTerm     []model.TrainingDrill `json:"short_term"`
	MediumTerm    []model.TrainingDrill `json:"medium_term"`
	LongTerm      string                `json:"long_term"`
}

// Filter picks drills from a fixed catalog.
type Filter struct {
	drills []model.TrainingDrill
}

// NewFilter snapshots the drills of src.
func NewFilter(src DrillSource) *Filter {
	return &Filter{drills: src.Drills()}
}

// Recommend builds a plan for the weakest pillar in scores.
//
// Philosophy is accepted for forward compatibility and does not narrow the
// selection. An empty list means no drill matched; Recommend never fails.
func (f *Filter) Recommend(scores model.PillarScores, age int, position model.Position, philosophy string) Plan {
	_ = philosophy

	weakest := Weakest(scores)
	return Plan{
		WeakestPillar: weakest,
		ShortTerm:     f.pick(weakest, age, position),
		MediumTerm:    f.pick(model.PillarTactical, age, position),
		LongTerm:      longTerm(weakest, position),
	}
}

// Weakest returns the lowest scoring pillar. Ties go to the pillar that comes
// first in canonical order.
func Weakest(scores model.PillarScores) model.Pillar {
	pillars := model.Pillars()
	weakest := pillars[0]
	for _, p := range pillars[1:] {
		if scores.Score(p) < scores.Score(weakest) {
			weakest = p
		}
	}
	return weakest
}

func (f *Filter) pick(pillar model.Pillar, age int, position model.Position) []model.TrainingDrill {
	out := make([]model.TrainingDrill, 0, perHorizon)
	for _, d := range f.drills {
		if len(out) == perHorizon {
			break
		}
		if d.Pillar == pillar && d.Suits(age, position) {
			out = append(out, d)
		}
	}
	return out
}

func longTerm(p model.Pillar, position model.Position) string {
	name := strings.ToLower(p.String())
	if position == "" {
		return fmt.Sprintf("Make %s development the focus of the next training cycle.", name)
	}
	return fmt.Sprintf("Make %s development the focus of the next training cycle, built around the demands of the %s role.", name, position)
}
