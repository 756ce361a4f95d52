package scoring

import (
	"math"

	"github.com/okian/talentlab/internal/domain/model"
)

// OVR weights. They must sum to 1.0.
const (
	WeightPhysical      = 0.3
	WeightTechnical     = 0.4
	WeightTactical      = 0.2
	WeightPsychological = 0.1
)

// Weights returns the OVR weight of each pillar.
func Weights() map[model.Pillar]float64 {
	return map[model.Pillar]float64{
		model.PillarPhysical:      WeightPhysical,
		model.PillarTechnical:     WeightTechnical,
		model.PillarTactical:      WeightTactical,
		model.PillarPsychological: WeightPsychological,
	}
}

// CalculateOVR combines the four pillar scores into the overall rating.
// Inputs are expected in 0-100; the result is not clamped further.
func CalculateOVR(physical, technical, tactical, psychological int) int {
	sum := WeightPhysical*float64(physical) +
		WeightTechnical*float64(technical) +
		WeightTactical*float64(tactical) +
		WeightPsychological*float64(psychological)
	return int(math.Round(sum))
}

// OVROf is CalculateOVR over a PillarScores value.
func OVROf(s model.PillarScores) int {
	return CalculateOVR(s.Physical, s.Technical, s.Tactical, s.Psychological)
}
