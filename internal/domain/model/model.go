package model

import (
	"fmt"
	"strings"
	"time"
)

// TestType distinguishes direct ratings from measured values.
type TestType string

// Test types.
const (
	// TestSubjective is a direct 1-10 rating that needs no normalization.
	TestSubjective TestType = "SUBJECTIVE"
	// TestObjective is a raw measurement normalized against benchmarks.
	TestObjective TestType = "OBJECTIVE"
)

// ParseTestType parses a test type name, case-insensitively.
func ParseTestType(s string) (TestType, error) {
	switch t := TestType(strings.ToUpper(strings.TrimSpace(s))); t {
	case TestSubjective, TestObjective:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTestType, s)
	}
}

// QuestionSet names one of the fixed groups driving the evaluation wizards.
type QuestionSet string

// Question sets.
const (
	SetSelfAssessment  QuestionSet = "self_assessment"
	SetCoachAssessment QuestionSet = "coach_assessment"
	SetFieldTest       QuestionSet = "field_test"
)

// QuestionSets returns all question sets in wizard order.
func QuestionSets() []QuestionSet {
	return []QuestionSet{SetSelfAssessment, SetCoachAssessment, SetFieldTest}
}

// ParseQuestionSet parses a question set name.
func ParseQuestionSet(s string) (QuestionSet, error) {
	qs := QuestionSet(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range QuestionSets() {
		if qs == known {
			return qs, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownQuestionSet, s)
}

// TestDefinition is the static metadata for one assessment item.
type TestDefinition struct {
	ID             string      `json:"id"`
	Label          string      `json:"label"`
	Pillar         Pillar      `json:"pillar"`
	Unit           string      `json:"unit,omitempty"`
	BiggerIsBetter bool        `json:"bigger_is_better"`
	Type           TestType    `json:"type"`
	Set            QuestionSet `json:"set"`
}

// Benchmark is the calibration range for a (test, age group) pair.
// Min maps to score 1 and Max to score 10. Inverse marks tests where
// a lower raw value is better, e.g. sprint times.
type Benchmark struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Inverse bool    `json:"inverse"`
}

// Midpoint returns the centre of the calibration range.
func (b Benchmark) Midpoint() float64 { return (b.Min + b.Max) / 2 }

// Position is a playing position tag, e.g. "GK", "DEF", "MID", "ATT".
type Position string

// AgeGroup is a discrete age bracket label, e.g. "U14".
type AgeGroup string

// DefaultAgeGroup is the bracket used when the requested one has no benchmark.
const DefaultAgeGroup AgeGroup = "U14"

const (
	youngestBracket = 10
	oldestBracket   = 18
	bracketStep     = 2
)

// AgeGroupForAge maps an age in years to its "under" bracket:
// 9 -> U10, 10..11 -> U12, ..., 16 and older -> U18.
func AgeGroupForAge(age int) AgeGroup {
	bracket := youngestBracket
	for bracket < oldestBracket && age >= bracket {
		bracket += bracketStep
	}
	return AgeGroup(fmt.Sprintf("U%d", bracket))
}

// PillarScores holds one 0-100 score per pillar.
type PillarScores struct {
	Physical      int `json:"physical"`
	Technical     int `json:"technical"`
	Tactical      int `json:"tactical"`
	Psychological int `json:"psychological"`
}

// Score returns the score for pillar p, or 0 for an unknown pillar.
func (s PillarScores) Score(p Pillar) int {
	switch p {
	case PillarPhysical:
		return s.Physical
	case PillarTechnical:
		return s.Technical
	case PillarTactical:
		return s.Tactical
	case PillarPsychological:
		return s.Psychological
	default:
		return 0
	}
}

// Set returns a copy of s with pillar p set to v.
func (s PillarScores) Set(p Pillar, v int) PillarScores {
	switch p {
	case PillarPhysical:
		s.Physical = v
	case PillarTechnical:
		s.Technical = v
	case PillarTactical:
		s.Tactical = v
	case PillarPsychological:
		s.Psychological = v
	}
	return s
}

// PlayerMetrics is the immutable snapshot produced by one evaluation.
type PlayerMetrics struct {
	PillarScores
	OVR       int       `json:"ovr"`
	Timestamp time.Time `json:"timestamp"`
}

// TrainingDrill is a catalog entry selected by the recommendation filter.
type TrainingDrill struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Pillar          Pillar     `json:"pillar"`
	DurationMinutes int        `json:"duration_minutes"`
	Difficulty      string     `json:"difficulty"`
	MinAge          int        `json:"min_age"`
	MaxAge          int        `json:"max_age"`
	Positions       []Position `json:"positions"`
	Philosophy      string     `json:"philosophy,omitempty"`
}

// Suits reports whether the drill fits the age (inclusive range) and position.
func (d TrainingDrill) Suits(age int, position Position) bool {
	if age < d.MinAge || age > d.MaxAge {
		return false
	}
	for _, p := range d.Positions {
		if p == position {
			return true
		}
	}
	return false
}

// Direction tells on which side of the benchmark midpoint a value lies.
type Direction string

// Directions.
const (
	DirectionAbove Direction = "above"
	DirectionBelow Direction = "below"
)

// BenchmarkInsight compares one raw value against its benchmark midpoint.
type BenchmarkInsight struct {
	TestID     string    `json:"test_id"`
	Label      string    `json:"label"`
	Percentage int       `json:"percentage"`
	Direction  Direction `json:"direction"`
	AgeGroup   AgeGroup  `json:"age_group"`
	Position   Position  `json:"position"`
}

// TestScore is a normalized score for one test.
type TestScore struct {
	TestID string  `json:"test_id"`
	Pillar Pillar  `json:"pillar"`
	Raw    float64 `json:"raw"`
	Score  float64 `json:"score"`
}
