package model

import "time"

// Evaluation is one submitted evaluation session for a player.
type Evaluation struct {
	EvaluationID string             // unique id for idempotency
	PlayerID     string             // subject player
	Age          int                // age in years
	Position     Position           // playing position tag
	AgeGroup     AgeGroup           // bracket used for benchmarks; derived from Age when empty
	Answers      map[string]float64 // raw answers keyed by test id
	TS           time.Time          // evaluation timestamp
}

// Bracket returns the explicit age group, or the one derived from Age.
func (e *Evaluation) Bracket() AgeGroup {
	if e.AgeGroup != "" {
		return e.AgeGroup
	}
	return AgeGroupForAge(e.Age)
}

// Profile is the player context recommendations are filtered by.
type Profile struct {
	Age      int      `json:"age"`
	Position Position `json:"position"`
	AgeGroup AgeGroup `json:"age_group"`
}

// Profile extracts the player profile carried by the evaluation.
func (e *Evaluation) Profile() Profile {
	return Profile{Age: e.Age, Position: e.Position, AgeGroup: e.Bracket()}
}
