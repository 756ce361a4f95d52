// Package types contains common types used across the application
package types

import "time"

// Entry represents a leaderboard entry ranked by latest OVR.
type Entry struct {
	Rank      int       `json:"rank"`
	PlayerID  string    `json:"player_id"`
	OVR       int       `json:"ovr"`
	Position  string    `json:"position"`
	AgeGroup  string    `json:"age_group"`
	Evaluated time.Time `json:"evaluated_at"`
}
