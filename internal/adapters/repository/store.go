// Package repository keeps per-player evaluation history and ranks players
// by their latest overall rating.
package repository

import (
	"context"

	"github.com/okian/talentlab/internal/domain/model"
	"github.com/okian/talentlab/internal/domain/types"
)

// Session is one stored evaluation result.
type Session struct {
	Metrics model.PlayerMetrics `json:"metrics"`
	Answers map[string]float64  `json:"answers,omitempty"`
}

// Store provides read/write access to player history.
type Store interface {
	// Append adds a scored evaluation to the player's history, keeping the
	// history ordered by timestamp. Existing sessions are never changed.
	Append(ctx context.Context, playerID string, profile model.Profile, m model.PlayerMetrics, answers map[string]float64) error

	// History returns the player's metrics oldest first.
	History(ctx context.Context, playerID string) ([]model.PlayerMetrics, error)

	// Latest returns the most recent session and the profile it was taken with.
	Latest(ctx context.Context, playerID string) (Session, model.Profile, error)

	// Rank returns the player's leaderboard row.
	Rank(ctx context.Context, playerID string) (types.Entry, error)

	// TopN returns up to n rows ordered by latest OVR desc, then player id.
	TopN(ctx context.Context, n int) ([]types.Entry, error)

	// Count returns the number of players with at least one session.
	Count(ctx context.Context) int
}
