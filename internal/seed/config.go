// Package seed generates synthetic evaluation histories and posts them to a
// running talentlab server. Every generated player improves monotonically,
// so the resulting OVR history never decreases.
package seed

import (
	"errors"
	"time"
)

// Defaults for Config fields left zero.
const (
	defaultPlayers  = 20
	defaultSessions = 6
	defaultWorkers  = 4
	defaultTimeout  = 10 * time.Second
	defaultInterval = 7 * 24 * time.Hour
)

// ErrInvalidConfig reports an unusable seeding configuration.
var ErrInvalidConfig = errors.New("invalid seed config")

// Config holds configuration for a seeding run.
type Config struct {
	BaseURL  string        // base URL of the service
	Players  int           // number of synthetic players
	Sessions int           // evaluations per player
	Workers  int           // concurrent submitters
	Timeout  time.Duration // HTTP request timeout
	Start    time.Time     // timestamp of the first session
	Interval time.Duration // time between a player's sessions
	Seed     uint64        // random seed; equal seeds give equal histories
}

func (c *Config) withDefaults() Config {
	out := *c
	if out.Players <= 0 {
		out.Players = defaultPlayers
	}
	if out.Sessions <= 0 {
		out.Sessions = defaultSessions
	}
	if out.Workers <= 0 {
		out.Workers = defaultWorkers
	}
	if out.Timeout <= 0 {
		out.Timeout = defaultTimeout
	}
	if out.Interval <= 0 {
		out.Interval = defaultInterval
	}
	if out.Start.IsZero() {
		out.Start = time.Now().UTC().Add(-time.Duration(out.Sessions) * out.Interval)
	}
	return out
}

// Stats summarizes a seeding run.
type Stats struct {
	Players    int
	Generated  int
	Accepted   int
	Duplicates int
	Failed     int
	Duration   time.Duration
}
