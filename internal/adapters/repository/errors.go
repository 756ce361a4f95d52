package repository

import "errors"

// Sentinel errors returned by the history store.
var (
	ErrNotFound      = errors.New("player not found")
	ErrInvalidLimit  = errors.New("invalid leaderboard limit")
	ErrEmptyPlayerID = errors.New("empty player id")
)
