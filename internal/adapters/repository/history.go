package repository

import (
	"context"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/okian/talentlab/internal/domain/model"
	"github.com/okian/talentlab/internal/domain/types"
	"github.com/okian/talentlab/pkg/metrics"
)

type player struct {
	profile  model.Profile // profile of the latest session
	sessions []Session     // ordered by Metrics.Timestamp
}

func (p *player) latest() Session { return p.sessions[len(p.sessions)-1] }

// MemoryStore is an in-memory Store. Rankings use a treap keyed by each
// player's latest OVR so Rank and TopN stay logarithmic in the player count.
type MemoryStore struct {
	mu       sync.RWMutex
	players  map[string]*player
	root     *node
	sessions int
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{players: make(map[string]*player)}
}

// Append implements Store. A session whose timestamp is older than the
// player's latest is inserted at its ordered position; sessions with equal
// timestamps keep arrival order.
func (s *MemoryStore) Append(_ context.Context, playerID string, profile model.Profile, m model.PlayerMetrics, answers map[string]float64) error {
	if playerID == "" {
		return ErrEmptyPlayerID
	}
	start := time.Now()
	defer func() {
		metrics.RecordStoreAppendLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	sess := Session{Metrics: m, Answers: maps.Clone(answers)}

	s.mu.Lock()
	p, ok := s.players[playerID]
	if !ok {
		p = &player{}
		s.players[playerID] = p
	} else {
		s.root = remove(s.root, playerID, p.latest().Metrics.OVR)
	}

	at := sort.Search(len(p.sessions), func(i int) bool {
		return p.sessions[i].Metrics.Timestamp.After(m.Timestamp)
	})
	p.sessions = append(p.sessions, Session{})
	copy(p.sessions[at+1:], p.sessions[at:])
	p.sessions[at] = sess
	if at == len(p.sessions)-1 {
		p.profile = profile
	}

	s.root = insert(s.root, playerID, p.latest().Metrics.OVR)
	s.sessions++
	players, sessions := len(s.players), s.sessions
	s.mu.Unlock()

	metrics.UpdateStoreSize(players, sessions)
	return nil
}

// History implements Store.
func (s *MemoryStore) History(_ context.Context, playerID string) ([]model.PlayerMetrics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.players[playerID]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]model.PlayerMetrics, len(p.sessions))
	for i, sess := range p.sessions {
		out[i] = sess.Metrics
	}
	return out, nil
}

// Latest implements Store.
func (s *MemoryStore) Latest(_ context.Context, playerID string) (Session, model.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.players[playerID]
	if !ok {
		return Session{}, model.Profile{}, ErrNotFound
	}
	last := p.latest()
	return Session{Metrics: last.Metrics, Answers: maps.Clone(last.Answers)}, p.profile, nil
}

// Rank implements Store. Players with equal OVR share a rank and the next
// distinct OVR skips the shared places (1, 1, 3).
func (s *MemoryStore) Rank(_ context.Context, playerID string) (types.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.players[playerID]
	if !ok {
		return types.Entry{}, ErrNotFound
	}
	ovr := p.latest().Metrics.OVR
	return s.entry(playerID, p, ahead(s.root, ovr)+1), nil
}

// TopN implements Store.
func (s *MemoryStore) TopN(_ context.Context, n int) ([]types.Entry, error) {
	if n < 1 {
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Entry, 0, min(n, len(s.players)))
	rank, prevOVR := 0, 0
	walk(s.root, func(nd *node) bool {
		if len(out) == n {
			return false
		}
		if len(out) == 0 || nd.ovr != prevOVR {
			rank = len(out) + 1
			prevOVR = nd.ovr
		}
		out = append(out, s.entry(nd.id, s.players[nd.id], rank))
		return true
	})
	return out, nil
}

// Count implements Store.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.players)
}

// Sessions returns the number of stored sessions across all players.
func (s *MemoryStore) Sessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions
}

func (s *MemoryStore) entry(id string, p *player, rank int) types.Entry {
	last := p.latest().Metrics
	return types.Entry{
		Rank:      rank,
		PlayerID:  id,
		OVR:       last.OVR,
		Position:  string(p.profile.Position),
		AgeGroup:  string(p.profile.AgeGroup),
		Evaluated: last.Timestamp,
	}
}
