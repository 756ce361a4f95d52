package service

import (
	"context"
	"fmt"

	"github.com/okian/talentlab/internal/domain/model"
	"github.com/okian/talentlab/internal/domain/recommend"
	"github.com/okian/talentlab/internal/domain/types"
)

// InsightRequest asks how one raw result compares with its benchmark.
type InsightRequest struct {
	TestID   string         `json:"test_id"`
	Raw      float64        `json:"raw"`
	Age      int            `json:"age"`
	AgeGroup model.AgeGroup `json:"age_group,omitempty"`
	Position model.Position `json:"position"`
}

// History returns the player's metrics oldest first.
func (s *Service) History(ctx context.Context, playerID string) ([]model.PlayerMetrics, error) {
	return s.store.History(ctx, playerID)
}

// Latest returns the player's most recent metrics.
func (s *Service) Latest(ctx context.Context, playerID string) (model.PlayerMetrics, error) {
	sess, _, err := s.store.Latest(ctx, playerID)
	if err != nil {
		return model.PlayerMetrics{}, err
	}
	return sess.Metrics, nil
}

// PlayerInsights compares the player's latest objective answers with their
// benchmarks.
func (s *Service) PlayerInsights(ctx context.Context, playerID string) ([]model.BenchmarkInsight, error) {
	sess, profile, err := s.store.Latest(ctx, playerID)
	if err != nil {
		return nil, err
	}
	return s.engine.Insights(model.Evaluation{
		PlayerID: playerID,
		Age:      profile.Age,
		Position: profile.Position,
		AgeGroup: profile.AgeGroup,
		Answers:  sess.Answers,
	}), nil
}

// Recommendations builds a drill plan from the player's latest metrics.
func (s *Service) Recommendations(ctx context.Context, playerID, philosophy string) (recommend.Plan, error) {
	sess, profile, err := s.store.Latest(ctx, playerID)
	if err != nil {
		return recommend.Plan{}, err
	}
	return s.filter.Recommend(sess.Metrics.PillarScores, profile.Age, profile.Position, philosophy), nil
}

// Insight answers a single benchmark comparison.
func (s *Service) Insight(_ context.Context, req InsightRequest) (model.BenchmarkInsight, error) {
	t, ok := s.catalog.Test(req.TestID)
	if !ok {
		return model.BenchmarkInsight{}, fmt.Errorf("%w: %s", ErrUnknownTest, req.TestID)
	}
	group := req.AgeGroup
	if group == "" {
		group = model.AgeGroupForAge(req.Age)
	}
	in, ok := s.engine.Insight(t.ID, req.Raw, group, req.Position, t.Label)
	if !ok {
		return model.BenchmarkInsight{}, fmt.Errorf("%w: %s", ErrNoBenchmark, req.TestID)
	}
	return in, nil
}

// QuestionSet returns the test definitions of a question set.
func (s *Service) QuestionSet(_ context.Context, name string) ([]model.TestDefinition, error) {
	set, err := model.ParseQuestionSet(name)
	if err != nil {
		return nil, err
	}
	return s.catalog.Tests(set), nil
}

// TopN returns the top n leaderboard entries.
func (s *Service) TopN(ctx context.Context, n int) ([]types.Entry, error) {
	return s.store.TopN(ctx, n)
}

// Rank returns the leaderboard row of a player.
func (s *Service) Rank(ctx context.Context, playerID string) (types.Entry, error) {
	return s.store.Rank(ctx, playerID)
}
