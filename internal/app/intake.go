package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/okian/talentlab/internal/adapters/mq/queue"
	"github.com/okian/talentlab/internal/domain/model"
	"github.com/okian/talentlab/internal/domain/recommend"
	"github.com/okian/talentlab/internal/domain/scoring"
	"github.com/okian/talentlab/pkg/logger"
	"github.com/okian/talentlab/pkg/metrics"
)

// Accepted ages in years.
const (
	minAge = 5
	maxAge = 25
)

// SubmitResult reports what happened to a submitted evaluation.
type SubmitResult struct {
	EvaluationID string `json:"evaluation_id"`
	Duplicate    bool   `json:"duplicate"`
}

// Submit validates ev and queues it for scoring. An evaluation without an id
// gets a fresh UUID; one whose id was already seen is reported as a
// duplicate and not queued again.
func (s *Service) Submit(ctx context.Context, ev model.Evaluation) (SubmitResult, error) { //nolint:gocritic // evaluations are passed by value into the queue
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return SubmitResult{}, ErrNotStarted
	}
	if err := s.Validate(ev); err != nil {
		metrics.RecordEvaluationRejected("invalid")
		return SubmitResult{}, err
	}

	if ev.EvaluationID == "" {
		ev.EvaluationID = uuid.NewString()
	}
	if ev.TS.IsZero() {
		ev.TS = s.now().UTC()
	}
	if ev.AgeGroup == "" {
		ev.AgeGroup = model.AgeGroupForAge(ev.Age)
	}
	res := SubmitResult{EvaluationID: ev.EvaluationID}

	if s.deduper.SeenAndRecord(ctx, ev.EvaluationID) {
		metrics.RecordEvaluationDuplicate()
		s.logger.Debug(ctx, "duplicate evaluation", logger.String("evaluation_id", ev.EvaluationID))
		res.Duplicate = true
		return res, nil
	}

	if err := s.queue.Enqueue(ctx, ev); err != nil {
		s.deduper.Unrecord(ctx, ev.EvaluationID)
		if errors.Is(err, queue.ErrFull) {
			metrics.RecordEvaluationRejected("queue_full")
			return SubmitResult{}, fmt.Errorf("%w: %w", ErrQueueFull, err)
		}
		metrics.RecordEvaluationRejected("enqueue")
		return SubmitResult{}, err
	}

	metrics.RecordEvaluationAccepted()
	return res, nil
}

// Preview scores ev synchronously without storing it.
func (s *Service) Preview(_ context.Context, ev model.Evaluation) (scoring.Result, error) { //nolint:gocritic // mirrors Submit
	if err := s.Validate(ev); err != nil {
		return scoring.Result{}, err
	}
	if ev.TS.IsZero() {
		ev.TS = s.now().UTC()
	}
	return s.engine.Evaluate(ev), nil
}

// Assessment is a preview together with the feedback derived from it.
type Assessment struct {
	Result          scoring.Result           `json:"result"`
	Insights        []model.BenchmarkInsight `json:"insights"`
	Recommendations recommend.Plan           `json:"recommendations"`
}

// Assess previews ev and adds its benchmark insights and a drill plan built
// from the previewed pillar scores. Nothing is stored.
func (s *Service) Assess(ctx context.Context, ev model.Evaluation, philosophy string) (Assessment, error) { //nolint:gocritic // mirrors Preview
	res, err := s.Preview(ctx, ev)
	if err != nil {
		return Assessment{}, err
	}
	return Assessment{
		Result:          res,
		Insights:        s.engine.Insights(ev),
		Recommendations: s.filter.Recommend(res.Metrics.PillarScores, ev.Age, ev.Position, philosophy),
	}, nil
}

// Validate checks an evaluation before it is scored. Unknown test ids are
// allowed; scoring skips them.
func (s *Service) Validate(ev model.Evaluation) error { //nolint:gocritic // read-only
	switch {
	case ev.PlayerID == "":
		return fmt.Errorf("%w: player_id is required", ErrInvalidEvaluation)
	case ev.Age < minAge || ev.Age > maxAge:
		return fmt.Errorf("%w: age %d outside %d..%d", ErrInvalidEvaluation, ev.Age, minAge, maxAge)
	case ev.Position == "":
		return fmt.Errorf("%w: position is required", ErrInvalidEvaluation)
	case !s.catalog.HasPosition(ev.Position):
		return fmt.Errorf("%w: unknown position %q", ErrInvalidEvaluation, ev.Position)
	case len(ev.Answers) == 0:
		return fmt.Errorf("%w: answers are required", ErrInvalidEvaluation)
	}

	for id, v := range ev.Answers {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: answer %s is not a finite number", ErrInvalidEvaluation, id)
		}
		if _, known := s.catalog.Test(id); !known || s.catalog.IsObjective(id) {
			continue
		}
		if v < scoring.MinScore || v > scoring.MaxScore {
			return fmt.Errorf("%w: rating %s=%g outside %g..%g", ErrInvalidEvaluation, id, v, scoring.MinScore, scoring.MaxScore)
		}
	}
	return nil
}
