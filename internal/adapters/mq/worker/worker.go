// Package worker scores queued evaluations and appends them to player history.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/talentlab/internal/domain/model"
	"github.com/okian/talentlab/internal/domain/scoring"
	"github.com/okian/talentlab/pkg/logger"
	"github.com/okian/talentlab/pkg/metrics"
)

const poolShutdownTimeout = 30 * time.Second

// ErrShutdownTimeout is returned when workers do not drain in time.
var ErrShutdownTimeout = errors.New("worker pool shutdown timed out")

// Scorer turns an evaluation into pillar scores and an OVR.
type Scorer interface {
	Evaluate(ev model.Evaluation) scoring.Result
}

// Store appends a scored evaluation to a player's history.
type Store interface {
	Append(ctx context.Context, playerID string, profile model.Profile, m model.PlayerMetrics, answers map[string]float64) error
}

// Queue is the receive side workers consume.
type Queue interface {
	Dequeue() <-chan model.Evaluation
}

// Worker drains evaluations from a queue until it is closed or the context ends.
type Worker struct {
	queue  Queue
	scorer Scorer
	store  Store
	name   string
	logger logger.Logger

	processed *atomic.Int64
}

// NewWorker creates a worker.
func NewWorker(q Queue, scorer Scorer, store Store, opts ...Option) *Worker {
	w := &Worker{
		queue:     q,
		scorer:    scorer,
		store:     store,
		name:      "worker",
		logger:    logger.Get().Named("worker"),
		processed: &atomic.Int64{},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run processes evaluations until the queue channel closes or ctx is done.
func (w *Worker) Run(ctx context.Context) {
	events := w.queue.Dequeue()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := w.process(ctx, ev); err != nil {
				w.logger.Error(ctx, "evaluation not stored",
					logger.String("worker", w.name),
					logger.String("evaluation_id", ev.EvaluationID),
					logger.Error(err),
				)
			}
		}
	}
}

func (w *Worker) process(ctx context.Context, ev model.Evaluation) error { //nolint:gocritic // value semantics through the channel
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	res := w.scorer.Evaluate(ev)
	metrics.RecordScoringLatency(float64(time.Since(start).Microseconds()) / 1000)
	if n := len(res.Skipped); n > 0 {
		metrics.RecordSkippedAnswers(n)
		w.logger.Warn(ctx, "unknown tests ignored",
			logger.String("evaluation_id", ev.EvaluationID),
			logger.Any("test_ids", res.Skipped),
		)
	}

	if err := w.store.Append(ctx, ev.PlayerID, ev.Profile(), res.Metrics, ev.Answers); err != nil {
		metrics.RecordWorkerError()
		return fmt.Errorf("append %s: %w", ev.EvaluationID, err)
	}

	w.processed.Add(1)
	metrics.RecordEvaluationScored(res.Metrics.OVR)
	w.logger.Debug(ctx, "evaluation scored",
		logger.String("evaluation_id", ev.EvaluationID),
		logger.String("player_id", ev.PlayerID),
		logger.Int("ovr", res.Metrics.OVR),
	)
	return nil
}

// Pool runs a fixed number of workers over one queue.
type Pool struct {
	workers   []*Worker
	queue     Queue
	processed *atomic.Int64
	logger    logger.Logger

	group  *errgroup.Group
	cancel context.CancelFunc
}

// NewPool creates a pool. A non-positive count uses one worker per CPU.
func NewPool(count int, q Queue, scorer Scorer, store Store) *Pool {
	if count < 1 {
		count = runtime.NumCPU()
	}

	p := &Pool{
		workers:   make([]*Worker, count),
		queue:     q,
		processed: &atomic.Int64{},
		logger:    logger.Get().Named("worker-pool"),
	}
	for i := range p.workers {
		w := NewWorker(q, scorer, store, WithName("worker-"+strconv.Itoa(i)))
		w.processed = p.processed
		p.workers[i] = w
	}
	return p
}

// Start launches every worker. Cancelling ctx stops them without draining.
func (p *Pool) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	p.group, ctx = errgroup.WithContext(ctx)
	for _, w := range p.workers {
		p.group.Go(func() error {
			w.Run(ctx)
			return nil
		})
	}
	metrics.UpdateWorkerCount(len(p.workers))
	p.logger.Info(ctx, "workers started", logger.Int("count", len(p.workers)))
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Processed returns how many evaluations the pool has stored.
func (p *Pool) Processed() int64 { return p.processed.Load() }

// Shutdown closes the queue when it can be closed and waits for workers to
// drain what is left. Workers still busy when ctx (or the pool timeout)
// expires are cancelled.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}
	if p.group == nil {
		return nil
	}

	done := make(chan struct{})
	go func() {
		_ = p.group.Wait()
		close(done)
	}()

	ctx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	select {
	case <-done:
		metrics.UpdateWorkerCount(0)
		return nil
	case <-ctx.Done():
		p.cancel()
		<-done
		metrics.UpdateWorkerCount(0)
		p.logger.Warn(ctx, "workers cancelled before draining")
		return ErrShutdownTimeout
	}
}
