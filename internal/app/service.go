// Package service wires the scoring pipeline to intake, storage and the
// read side used by the HTTP API.
package service

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/okian/talentlab/internal/adapters/mq/queue"
	"github.com/okian/talentlab/internal/adapters/mq/worker"
	"github.com/okian/talentlab/internal/adapters/repository"
	"github.com/okian/talentlab/internal/domain/catalog"
	"github.com/okian/talentlab/internal/domain/dedupe"
	"github.com/okian/talentlab/internal/domain/recommend"
	"github.com/okian/talentlab/internal/domain/scoring"
	"github.com/okian/talentlab/pkg/logger"
	"github.com/okian/talentlab/pkg/metrics"
)

// Defaults for the intake pipeline.
const (
	defaultQueueSize  = 10000
	defaultDedupeSize = 50000
)

// Service implements the API dependencies for the scoring system.
type Service struct {
	mu sync.RWMutex

	catalog *catalog.Catalog
	engine  *scoring.Engine
	filter  *recommend.Filter
	store   *repository.MemoryStore
	deduper dedupe.Deduper
	queue   *queue.InMemoryQueue
	pool    *worker.Pool

	workerCount int
	queueSize   int
	dedupeSize  int
	now         func() time.Time

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of scoring workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the evaluation queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many evaluation ids are remembered. Zero keeps
// every id; negative values are ignored.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size >= 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the time source used to stamp evaluations that
// arrive without a timestamp.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a Service over cat. Synchronous operations (preview,
// insights, catalog reads) work immediately; intake needs Start.
func New(cat *catalog.Catalog, opts ...Option) *Service {
	s := &Service{
		catalog:     cat,
		store:       repository.NewMemoryStore(),
		workerCount: runtime.NumCPU(),
		queueSize:   defaultQueueSize,
		dedupeSize:  defaultDedupeSize,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.engine = scoring.NewEngine(cat, scoring.WithObserver(func(kind scoring.Fallback, _ string) {
		metrics.RecordFallback(string(kind))
	}))
	s.filter = recommend.NewFilter(cat)
	return s
}

// Start creates the queue and starts the worker pool.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.queue, s.engine, s.store)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "scoring service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queue_size", s.queueSize),
		logger.Int("dedupe_size", s.dedupeSize),
	)
	return nil
}

// Stop closes intake and waits for queued evaluations to be stored.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.started = false

	err := s.pool.Shutdown(ctx)
	s.logger.Info(ctx, "scoring service stopped", logger.Int("processed", int(s.pool.Processed())))
	return err
}

// Catalog returns the reference data the service scores against.
func (s *Service) Catalog() *catalog.Catalog { return s.catalog }

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
		"players":     s.store.Count(ctx),
		"evaluations": s.store.Sessions(),
		"catalog":     s.catalog.Stats(),
	}
	if s.queue != nil {
		stats["queueLength"] = s.queue.Len()
		stats["processed"] = s.pool.Processed()
		stats["dedupeEntries"] = s.deduper.Size()
	}
	return stats
}
