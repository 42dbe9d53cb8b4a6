// Package service wires the record store, the job queue and the worker pool
// into the operations the CLI drives: ingest, submit, await and report.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/gutscore/internal/adapters/dataset"
	"github.com/okian/gutscore/internal/adapters/mq/queue"
	"github.com/okian/gutscore/internal/adapters/mq/worker"
	"github.com/okian/gutscore/internal/adapters/repository"
	"github.com/okian/gutscore/internal/domain/dedupe"
	"github.com/okian/gutscore/internal/domain/period"
	"github.com/okian/gutscore/internal/domain/scoring"
	"github.com/okian/gutscore/pkg/logger"
	"github.com/okian/gutscore/pkg/metrics"
)

// Record kinds used for dedupe keys and metrics labels.
const (
	kindBowel   = "bowel"
	kindWeight  = "weight"
	kindSymptom = "symptom"
	kindProfile = "profile"
)

// Service owns the engine components.
type Service struct {
	mu sync.RWMutex

	store   repository.Store
	results *repository.ResultStore
	deduper dedupe.Deduper
	scorer  scoring.Scorer
	queue   *queue.InMemoryQueue
	pool    *worker.Pool

	workerCount int
	queueSize   int
	dedupeSize  int
	shardCount  int
	jobTimeout  time.Duration
	loc         *time.Location

	started bool
	logger  logger.Logger
}

// New constructs a Service. Records can be ingested before Start; jobs can
// only be submitted between Start and Stop.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU(),
		queueSize:   1024,
		dedupeSize:  100_000,
		shardCount:  16,
		jobTimeout:  5 * time.Second,
		loc:         time.UTC,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.store == nil {
		s.store = repository.NewMemStore(repository.WithShardCount(s.shardCount))
	}
	if s.scorer == nil {
		s.scorer = scoring.NewEvaluator()
	}
	s.results = repository.NewResultStore()
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	return s
}

// Location returns the location calendar days are read in.
func (s *Service) Location() *time.Location {
	return s.loc
}

// Start creates the job queue and starts the worker pool.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.queue, s.store, s.scorer, s.results,
		worker.WithJobTimeout(s.jobTimeout),
		worker.WithLogger(s.logger),
	)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "service started",
		logger.Int("workers", s.pool.Size()),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)
	return nil
}

// Stop closes the queue and waits for queued jobs to finish or ctx to end.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.started = false

	if err := s.pool.Shutdown(ctx); err != nil {
		return fmt.Errorf("stop worker pool: %w", err)
	}
	s.logger.Info(ctx, "service stopped")
	return nil
}

// IngestStats counts the outcome of an Ingest call.
type IngestStats struct {
	Accepted   int
	Duplicates int
	Rejected   int
}

// Ingest stores a converted dataset. Records whose ID was already ingested
// are skipped. Records the store rejects are counted and logged; only a
// cancelled ctx aborts the batch.
func (s *Service) Ingest(ctx context.Context, b *dataset.Batch) (IngestStats, error) {
	var st IngestStats

	for _, w := range b.Warnings {
		s.logger.Warn(ctx, "dataset value outside known set", logger.String("detail", w))
	}

	for _, p := range b.Profiles {
		if err := s.put(ctx, &st, kindProfile, p.UserID, "", func() error { return s.store.PutProfile(ctx, p) }); err != nil {
			return st, err
		}
	}
	for _, r := range b.Bowel {
		if err := s.put(ctx, &st, kindBowel, r.UserID, r.ID, func() error { return s.store.PutBowel(ctx, r) }); err != nil {
			return st, err
		}
	}
	for _, r := range b.Weights {
		// the store keeps one weigh-in per day, so a repeat replaces instead of duplicating
		if err := s.put(ctx, &st, kindWeight, r.UserID, "", func() error { return s.store.PutWeight(ctx, r) }); err != nil {
			return st, err
		}
	}
	for _, r := range b.Symptoms {
		if err := s.put(ctx, &st, kindSymptom, r.UserID, r.ID, func() error { return s.store.PutSymptom(ctx, r) }); err != nil {
			return st, err
		}
	}

	s.logger.Info(ctx, "ingested records",
		logger.Int("accepted", st.Accepted),
		logger.Int("duplicates", st.Duplicates),
		logger.Int("rejected", st.Rejected),
	)
	return st, nil
}

// put writes one record unless the user already has a record of the same
// kind and id. An empty id skips dedupe.
func (s *Service) put(ctx context.Context, st *IngestStats, kind, userID, id string, write func() error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("ingest cancelled: %w", err)
	}

	key := dedupe.Key(kind, userID, id)
	if id != "" && s.deduper.SeenAndRecord(ctx, key) {
		st.Duplicates++
		metrics.RecordDuplicate()
		return nil
	}

	if err := write(); err != nil {
		if id != "" {
			s.deduper.Unrecord(ctx, key)
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("ingest cancelled: %w", err)
		}
		st.Rejected++
		metrics.RecordInvalidInput(kind)
		s.logger.Warn(ctx, "record rejected",
			logger.String("kind", kind),
			logger.String("user_id", userID),
			logger.String("id", id),
			logger.Error(err),
		)
		return nil
	}

	st.Accepted++
	metrics.RecordIngested(kind)
	return nil
}

// Submit queues an evaluation of userID over p and returns the job ID.
func (s *Service) Submit(ctx context.Context, userID string, p period.Period) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return "", ErrNotStarted
	}

	jobID := uuid.NewString()
	s.results.Register(jobID, userID)
	err := s.queue.Enqueue(ctx, queue.Job{
		ID:          jobID,
		UserID:      userID,
		Period:      p,
		SubmittedAt: time.Now(),
	})
	if err != nil {
		s.results.Drop(jobID)
		return "", fmt.Errorf("submit %s: %w", userID, err)
	}
	return jobID, nil
}

// Await blocks until the job finishes or ctx is done.
func (s *Service) Await(ctx context.Context, jobID string) (scoring.Result, error) {
	return s.results.Wait(ctx, jobID)
}

// Evaluate scores userID over p synchronously, bypassing the queue.
func (s *Service) Evaluate(ctx context.Context, userID string, p period.Period) (scoring.Result, error) {
	if err := p.Validate(); err != nil {
		return scoring.Result{}, err
	}
	records, err := s.store.BowelRecords(ctx, userID, p)
	if err != nil {
		metrics.RecordEvaluationError("fetch")
		return scoring.Result{}, fmt.Errorf("load records of %s: %w", userID, err)
	}

	start := time.Now()
	res, err := s.scorer.Score(ctx, scoring.Input{UserID: userID, Records: records})
	if err != nil {
		metrics.RecordEvaluationError("scorer")
		return scoring.Result{}, fmt.Errorf("score %s: %w", userID, err)
	}
	metrics.RecordEvaluation(res.Score, string(res.Classification.Tier), len(records),
		float64(time.Since(start).Microseconds())/1000)
	return res, nil
}

// Users returns every known user ID in ascending order.
func (s *Service) Users(ctx context.Context) []string {
	return s.store.Users(ctx)
}

// Stats describes the service state.
type Stats struct {
	Started       bool
	Workers       int
	QueueLength   int
	QueueCapacity int
	PendingJobs   int
	Users         int
	Records       int
	DedupeKeys    int64
}

// Stats returns a snapshot of the service state.
func (s *Service) Stats(ctx context.Context) Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{
		Started:     s.started,
		PendingJobs: s.results.Pending(),
		Users:       len(s.store.Users(ctx)),
		Records:     s.store.Count(ctx),
		DedupeKeys:  s.deduper.Size(),
	}
	if s.started {
		st.Workers = s.pool.Size()
		st.QueueLength = s.queue.Len()
		st.QueueCapacity = s.queue.Capacity()
	}
	return st
}
