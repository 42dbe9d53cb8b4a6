// Package worker runs queued evaluation jobs: it loads a user's records,
// scores them and publishes the result.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/okian/gutscore/internal/adapters/mq/queue"
	"github.com/okian/gutscore/internal/domain/model"
	"github.com/okian/gutscore/internal/domain/period"
	"github.com/okian/gutscore/internal/domain/scoring"
	"github.com/okian/gutscore/pkg/logger"
	"github.com/okian/gutscore/pkg/metrics"
)

const (
	defaultJobTimeout     = 5 * time.Second
	workerShutdownTimeout = 5 * time.Second
)

// Source loads the bowel records a job is scored over.
type Source interface {
	BowelRecords(ctx context.Context, userID string, p period.Period) ([]model.BowelRecord, error)
}

// Sink receives the outcome of every job.
type Sink interface {
	Complete(jobID string, res scoring.Result)
	Fail(jobID string, err error)
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue() <-chan queue.Job
}

// InMemoryWorker processes jobs from a Queue until it is closed, drained or
// shut down.
type InMemoryWorker struct {
	queue      Queue
	source     Source
	scorer     scoring.Scorer
	sink       Sink
	name       string
	jobTimeout time.Duration

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a worker.
func NewInMemoryWorker(q Queue, source Source, scorer scoring.Scorer, sink Sink, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:      q,
		source:     source,
		scorer:     scorer,
		sink:       sink,
		name:       "worker",
		jobTimeout: defaultJobTimeout,
		shutdown:   make(chan struct{}),
		done:       make(chan struct{}),
		logger:     logger.Get(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.Named(w.name)
	return w
}

// Run processes jobs until ctx is done, Shutdown is called or the queue is
// closed and drained.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue()
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case j, ok := <-jobs:
			if !ok {
				return
			}
			metrics.RecordQueueDequeue()
			if err := w.process(ctx, j); err != nil {
				w.logger.Error(ctx, "job failed",
					logger.String("job_id", j.ID),
					logger.String("user_id", j.UserID),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown stops the worker after its current job.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Done is closed once Run has returned.
func (w *InMemoryWorker) Done() <-chan struct{} {
	return w.done
}

func (w *InMemoryWorker) process(ctx context.Context, j queue.Job) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	ctx, cancel := context.WithTimeout(ctx, w.jobTimeout)
	defer cancel()

	records, err := w.source.BowelRecords(ctx, j.UserID, j.Period)
	if err != nil {
		metrics.RecordWorkerError("fetch")
		err = fmt.Errorf("load records of %s: %w", j.UserID, err)
		w.sink.Fail(j.ID, err)
		return err
	}

	evalStart := time.Now()
	res, err := w.scorer.Score(ctx, scoring.Input{UserID: j.UserID, Records: records})
	if err != nil {
		metrics.RecordWorkerError("score")
		metrics.RecordEvaluationError("scorer")
		err = fmt.Errorf("score %s: %w", j.UserID, err)
		w.sink.Fail(j.ID, err)
		return err
	}
	metrics.RecordEvaluation(res.Score, string(res.Classification.Tier), len(records),
		float64(time.Since(evalStart).Microseconds())/1000)

	w.sink.Complete(j.ID, res)
	w.logger.Debug(ctx, "job scored",
		logger.String("job_id", j.ID),
		logger.String("user_id", j.UserID),
		logger.String("period", j.Period.String()),
		logger.Int("records", len(records)),
		logger.Float64("score", res.Score),
	)
	return nil
}

// Pool manages multiple workers sharing one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	logger  logger.Logger
}

// NewPool creates a pool of workerCount workers. A count below one uses
// runtime.NumCPU(). opts are applied to every worker.
func NewPool(workerCount int, q Queue, source Source, scorer scoring.Scorer, sink Sink, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := range p.workers {
		wopts := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		p.workers[i] = NewInMemoryWorker(q, source, scorer, sink, wopts...)
	}

	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	p.logger.Info(ctx, "worker pool started", logger.Int("workers", len(p.workers)))
}

// Shutdown closes the queue and waits for the workers to drain it. When ctx
// expires first the workers are told to stop after their current job.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	for _, w := range p.workers {
		select {
		case <-w.done:
			continue
		case <-ctx.Done():
		}
		stopCtx, cancel := context.WithTimeout(context.Background(), workerShutdownTimeout)
		err := w.Shutdown(stopCtx)
		cancel()
		if err != nil {
			p.logger.Warn(ctx, "worker shutdown timed out", logger.String("worker", w.name))
			return fmt.Errorf("worker %s: %w", w.name, err)
		}
	}

	metrics.UpdateWorkerCount(0)
	p.logger.Info(ctx, "worker pool stopped")
	return nil
}
