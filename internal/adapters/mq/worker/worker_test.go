package worker_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/gutscore/internal/adapters/mq/queue"
	"github.com/okian/gutscore/internal/adapters/mq/worker"
	"github.com/okian/gutscore/internal/domain/model"
	"github.com/okian/gutscore/internal/domain/period"
	"github.com/okian/gutscore/internal/domain/scoring"
	logging "github.com/okian/gutscore/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	_ = logging.Init()
	goleak.VerifyTestMain(m)
}

type mockSource struct {
	mu      sync.Mutex
	records map[string][]model.BowelRecord
	errs    map[string]error
}

func newMockSource() *mockSource {
	return &mockSource{records: make(map[string][]model.BowelRecord), errs: make(map[string]error)}
}

func (s *mockSource) BowelRecords(_ context.Context, userID string, _ period.Period) ([]model.BowelRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.errs[userID]; ok {
		return nil, err
	}
	return s.records[userID], nil
}

type failingScorer struct{}

func (failingScorer) Score(context.Context, scoring.Input) (scoring.Result, error) {
	return scoring.Result{}, errors.New("scorer down")
}

type mockSink struct {
	mu       sync.Mutex
	results  map[string]scoring.Result
	failures map[string]error
	done     chan string
}

func newMockSink(buffer int) *mockSink {
	return &mockSink{
		results:  make(map[string]scoring.Result),
		failures: make(map[string]error),
		done:     make(chan string, buffer),
	}
}

func (s *mockSink) Complete(jobID string, res scoring.Result) {
	s.mu.Lock()
	s.results[jobID] = res
	s.mu.Unlock()
	s.done <- jobID
}

func (s *mockSink) Fail(jobID string, err error) {
	s.mu.Lock()
	s.failures[jobID] = err
	s.mu.Unlock()
	s.done <- jobID
}

func (s *mockSink) wait(n int) bool {
	for i := 0; i < n; i++ {
		select {
		case <-s.done:
		case <-time.After(2 * time.Second):
			return false
		}
	}
	return true
}

func healthy(user string) model.BowelRecord {
	return model.Movement("r-"+user, user, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), model.BloatingNone,
		model.WithStoolForm(4),
		model.WithDuration(model.Duration1To3),
		model.WithDifficulty(model.DifficultyEasy),
		model.WithResidual(model.ResidualNone),
		model.WithColor(model.ColorBrown),
	)
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a worker reading from a queue", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(10))
		source := newMockSource()
		sink := newMockSink(10)
		source.records["u1"] = []model.BowelRecord{healthy("u1")}
		source.errs["broken"] = errors.New("disk on fire")

		convey.Convey("When a job for a known user is processed", func() {
			w := worker.NewInMemoryWorker(q, source, scoring.NewEvaluator(), sink, worker.WithName("w-test"))
			go w.Run(context.Background())

			convey.So(q.Enqueue(context.Background(), queue.Job{ID: "j1", UserID: "u1"}), convey.ShouldBeNil)
			convey.So(sink.wait(1), convey.ShouldBeTrue)

			convey.Convey("Then the result reaches the sink", func() {
				convey.So(sink.results["j1"].Score, convey.ShouldEqual, 10.0)
				convey.So(sink.results["j1"].Classification.Tier, convey.ShouldEqual, scoring.TierGreen)
			})

			convey.So(w.Shutdown(context.Background()), convey.ShouldBeNil)
		})

		convey.Convey("When the source fails", func() {
			w := worker.NewInMemoryWorker(q, source, scoring.NewEvaluator(), sink)
			go w.Run(context.Background())

			_ = q.Enqueue(context.Background(), queue.Job{ID: "j2", UserID: "broken"})
			convey.So(sink.wait(1), convey.ShouldBeTrue)

			convey.Convey("Then the job is failed with the cause", func() {
				convey.So(sink.failures["j2"], convey.ShouldNotBeNil)
				convey.So(sink.failures["j2"].Error(), convey.ShouldContainSubstring, "disk on fire")
			})

			convey.So(w.Shutdown(context.Background()), convey.ShouldBeNil)
		})

		convey.Convey("When the scorer fails", func() {
			w := worker.NewInMemoryWorker(q, source, failingScorer{}, sink)
			go w.Run(context.Background())

			_ = q.Enqueue(context.Background(), queue.Job{ID: "j3", UserID: "u1"})
			convey.So(sink.wait(1), convey.ShouldBeTrue)

			convey.Convey("Then no result is published", func() {
				convey.So(sink.failures["j3"], convey.ShouldNotBeNil)
				_, ok := sink.results["j3"]
				convey.So(ok, convey.ShouldBeFalse)
			})

			convey.So(w.Shutdown(context.Background()), convey.ShouldBeNil)
		})

		convey.Convey("When the queue is closed", func() {
			w := worker.NewInMemoryWorker(q, source, scoring.NewEvaluator(), sink)
			go w.Run(context.Background())
			_ = q.Close()

			convey.Convey("Then the worker stops", func() {
				select {
				case <-w.Done():
				case <-time.After(time.Second):
					convey.So("worker did not stop", convey.ShouldBeEmpty)
				}
			})
		})

		convey.Convey("When the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			w := worker.NewInMemoryWorker(q, source, scoring.NewEvaluator(), sink)
			go w.Run(ctx)
			cancel()

			convey.Convey("Then the worker stops", func() {
				select {
				case <-w.Done():
				case <-time.After(time.Second):
					convey.So("worker did not stop", convey.ShouldBeEmpty)
				}
				convey.So(w.Shutdown(context.Background()), convey.ShouldBeNil)
			})
		})
	})
}

func TestPool(t *testing.T) {
	convey.Convey("Given a worker pool", t, func() {
		const users = 200
		q := queue.NewInMemoryQueue(queue.WithCapacity(users))
		source := newMockSource()
		sink := newMockSink(users)
		for i := 0; i < users; i++ {
			id := fmt.Sprintf("u%d", i)
			source.records[id] = []model.BowelRecord{healthy(id)}
		}

		pool := worker.NewPool(4, q, source, scoring.NewEvaluator(), sink, worker.WithJobTimeout(time.Second))
		convey.So(pool.Size(), convey.ShouldEqual, 4)
		pool.Start(context.Background())

		convey.Convey("When many jobs are queued", func() {
			for i := 0; i < users; i++ {
				err := q.Enqueue(context.Background(), queue.Job{ID: fmt.Sprintf("j%d", i), UserID: fmt.Sprintf("u%d", i)})
				convey.So(err, convey.ShouldBeNil)
			}
			convey.So(pool.Shutdown(context.Background()), convey.ShouldBeNil)

			convey.Convey("Then shutdown drains every job", func() {
				convey.So(sink.results, convey.ShouldHaveLength, users)
				convey.So(sink.failures, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When shutting down an idle pool", func() {
			convey.Convey("Then it returns promptly and closes the queue", func() {
				convey.So(pool.Shutdown(context.Background()), convey.ShouldBeNil)
				convey.So(q.IsClosed(), convey.ShouldBeTrue)
			})
		})
	})

	convey.Convey("Given a pool with a non-positive size", t, func() {
		q := queue.NewInMemoryQueue()
		pool := worker.NewPool(0, q, newMockSource(), scoring.NewEvaluator(), newMockSink(1))

		convey.Convey("Then it falls back to one worker per CPU", func() {
			convey.So(pool.Size(), convey.ShouldBeGreaterThan, 0)
			pool.Start(context.Background())
			convey.So(pool.Shutdown(context.Background()), convey.ShouldBeNil)
		})
	})
}
