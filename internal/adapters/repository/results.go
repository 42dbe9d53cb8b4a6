package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/gutscore/internal/domain/scoring"
)

// job tracks one submitted evaluation. done is closed once res or err is set.
type job struct {
	userID string
	done   chan struct{}
	res    scoring.Result
	err    error
}

// ResultStore keeps evaluation results per job and the latest result per
// user. A job is released once Wait has returned its outcome, so the store
// only holds jobs nobody has collected yet.
type ResultStore struct {
	mu      sync.Mutex
	jobs    map[string]*job
	latest  map[string]scoring.Result
	pending int
}

// NewResultStore creates an empty ResultStore.
func NewResultStore() *ResultStore {
	return &ResultStore{
		jobs:   make(map[string]*job),
		latest: make(map[string]scoring.Result),
	}
}

// Register marks jobID as pending for userID. Registering a known job is a
// no-op.
func (s *ResultStore) Register(jobID, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[jobID]; !ok {
		s.jobs[jobID] = &job{userID: userID, done: make(chan struct{})}
		s.pending++
	}
}

// Drop forgets jobID without an outcome, for jobs that never reached the
// queue.
func (s *ResultStore) Drop(jobID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[jobID]
	if !ok {
		return
	}
	select {
	case <-j.done:
	default:
		s.pending--
	}
	delete(s.jobs, jobID)
}

// Complete stores the result of jobID and wakes its waiters.
func (s *ResultStore) Complete(jobID string, res scoring.Result) {
	s.finish(jobID, res, nil)
}

// Fail stores err as the outcome of jobID and wakes its waiters.
func (s *ResultStore) Fail(jobID string, err error) {
	s.finish(jobID, scoring.Result{}, err)
}

func (s *ResultStore) finish(jobID string, res scoring.Result, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[jobID]
	if !ok {
		return // never registered or already collected
	}
	select {
	case <-j.done:
		return // first outcome wins
	default:
	}
	j.res, j.err = res, err
	close(j.done)
	s.pending--
	if err == nil {
		s.latest[j.userID] = res
	}
}

// Wait blocks until jobID finishes or ctx is done and then releases the job.
// Unknown or already collected jobs return ErrNotFound.
func (s *ResultStore) Wait(ctx context.Context, jobID string) (scoring.Result, error) {
	s.mu.Lock()
	j, ok := s.jobs[jobID]
	s.mu.Unlock()
	if !ok {
		return scoring.Result{}, fmt.Errorf("job %q: %w", jobID, ErrNotFound)
	}

	select {
	case <-j.done:
		s.mu.Lock()
		delete(s.jobs, jobID)
		s.mu.Unlock()
		return j.res, j.err
	case <-ctx.Done():
		return scoring.Result{}, fmt.Errorf("waiting for job %q: %w", jobID, ctx.Err())
	}
}

// Latest returns the most recent successful result of userID.
func (s *ResultStore) Latest(userID string) (scoring.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, ok := s.latest[userID]
	if !ok {
		return scoring.Result{}, fmt.Errorf("result of %q: %w", userID, ErrNotFound)
	}
	return res, nil
}

// Pending returns the number of registered jobs without an outcome.
func (s *ResultStore) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Len returns the number of jobs not yet collected by Wait.
func (s *ResultStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}
