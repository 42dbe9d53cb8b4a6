package repository

import (
	"context"
	"fmt"
	"hash/fnv"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/gutscore/internal/domain/model"
	"github.com/okian/gutscore/internal/domain/period"
	"github.com/okian/gutscore/pkg/metrics"
)

const defaultShardCount = 16

// userRecords holds one user's data. Every slice is kept sorted by Date.
type userRecords struct {
	profile  *model.Profile
	bowel    []model.BowelRecord
	weights  []model.WeightRecord
	symptoms []model.SymptomRecord
}

type shard struct {
	mu    sync.RWMutex
	users map[string]*userRecords
}

// MemStore is an in-memory Store. Users are spread over shards by a hash of
// their ID so writers for different users rarely contend.
type MemStore struct {
	shards     []*shard
	shardCount int
	records    atomic.Int64
	userCount  atomic.Int64
}

// NewMemStore creates an empty MemStore.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{shardCount: defaultShardCount}
	for _, opt := range opts {
		opt(s)
	}
	s.shards = make([]*shard, s.shardCount)
	for i := range s.shards {
		s.shards[i] = &shard{users: make(map[string]*userRecords)}
	}
	return s
}

func (s *MemStore) shardFor(userID string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return s.shards[h.Sum32()%uint32(len(s.shards))] //nolint:gosec // len is a small positive int
}

// update runs fn on the user's records under the shard write lock, creating
// the user when needed. fn returns how many records it added.
func (s *MemStore) update(ctx context.Context, userID string, fn func(u *userRecords) int) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled: %w", err)
	}
	if userID == "" {
		return fmt.Errorf("%w: empty user id", ErrInvalidRecord)
	}

	sh := s.shardFor(userID)
	sh.mu.Lock()
	u, ok := sh.users[userID]
	if !ok {
		u = &userRecords{}
		sh.users[userID] = u
		s.userCount.Add(1)
	}
	added := fn(u)
	sh.mu.Unlock()

	s.records.Add(int64(added))
	metrics.UpdateRepositorySize(int(s.userCount.Load()), int(s.records.Load()))
	return nil
}

// view runs fn on the user's records under the shard read lock.
func (s *MemStore) view(ctx context.Context, userID string, fn func(u *userRecords)) error {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled: %w", err)
	}
	sh := s.shardFor(userID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	u, ok := sh.users[userID]
	if !ok {
		return fmt.Errorf("user %q: %w", userID, ErrNotFound)
	}
	fn(u)
	return nil
}

// PutBowel implements Store.
func (s *MemStore) PutBowel(ctx context.Context, r model.BowelRecord) error {
	return s.update(ctx, r.UserID, func(u *userRecords) int {
		i := sort.Search(len(u.bowel), func(i int) bool { return u.bowel[i].Date.After(r.Date) })
		u.bowel = insertAt(u.bowel, i, r)
		return 1
	})
}

// PutWeight implements Store.
func (s *MemStore) PutWeight(ctx context.Context, r model.WeightRecord) error {
	if r.WeightKg <= 0 {
		return fmt.Errorf("%w: weight %v kg", ErrInvalidRecord, r.WeightKg)
	}
	r.Date = model.Day(r.Date)
	return s.update(ctx, r.UserID, func(u *userRecords) int {
		i := sort.Search(len(u.weights), func(i int) bool { return !u.weights[i].Date.Before(r.Date) })
		if i < len(u.weights) && u.weights[i].Date.Equal(r.Date) {
			u.weights[i] = r
			return 0
		}
		u.weights = insertAt(u.weights, i, r)
		return 1
	})
}

// PutSymptom implements Store.
func (s *MemStore) PutSymptom(ctx context.Context, r model.SymptomRecord) error {
	return s.update(ctx, r.UserID, func(u *userRecords) int {
		i := sort.Search(len(u.symptoms), func(i int) bool { return u.symptoms[i].Date.After(r.Date) })
		u.symptoms = insertAt(u.symptoms, i, r)
		return 1
	})
}

// PutProfile implements Store.
func (s *MemStore) PutProfile(ctx context.Context, p model.Profile) error {
	return s.update(ctx, p.UserID, func(u *userRecords) int {
		u.profile = &p
		return 0
	})
}

// BowelRecords implements Store. Unknown users get ErrNotFound.
func (s *MemStore) BowelRecords(ctx context.Context, userID string, p period.Period) ([]model.BowelRecord, error) {
	var out []model.BowelRecord
	err := s.view(ctx, userID, func(u *userRecords) {
		out = within(u.bowel, p, func(r model.BowelRecord) time.Time { return r.Date })
	})
	return out, err
}

// WeightRecords implements Store.
func (s *MemStore) WeightRecords(ctx context.Context, userID string, p period.Period) ([]model.WeightRecord, error) {
	var out []model.WeightRecord
	err := s.view(ctx, userID, func(u *userRecords) {
		out = within(u.weights, p, func(r model.WeightRecord) time.Time { return r.Date })
	})
	return out, err
}

// SymptomRecords implements Store.
func (s *MemStore) SymptomRecords(ctx context.Context, userID string, p period.Period) ([]model.SymptomRecord, error) {
	var out []model.SymptomRecord
	err := s.view(ctx, userID, func(u *userRecords) {
		out = within(u.symptoms, p, func(r model.SymptomRecord) time.Time { return r.Date })
	})
	return out, err
}

// Profile implements Store.
func (s *MemStore) Profile(ctx context.Context, userID string) (model.Profile, error) {
	var (
		p     model.Profile
		found bool
	)
	err := s.view(ctx, userID, func(u *userRecords) {
		if u.profile != nil {
			p, found = *u.profile, true
		}
	})
	if err != nil {
		return model.Profile{}, err
	}
	if !found {
		return model.Profile{}, fmt.Errorf("profile of %q: %w", userID, ErrNotFound)
	}
	return p, nil
}

// Users implements Store.
func (s *MemStore) Users(_ context.Context) []string {
	var ids []string
	for _, sh := range s.shards {
		sh.mu.RLock()
		for id := range sh.users {
			ids = append(ids, id)
		}
		sh.mu.RUnlock()
	}
	sort.Strings(ids)
	return ids
}

// Count implements Store.
func (s *MemStore) Count(_ context.Context) int {
	return int(s.records.Load())
}

func insertAt[T any](xs []T, i int, v T) []T {
	var zero T
	xs = append(xs, zero)
	copy(xs[i+1:], xs[i:])
	xs[i] = v
	return xs
}

// within returns a copy of the sorted xs whose dates fall inside p.
func within[T any](xs []T, p period.Period, date func(T) time.Time) []T {
	lo := sort.Search(len(xs), func(i int) bool {
		return !model.Day(date(xs[i]).In(p.From.Location())).Before(p.From)
	})
	var out []T
	for _, x := range xs[lo:] {
		if !p.Contains(date(x)) {
			break
		}
		out = append(out, x)
	}
	return out
}
