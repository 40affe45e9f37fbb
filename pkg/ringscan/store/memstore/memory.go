package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/cognicore/ringscan/pkg/ringscan/store"
)

// Store is an in-memory implementation of store.Store for tests. It mimics
// the batch semantics of the SQLite store: inserts land in a pending slice
// and only become visible to the query methods once committed, either by
// filling a batch or by Flush.
type Store struct {
	mu        sync.RWMutex
	batchSize int
	nextID    int64
	pending   []store.Match
	matches   []store.Match
	runs      []store.Run
	commits   int
}

// New creates an in-memory store committing every batchSize rows. A
// batchSize <= 0 commits on Flush only.
func New(batchSize int) *Store {
	return &Store{batchSize: batchSize, nextID: 1}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// InsertMatch queues a row and commits when the batch fills.
func (s *Store) InsertMatch(ctx context.Context, m store.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m.ID = s.nextID
	s.nextID++
	s.pending = append(s.pending, m)
	if s.batchSize > 0 && len(s.pending) >= s.batchSize {
		s.commitLocked()
	}
	return nil
}

// Flush commits the partial batch.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) > 0 {
		s.commitLocked()
	}
	return nil
}

func (s *Store) commitLocked() {
	s.matches = append(s.matches, s.pending...)
	s.pending = nil
	s.commits++
}

// MatchCount returns the number of committed rows.
func (s *Store) MatchCount(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.matches)), nil
}

// NearestMatches returns committed rows ordered by distance from Sol.
func (s *Store) NearestMatches(ctx context.Context, limit int) ([]store.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := append([]store.Match(nil), s.matches...)
	sort.Slice(out, func(i, j int) bool {
		return out[i].DistanceFromSol < out[j].DistanceFromSol
	})
	return clip(out, limit), nil
}

// TopByBodyCount returns committed rows ordered by body count, descending.
func (s *Store) TopByBodyCount(ctx context.Context, limit int) ([]store.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := append([]store.Match(nil), s.matches...)
	sort.Slice(out, func(i, j int) bool {
		return out[i].BodyCount > out[j].BodyCount
	})
	return clip(out, limit), nil
}

// RecordRun appends a run record.
func (s *Store) RecordRun(ctx context.Context, r store.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, r)
	return nil
}

// Runs returns recorded runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]store.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := append([]store.Run(nil), s.runs...)
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	return out, nil
}

// Optimize implements store.Store as a no-op.
func (s *Store) Optimize(ctx context.Context) error { return nil }

// Commits reports how many batch commits have happened. Test helper.
func (s *Store) Commits() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.commits
}

// Pending reports how many rows sit in the open batch. Test helper.
func (s *Store) Pending() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pending)
}

func clip(in []store.Match, limit int) []store.Match {
	if limit > 0 && len(in) > limit {
		in = in[:limit]
	}
	return in
}
