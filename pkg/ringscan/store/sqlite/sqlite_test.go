package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/ringscan/pkg/ringscan/store"
)

func testMatch(i int) store.Match {
	return store.Match{
		SystemName:      fmt.Sprintf("System %d", i),
		X:               float64(i),
		Y:               float64(i),
		Z:               float64(i),
		DistanceFromSol: float64(i * 10),
		BodyCount:       i,
		BodyName:        fmt.Sprintf("System %d b", i),
		BodyJSON:        `{"name":"b"}`,
		SystemJSON:      fmt.Sprintf(`{"name":"System %d"}`, i),
	}
}

func openTest(t *testing.T, batchSize int) (store.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "galaxy.db")
	s, err := OpenSQLite(context.Background(), path, batchSize)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestSchemaIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "galaxy.db")

	s1, err := OpenSQLite(ctx, path, 0)
	require.NoError(t, err)
	require.NoError(t, s1.InsertMatch(ctx, testMatch(1)))
	require.NoError(t, s1.Flush(ctx))
	require.NoError(t, s1.Close())

	// Reopening against the same file must not error or lose data.
	s2, err := OpenSQLite(ctx, path, 0)
	require.NoError(t, err)
	defer s2.Close()

	n, err := s2.MatchCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestBatchCommitBoundary(t *testing.T) {
	ctx := context.Background()
	s, _ := openTest(t, 2)

	// Two inserts fill the batch and commit; the third stays in the open
	// transaction until Flush.
	require.NoError(t, s.InsertMatch(ctx, testMatch(1)))
	require.NoError(t, s.InsertMatch(ctx, testMatch(2)))
	require.NoError(t, s.InsertMatch(ctx, testMatch(3)))

	n, err := s.MatchCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n, "only the full batch should be committed")

	require.NoError(t, s.Flush(ctx))
	n, err = s.MatchCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestFlushEmptyBatch(t *testing.T) {
	ctx := context.Background()
	s, _ := openTest(t, 2)

	require.NoError(t, s.Flush(ctx))
	require.NoError(t, s.Flush(ctx))

	n, err := s.MatchCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCloseDropsOpenBatch(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "galaxy.db")

	s, err := OpenSQLite(ctx, path, 10)
	require.NoError(t, err)
	require.NoError(t, s.InsertMatch(ctx, testMatch(1)))
	require.NoError(t, s.Close())

	s2, err := OpenSQLite(ctx, path, 10)
	require.NoError(t, err)
	defer s2.Close()

	n, err := s2.MatchCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "uncommitted batch must not survive Close")
}

func TestNearestMatchesOrdering(t *testing.T) {
	ctx := context.Background()
	s, _ := openTest(t, 0)

	for _, i := range []int{3, 1, 2} {
		require.NoError(t, s.InsertMatch(ctx, testMatch(i)))
	}
	require.NoError(t, s.Flush(ctx))

	near, err := s.NearestMatches(ctx, 2)
	require.NoError(t, err)
	require.Len(t, near, 2)
	assert.Equal(t, "System 1", near[0].SystemName)
	assert.Equal(t, "System 2", near[1].SystemName)

	top, err := s.TopByBodyCount(ctx, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "System 3", top[0].SystemName)
}

func TestMatchRoundtrip(t *testing.T) {
	ctx := context.Background()
	s, _ := openTest(t, 0)

	in := testMatch(7)
	require.NoError(t, s.InsertMatch(ctx, in))
	require.NoError(t, s.Flush(ctx))

	rows, err := s.NearestMatches(ctx, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	got := rows[0]
	assert.NotZero(t, got.ID)
	assert.Equal(t, in.SystemName, got.SystemName)
	assert.Equal(t, in.X, got.X)
	assert.Equal(t, in.DistanceFromSol, got.DistanceFromSol)
	assert.Equal(t, in.BodyCount, got.BodyCount)
	assert.Equal(t, in.BodyName, got.BodyName)
	assert.JSONEq(t, in.BodyJSON, got.BodyJSON)
	assert.JSONEq(t, in.SystemJSON, got.SystemJSON)
}

func TestRecordRun(t *testing.T) {
	ctx := context.Background()
	s, _ := openTest(t, 0)

	start := time.Now().Add(-time.Minute)
	require.NoError(t, s.RecordRun(ctx, store.Run{
		ID:         "run-test-1",
		StartedAt:  start,
		FinishedAt: start.Add(30 * time.Second),
		Scanned:    1000,
		Matched:    30,
	}))

	runs, err := s.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, int64(1000), runs[0].Scanned)
	assert.Equal(t, int64(30), runs[0].Matched)
	assert.WithinDuration(t, start.UTC(), runs[0].StartedAt, time.Second)
}

func TestOptimize(t *testing.T) {
	ctx := context.Background()
	s, _ := openTest(t, 0)

	require.NoError(t, s.InsertMatch(ctx, testMatch(1)))
	require.NoError(t, s.Flush(ctx))
	require.NoError(t, s.Optimize(ctx))
}
