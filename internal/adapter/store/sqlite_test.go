package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bigale/gitforai/internal/domain"
	"github.com/bigale/gitforai/internal/port"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "index.sqlite"), 3)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func rec(hash string, ts time.Time, embedding []float32) *domain.CommitRecord {
	return &domain.CommitRecord{
		Hash:      hash,
		Author:    "dev",
		Message:   "commit " + hash,
		Timestamp: ts,
		Embedding: embedding,
	}
}

func TestSQLiteStoreQueryEmptyStore(t *testing.T) {
	s := newTestStore(t)

	results, err := s.Query(context.Background(), []float32{1, 0, 0}, 5)
	assert.NoError(t, err)
	assert.Empty(t, results)
}

func TestSQLiteStoreUpsertAndQuery(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.UpsertBatch(ctx, []*domain.CommitRecord{
		rec("aaa111", base, []float32{1, 0, 0}),
		rec("bbb222", base.Add(time.Hour), []float32{0.9, 0.1, 0}),
		rec("ccc333", base.Add(2*time.Hour), []float32{0, 1, 0}),
	}))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	results, err := s.Query(ctx, []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "aaa111", results[0].Commit.Hash)
	assert.Equal(t, "bbb222", results[1].Commit.Hash)
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)
	assert.Equal(t, 1, results[0].Rank)
	assert.Equal(t, 2, results[1].Rank)
}

func TestSQLiteStoreUpsertIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.Upsert(ctx, rec("aaa111", ts, []float32{1, 0, 0})))

	updated := rec("aaa111", ts, []float32{0, 1, 0})
	updated.Message = "amended"
	require.NoError(t, s.Upsert(ctx, updated))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	results, err := s.Query(ctx, []float32{0, 1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "amended", results[0].Commit.Message)
}

func TestSQLiteStoreQueryTieBreaksByRecencyThenHash(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// Identical embeddings force equal scores.
	require.NoError(t, s.UpsertBatch(ctx, []*domain.CommitRecord{
		rec("older", base, []float32{1, 0, 0}),
		rec("newer", base.Add(time.Hour), []float32{1, 0, 0}),
		rec("alpha", base, []float32{1, 0, 0}),
	}))

	results, err := s.Query(ctx, []float32{1, 0, 0}, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "newer", results[0].Commit.Hash)
	assert.Equal(t, "alpha", results[1].Commit.Hash)
	assert.Equal(t, "older", results[2].Commit.Hash)
}

func TestSQLiteStoreQueryKLargerThanStore(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, rec("aaa111", time.Now().UTC(), []float32{1, 0, 0})))

	results, err := s.Query(ctx, []float32{1, 0, 0}, 50)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestSQLiteStoreQueryDegenerateArguments(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	results, err := s.Query(ctx, []float32{1, 0, 0}, 0)
	assert.NoError(t, err)
	assert.Nil(t, results)

	results, err = s.Query(ctx, nil, 5)
	assert.NoError(t, err)
	assert.Nil(t, results)
}

func TestSQLiteStoreRejectsWrongDimensions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.Upsert(ctx, rec("aaa111", time.Now().UTC(), []float32{1, 0}))
	assert.ErrorIs(t, err, port.ErrDimensionMismatch)

	err = s.UpsertBatch(ctx, []*domain.CommitRecord{
		rec("bbb222", time.Now().UTC(), []float32{1, 0, 0, 0}),
	})
	assert.ErrorIs(t, err, port.ErrDimensionMismatch)
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.sqlite")
	ctx := context.Background()

	s, err := NewSQLiteStore(path, 3)
	require.NoError(t, err)
	require.NoError(t, s.Upsert(ctx, rec("aaa111", time.Now().UTC(), []float32{1, 0, 0})))
	require.NoError(t, s.Close())

	s, err = NewSQLiteStore(path, 3)
	require.NoError(t, err)
	defer s.Close()

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
