package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bigale/gitforai/internal/domain"
)

func TestRankFiltersBelowThreshold(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	st := &fakeStore{candidates: []domain.SearchResult{
		candidate("aaa", 0.9, base),
		candidate("bbb", 0.75, base),
		candidate("ccc", 0.4, base),
	}}
	r := NewRanker(&fakeEmbedder{vector: []float32{1, 0}}, st, 2, 0.7, 3)

	results, err := r.Rank(context.Background(), domain.Query{ID: "q1", Text: "auth retries"})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "aaa", results[0].Commit.Hash)
	assert.Equal(t, "bbb", results[1].Commit.Hash)
	assert.Equal(t, 1, results[0].Rank)
	assert.Equal(t, 2, results[1].Rank)
}

func TestRankOverfetchesCandidates(t *testing.T) {
	st := &fakeStore{}
	r := NewRanker(&fakeEmbedder{vector: []float32{1, 0}}, st, 5, 0.7, 3)

	_, err := r.Rank(context.Background(), domain.Query{Text: "anything"})
	require.NoError(t, err)
	assert.Equal(t, 15, st.lastK)
}

func TestRankEmptyStoreYieldsEmptyResult(t *testing.T) {
	r := NewRanker(&fakeEmbedder{vector: []float32{1, 0}}, &fakeStore{}, 5, 0.7, 3)

	results, err := r.Rank(context.Background(), domain.Query{Text: "anything"})
	assert.NoError(t, err)
	assert.Empty(t, results)
}

func TestRankNeverPadsBelowThreshold(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	st := &fakeStore{candidates: []domain.SearchResult{
		candidate("aaa", 0.65, base),
		candidate("bbb", 0.5, base),
	}}
	r := NewRanker(&fakeEmbedder{vector: []float32{1, 0}}, st, 5, 0.7, 3)

	results, err := r.Rank(context.Background(), domain.Query{Text: "anything"})
	assert.NoError(t, err)
	assert.Empty(t, results)
}

func TestRankDeduplicatesHashes(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	st := &fakeStore{candidates: []domain.SearchResult{
		candidate("aaa", 0.9, base),
		candidate("aaa", 0.85, base),
		candidate("bbb", 0.8, base),
	}}
	r := NewRanker(&fakeEmbedder{vector: []float32{1, 0}}, st, 5, 0.7, 3)

	results, err := r.Rank(context.Background(), domain.Query{Text: "anything"})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "aaa", results[0].Commit.Hash)
	assert.Equal(t, "bbb", results[1].Commit.Hash)
}

func TestRankTieBreaksByRecencyThenHash(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	st := &fakeStore{candidates: []domain.SearchResult{
		candidate("older", 0.8, base),
		candidate("zzz", 0.8, base.Add(time.Hour)),
		candidate("aaa", 0.8, base.Add(time.Hour)),
	}}
	r := NewRanker(&fakeEmbedder{vector: []float32{1, 0}}, st, 5, 0.7, 3)

	results, err := r.Rank(context.Background(), domain.Query{Text: "anything"})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "aaa", results[0].Commit.Hash)
	assert.Equal(t, "zzz", results[1].Commit.Hash)
	assert.Equal(t, "older", results[2].Commit.Hash)
}

func TestRankPropagatesEmbedderError(t *testing.T) {
	r := NewRanker(&fakeEmbedder{err: errFakeStore}, &fakeStore{}, 5, 0.7, 3)

	_, err := r.Rank(context.Background(), domain.Query{Text: "anything"})
	assert.ErrorIs(t, err, errFakeStore)
}

func TestRankPropagatesStoreError(t *testing.T) {
	r := NewRanker(&fakeEmbedder{vector: []float32{1, 0}}, &fakeStore{err: errFakeStore}, 5, 0.7, 3)

	_, err := r.Rank(context.Background(), domain.Query{Text: "anything"})
	assert.ErrorIs(t, err, errFakeStore)
}
