package service

import (
	"context"
	"errors"
	"time"

	"github.com/bigale/gitforai/internal/domain"
)

// fakeEmbedder returns a fixed vector for any input.
type fakeEmbedder struct {
	vector []float32
	err    error
}

func (f *fakeEmbedder) ModelName() string { return "fake" }
func (f *fakeEmbedder) Dimensions() int   { return len(f.vector) }

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.vector, nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		v, err := f.Embed(ctx, texts[i])
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// fakeStore serves a canned candidate list, already score-ordered the way a
// real store would return it.
type fakeStore struct {
	candidates []domain.SearchResult
	err        error
	lastK      int
	upserted   []*domain.CommitRecord
}

func (f *fakeStore) Upsert(ctx context.Context, rec *domain.CommitRecord) error {
	f.upserted = append(f.upserted, rec)
	return f.err
}

func (f *fakeStore) UpsertBatch(ctx context.Context, recs []*domain.CommitRecord) error {
	f.upserted = append(f.upserted, recs...)
	return f.err
}

func (f *fakeStore) Query(ctx context.Context, queryVector []float32, k int) ([]domain.SearchResult, error) {
	f.lastK = k
	if f.err != nil {
		return nil, f.err
	}
	if len(f.candidates) > k {
		return f.candidates[:k], nil
	}
	return f.candidates, nil
}

func (f *fakeStore) Count(ctx context.Context) (int, error) {
	return len(f.candidates), f.err
}

func (f *fakeStore) Close() error { return nil }

var errFakeStore = errors.New("store is down")

func candidate(hash string, score float64, ts time.Time) domain.SearchResult {
	return domain.SearchResult{
		Commit: domain.CommitRecord{
			Hash:      hash,
			Message:   "commit " + hash,
			Timestamp: ts,
		},
		Score: score,
	}
}
