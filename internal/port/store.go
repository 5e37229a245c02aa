package port

import (
	"context"

	"github.com/bigale/gitforai/internal/domain"
)

// CommitStore persists commit records with their embeddings and serves
// nearest-neighbor queries. A reader observes either the whole pre-write or
// whole post-write state of a record, never a partial one.
type CommitStore interface {
	// Upsert inserts or replaces a record by commit hash. Idempotent.
	Upsert(ctx context.Context, rec *domain.CommitRecord) error

	// UpsertBatch inserts or replaces multiple records in one transaction.
	UpsertBatch(ctx context.Context, recs []*domain.CommitRecord) error

	// Query returns the k nearest records by cosine similarity, ties broken
	// by most-recent timestamp. An empty store yields an empty slice, not
	// an error.
	Query(ctx context.Context, vector []float32, k int) ([]domain.SearchResult, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// Close releases the store handle.
	Close() error
}
