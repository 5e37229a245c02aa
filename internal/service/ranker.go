// Package service contains the retrieval, enrichment, and assembly stages
// of the context injection pipeline.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/bigale/gitforai/internal/domain"
	"github.com/bigale/gitforai/internal/port"
)

// Ranker orchestrates query embedding and nearest-neighbor retrieval.
// It overfetches candidates so threshold filtering cannot starve the
// result set, then filters, orders, and truncates.
type Ranker struct {
	embedder   port.Embedder
	store      port.CommitStore
	maxResults int
	threshold  float64
	overfetch  int
}

// NewRanker creates a ranker over the given embedder and store.
func NewRanker(embedder port.Embedder, store port.CommitStore, maxResults int, threshold float64, overfetch int) *Ranker {
	if overfetch < 1 {
		overfetch = 1
	}
	return &Ranker{
		embedder:   embedder,
		store:      store,
		maxResults: maxResults,
		threshold:  threshold,
		overfetch:  overfetch,
	}
}

// Rank returns at most maxResults commits relevant to the query, in strictly
// non-increasing score order with no duplicate hashes. An empty result is a
// valid terminal state, never padded with below-threshold candidates.
func (r *Ranker) Rank(ctx context.Context, query domain.Query) ([]domain.SearchResult, error) {
	queryVector, err := r.embedder.Embed(ctx, query.Text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	candidates, err := r.store.Query(ctx, queryVector, r.maxResults*r.overfetch)
	if err != nil {
		return nil, fmt.Errorf("search commits: %w", err)
	}

	slog.Debug("retrieved candidates",
		"query_id", query.ID,
		"candidates", len(candidates),
		"threshold", r.threshold,
	)

	seen := make(map[string]bool, len(candidates))
	results := make([]domain.SearchResult, 0, r.maxResults)
	for _, c := range candidates {
		if c.Score < r.threshold || seen[c.Commit.Hash] {
			continue
		}
		seen[c.Commit.Hash] = true
		results = append(results, c)
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if !results[i].Commit.Timestamp.Equal(results[j].Commit.Timestamp) {
			return results[i].Commit.Timestamp.After(results[j].Commit.Timestamp)
		}
		return results[i].Commit.Hash < results[j].Commit.Hash
	})

	if len(results) > r.maxResults {
		results = results[:r.maxResults]
	}
	for i := range results {
		results[i].Rank = i + 1
	}
	return results, nil
}
