package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bigale/gitforai/internal/domain"
	"github.com/bigale/gitforai/internal/port"
	"github.com/bigale/gitforai/internal/vector"
)

const (
	indexBatchSize = 16
	// embedDiffBytes caps how much of a diff participates in the embedding
	// text; the full diff is still stored for delta analysis.
	embedDiffBytes = 4096
)

// Indexer builds and updates the vector index from a repository's commit
// history. Writes go through UpsertBatch so readers only ever observe whole
// batches.
type Indexer struct {
	vcs      port.VCSProvider
	embedder port.Embedder
	store    port.CommitStore
	repoPath string
}

// NewIndexer creates an indexer for the repository at repoPath.
func NewIndexer(vcs port.VCSProvider, embedder port.Embedder, store port.CommitStore, repoPath string) *Indexer {
	return &Indexer{
		vcs:      vcs,
		embedder: embedder,
		store:    store,
		repoPath: repoPath,
	}
}

// Run indexes up to limit commits (0 = full history) and returns the number
// of records written. Re-running is idempotent: records are keyed by hash.
func (ix *Indexer) Run(ctx context.Context, limit int) (int, error) {
	commits, err := ix.vcs.Log(ctx, ix.repoPath, limit)
	if err != nil {
		return 0, fmt.Errorf("read history: %w", err)
	}
	if len(commits) == 0 {
		return 0, nil
	}

	head, _ := ix.vcs.HeadHash(ctx, ix.repoPath)
	slog.Info("indexing commit history", "repo", ix.repoPath, "head", head, "commits", len(commits))

	indexed := 0
	for start := 0; start < len(commits); start += indexBatchSize {
		end := start + indexBatchSize
		if end > len(commits) {
			end = len(commits)
		}

		batch, err := ix.indexBatch(ctx, commits[start:end])
		if err != nil {
			return indexed, err
		}
		indexed += batch

		slog.Info("indexed batch", "done", indexed, "total", len(commits))
	}
	return indexed, nil
}

func (ix *Indexer) indexBatch(ctx context.Context, commits []domain.CommitRecord) (int, error) {
	recs := make([]*domain.CommitRecord, 0, len(commits))
	texts := make([]string, 0, len(commits))

	for i := range commits {
		rec := commits[i]

		diff, err := ix.vcs.CommitDiff(ctx, ix.repoPath, rec.Hash)
		if err != nil {
			slog.Warn("skipping commit, diff unavailable", "hash", rec.Hash, "error", err)
			continue
		}
		rec.Diff = diff

		text := embedText(rec)
		if len(strings.TrimSpace(text)) < port.MinEmbedInput {
			slog.Warn("skipping commit, nothing to embed", "hash", rec.Hash)
			continue
		}

		recs = append(recs, &rec)
		texts = append(texts, text)
	}
	if len(recs) == 0 {
		return 0, nil
	}

	vectors, err := ix.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed batch: %w", err)
	}
	if len(vectors) != len(recs) {
		return 0, fmt.Errorf("embed batch: got %d vectors for %d commits", len(vectors), len(recs))
	}

	for i, v := range vectors {
		vector.Normalize(v)
		recs[i].Embedding = v
	}

	if err := ix.store.UpsertBatch(ctx, recs); err != nil {
		return 0, fmt.Errorf("store batch: %w", err)
	}
	return len(recs), nil
}

// embedText builds the text a commit is embedded under: the full message
// plus the head of its diff.
func embedText(rec domain.CommitRecord) string {
	text := rec.Message
	if rec.Diff != "" {
		diff := rec.Diff
		if len(diff) > embedDiffBytes {
			diff = diff[:embedDiffBytes]
		}
		text += "\n\n" + diff
	}
	return text
}
