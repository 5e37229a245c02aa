package port

import (
	"context"

	"github.com/bigale/gitforai/internal/domain"
)

// VCSProvider abstracts the version control operations the indexer needs.
type VCSProvider interface {
	// Log returns the commit history of a repository, newest first.
	// limit <= 0 means the full history.
	Log(ctx context.Context, repoPath string, limit int) ([]domain.CommitRecord, error)

	// CommitDiff returns the unified diff introduced by a single commit.
	CommitDiff(ctx context.Context, repoPath, hash string) (string, error)

	// HeadHash returns the hash of the current HEAD commit.
	HeadHash(ctx context.Context, repoPath string) (string, error)
}
