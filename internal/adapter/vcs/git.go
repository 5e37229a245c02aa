// Package vcs provides the git-backed source control adapter.
package vcs

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/bigale/gitforai/internal/domain"
)

// GitProvider implements port.VCSProvider using the git CLI.
type GitProvider struct{}

// NewGitProvider creates a new Git VCS provider.
func NewGitProvider() *GitProvider {
	return &GitProvider{}
}

// Log returns the commit history, newest first. Diffs are not populated;
// fetch them per commit with CommitDiff.
func (g *GitProvider) Log(ctx context.Context, repoPath string, limit int) ([]domain.CommitRecord, error) {
	// Subject last so embedded separators in the message survive SplitN.
	args := []string{"-C", repoPath, "log", "--format=%H|%an|%aI|%s"}
	if limit > 0 {
		args = append(args, fmt.Sprintf("-n%d", limit))
	}

	cmd := exec.CommandContext(ctx, "git", args...)
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git log: %w", err)
	}

	var commits []domain.CommitRecord
	for _, line := range strings.Split(strings.TrimSpace(string(output)), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		parts := strings.SplitN(line, "|", 4)
		if len(parts) < 4 {
			continue
		}

		ts, _ := time.Parse(time.RFC3339, parts[2])
		commits = append(commits, domain.CommitRecord{
			Hash:      parts[0],
			Author:    parts[1],
			Timestamp: ts,
			Message:   parts[3],
		})
	}
	return commits, nil
}

// CommitDiff returns the unified diff introduced by a single commit.
// Merge commits yield an empty diff.
func (g *GitProvider) CommitDiff(ctx context.Context, repoPath, hash string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "-C", repoPath, "show", "--format=", "--patch", hash)
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git show %s: %w", hash, err)
	}
	return string(output), nil
}

// HeadHash returns the hash of the current HEAD commit.
func (g *GitProvider) HeadHash(ctx context.Context, repoPath string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "-C", repoPath, "rev-parse", "HEAD")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}
