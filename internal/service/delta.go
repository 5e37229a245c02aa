package service

import (
	"context"
	"strings"
	"sync"

	"github.com/bigale/gitforai/internal/domain"
)

// deltaWorkers bounds the fan-out when summarizing independent commits.
const deltaWorkers = 4

// DeltaAnalyzer summarizes unified diffs into compact structural deltas.
// It never re-reads the working tree: everything is derived from the diff
// text stored with the commit record.
type DeltaAnalyzer struct {
	maxDiffBytes int
}

// NewDeltaAnalyzer creates an analyzer with the given per-commit diff size
// ceiling. Diffs beyond the ceiling are analyzed up to it and flagged
// truncated instead of consuming unbounded time.
func NewDeltaAnalyzer(maxDiffBytes int) *DeltaAnalyzer {
	return &DeltaAnalyzer{maxDiffBytes: maxDiffBytes}
}

// Name implements port.Enricher.
func (a *DeltaAnalyzer) Name() string { return "delta" }

// Enrich computes a delta summary for every commit in the candidate set.
// Commits are independent, so the work is fanned out under a bounded pool;
// results land in a map keyed by hash, so ordering is unaffected.
func (a *DeltaAnalyzer) Enrich(ctx context.Context, results []domain.SearchResult, enr *domain.Enrichment) error {
	deltas := make(map[string]domain.DeltaSummary, len(results))

	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, deltaWorkers)

	for _, res := range results {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		sem <- struct{}{}
		wg.Add(1)
		go func(hash, diff string) {
			defer wg.Done()
			defer func() { <-sem }()

			summary := a.Analyze(diff)
			mu.Lock()
			deltas[hash] = summary
			mu.Unlock()
		}(res.Commit.Hash, res.Commit.Diff)
	}
	wg.Wait()

	enr.Deltas = deltas
	return nil
}

// Analyze parses one commit's unified diff into a DeltaSummary. A diff with
// zero changed lines (merge commits) yields an empty summary. Binary files
// are marked skipped rather than text-diffed.
func (a *DeltaAnalyzer) Analyze(diff string) domain.DeltaSummary {
	var summary domain.DeltaSummary

	if diff == "" {
		return summary
	}
	if a.maxDiffBytes > 0 && len(diff) > a.maxDiffBytes {
		cut := strings.LastIndexByte(diff[:a.maxDiffBytes], '\n')
		if cut < 0 {
			cut = a.maxDiffBytes
		}
		diff = diff[:cut]
		summary.Truncated = true
	}

	var current *domain.FileDelta
	flush := func() {
		if current != nil {
			summary.Files = append(summary.Files, *current)
			current = nil
		}
	}

	for _, line := range strings.Split(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "diff --git "):
			flush()
			current = &domain.FileDelta{Path: parseDiffGitHeader(line)}

		case current == nil:
			continue

		case strings.HasPrefix(line, "Binary files ") || strings.HasPrefix(line, "GIT binary patch"):
			current.Binary = true

		case strings.HasPrefix(line, "@@"):
			if sym := parseHunkSymbol(line); sym != "" && !contains(current.Symbols, sym) {
				current.Symbols = append(current.Symbols, sym)
			}

		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			// file headers, not content

		case strings.HasPrefix(line, "+"):
			if !current.Binary {
				current.Added++
				summary.Added++
			}

		case strings.HasPrefix(line, "-"):
			if !current.Binary {
				current.Removed++
				summary.Removed++
			}
		}
	}
	flush()

	return summary
}

// parseDiffGitHeader extracts the new path from "diff --git a/old b/new".
func parseDiffGitHeader(header string) string {
	parts := strings.Fields(header)
	if len(parts) >= 4 {
		return strings.TrimPrefix(parts[3], "b/")
	}
	return ""
}

// parseHunkSymbol extracts the enclosing-symbol context a hunk header
// carries after the second "@@", e.g. "func (s *Store) Query".
func parseHunkSymbol(line string) string {
	idx := strings.Index(line[2:], "@@")
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(line[idx+4:])
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
