package service

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bigale/gitforai/internal/domain"
)

// PatternDetector scans a ranked candidate set for recurring structural
// signatures: commits touching the same kinds of files with a similar
// add/remove shape. It is purely additive and never changes ranking.
type PatternDetector struct {
	minSupport int
	fallback   *DeltaAnalyzer
}

// NewPatternDetector creates a detector that reports a group only once it
// reaches minSupport commits within the candidate set.
func NewPatternDetector(minSupport int, fallback *DeltaAnalyzer) *PatternDetector {
	if minSupport < 2 {
		minSupport = 2
	}
	return &PatternDetector{minSupport: minSupport, fallback: fallback}
}

// Name implements port.Enricher.
func (d *PatternDetector) Name() string { return "patterns" }

// Enrich groups the candidates by structural signature and records groups
// that reach the support threshold. Delta summaries from an earlier stage
// are reused when present; otherwise they are derived on the fly.
func (d *PatternDetector) Enrich(ctx context.Context, results []domain.SearchResult, enr *domain.Enrichment) error {
	groups := make(map[string][]string)

	for _, res := range results {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		delta, ok := enr.DeltaFor(res.Commit.Hash)
		if !ok {
			delta = d.fallback.Analyze(res.Commit.Diff)
		}
		if delta.Empty() {
			continue
		}

		label := signature(delta)
		groups[label] = append(groups[label], res.Commit.Hash)
	}

	var observations []domain.PatternObservation
	for label, hashes := range groups {
		if len(hashes) < d.minSupport {
			continue
		}
		observations = append(observations, domain.PatternObservation{
			Label:   label,
			Commits: hashes, // already in rank order
			Support: len(hashes),
		})
	}

	sort.Slice(observations, func(i, j int) bool {
		if observations[i].Support != observations[j].Support {
			return observations[i].Support > observations[j].Support
		}
		return observations[i].Label < observations[j].Label
	})

	enr.Patterns = observations
	return nil
}

// signature derives a structural label for a delta: the sorted set of
// touched file extensions plus a coarse add/remove shape bucket.
func signature(delta domain.DeltaSummary) string {
	extSet := make(map[string]bool)
	for _, f := range delta.Files {
		ext := strings.TrimPrefix(filepath.Ext(f.Path), ".")
		if ext == "" {
			ext = "noext"
		}
		extSet[ext] = true
	}

	exts := make([]string, 0, len(extSet))
	for ext := range extSet {
		exts = append(exts, ext)
	}
	sort.Strings(exts)

	return shapeBucket(delta.Added, delta.Removed) + " " + strings.Join(exts, "+")
}

// shapeBucket classifies the overall add/remove ratio of a commit.
func shapeBucket(added, removed int) string {
	switch {
	case added > 0 && removed == 0:
		return "additive"
	case added == 0 && removed > 0:
		return "reductive"
	case added == 0 && removed == 0:
		return "neutral"
	}
	ratio := float64(added) / float64(removed)
	switch {
	case ratio >= 0.8 && ratio <= 1.25:
		return "balanced"
	case ratio > 1.25:
		return "expanding"
	default:
		return "shrinking"
	}
}
