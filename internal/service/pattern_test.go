package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bigale/gitforai/internal/domain"
)

func goTestDelta(path string) domain.DeltaSummary {
	return domain.DeltaSummary{
		Files: []domain.FileDelta{
			{Path: path, Added: 10, Removed: 2},
			{Path: path + "_test.go", Added: 20, Removed: 0},
		},
		Added:   30,
		Removed: 2,
	}
}

func TestDetectGroupsByStructuralSignature(t *testing.T) {
	d := NewPatternDetector(2, NewDeltaAnalyzer(0))
	results := []domain.SearchResult{
		{Commit: domain.CommitRecord{Hash: "aaa"}},
		{Commit: domain.CommitRecord{Hash: "bbb"}},
		{Commit: domain.CommitRecord{Hash: "ccc"}},
	}
	enr := domain.Enrichment{Deltas: map[string]domain.DeltaSummary{
		"aaa": goTestDelta("internal/store/sqlite.go"),
		"bbb": goTestDelta("internal/service/ranker.go"),
		"ccc": {Files: []domain.FileDelta{{Path: "README.md", Added: 3}}, Added: 3},
	}}

	require.NoError(t, d.Enrich(context.Background(), results, &enr))
	require.Len(t, enr.Patterns, 1)

	p := enr.Patterns[0]
	assert.Equal(t, 2, p.Support)
	assert.Equal(t, []string{"aaa", "bbb"}, p.Commits)
	assert.Contains(t, p.Label, "go")
}

func TestDetectRespectsMinSupport(t *testing.T) {
	d := NewPatternDetector(3, NewDeltaAnalyzer(0))
	results := []domain.SearchResult{
		{Commit: domain.CommitRecord{Hash: "aaa"}},
		{Commit: domain.CommitRecord{Hash: "bbb"}},
	}
	enr := domain.Enrichment{Deltas: map[string]domain.DeltaSummary{
		"aaa": goTestDelta("a.go"),
		"bbb": goTestDelta("b.go"),
	}}

	require.NoError(t, d.Enrich(context.Background(), results, &enr))
	assert.Empty(t, enr.Patterns)
}

func TestDetectSkipsEmptyDeltas(t *testing.T) {
	d := NewPatternDetector(2, NewDeltaAnalyzer(0))
	results := []domain.SearchResult{
		{Commit: domain.CommitRecord{Hash: "aaa"}},
		{Commit: domain.CommitRecord{Hash: "bbb"}},
	}
	enr := domain.Enrichment{Deltas: map[string]domain.DeltaSummary{
		"aaa": {},
		"bbb": {},
	}}

	require.NoError(t, d.Enrich(context.Background(), results, &enr))
	assert.Empty(t, enr.Patterns)
}

func TestDetectFallsBackToRawDiff(t *testing.T) {
	d := NewPatternDetector(2, NewDeltaAnalyzer(0))
	results := []domain.SearchResult{
		{Commit: domain.CommitRecord{Hash: "aaa", Diff: sampleDiff}},
		{Commit: domain.CommitRecord{Hash: "bbb", Diff: sampleDiff}},
	}

	var enr domain.Enrichment
	require.NoError(t, d.Enrich(context.Background(), results, &enr))
	require.Len(t, enr.Patterns, 1)
	assert.Equal(t, 2, enr.Patterns[0].Support)
}

func TestDetectOrdersBySupportThenLabel(t *testing.T) {
	d := NewPatternDetector(2, NewDeltaAnalyzer(0))
	results := []domain.SearchResult{
		{Commit: domain.CommitRecord{Hash: "a1"}},
		{Commit: domain.CommitRecord{Hash: "a2"}},
		{Commit: domain.CommitRecord{Hash: "a3"}},
		{Commit: domain.CommitRecord{Hash: "m1"}},
		{Commit: domain.CommitRecord{Hash: "m2"}},
	}
	mdDelta := domain.DeltaSummary{Files: []domain.FileDelta{{Path: "doc.md", Added: 3}}, Added: 3}
	enr := domain.Enrichment{Deltas: map[string]domain.DeltaSummary{
		"a1": goTestDelta("a.go"),
		"a2": goTestDelta("b.go"),
		"a3": goTestDelta("c.go"),
		"m1": mdDelta,
		"m2": mdDelta,
	}}

	require.NoError(t, d.Enrich(context.Background(), results, &enr))
	require.Len(t, enr.Patterns, 2)
	assert.Equal(t, 3, enr.Patterns[0].Support)
	assert.Equal(t, 2, enr.Patterns[1].Support)
}

func TestShapeBucket(t *testing.T) {
	assert.Equal(t, "additive", shapeBucket(5, 0))
	assert.Equal(t, "reductive", shapeBucket(0, 5))
	assert.Equal(t, "neutral", shapeBucket(0, 0))
	assert.Equal(t, "balanced", shapeBucket(10, 10))
	assert.Equal(t, "expanding", shapeBucket(100, 10))
	assert.Equal(t, "shrinking", shapeBucket(10, 100))
}
