package port

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bigale/gitforai/internal/domain"
)

type markerStage struct {
	name string
	err  error
	ran  bool
}

func (m *markerStage) Name() string { return m.name }

func (m *markerStage) Enrich(_ context.Context, _ []domain.SearchResult, enr *domain.Enrichment) error {
	m.ran = true
	if m.err != nil {
		return m.err
	}
	enr.Patterns = append(enr.Patterns, domain.PatternObservation{Label: m.name, Support: 2})
	return nil
}

func TestEngineRunsStagesInOrder(t *testing.T) {
	first := &markerStage{name: "first"}
	second := &markerStage{name: "second"}
	engine := NewEnrichmentEngine(first, second)

	results := []domain.SearchResult{{Commit: domain.CommitRecord{Hash: "aaa"}}}
	enr := engine.Run(context.Background(), results)

	require.Len(t, enr.Patterns, 2)
	assert.Equal(t, "first", enr.Patterns[0].Label)
	assert.Equal(t, "second", enr.Patterns[1].Label)
	assert.Equal(t, []string{"first", "second"}, engine.StageNames())
}

func TestEngineSkipsFailedStageAndContinues(t *testing.T) {
	failing := &markerStage{name: "failing", err: errors.New("boom")}
	surviving := &markerStage{name: "surviving"}
	engine := NewEnrichmentEngine(failing, surviving)

	results := []domain.SearchResult{{Commit: domain.CommitRecord{Hash: "aaa"}}}
	enr := engine.Run(context.Background(), results)

	assert.True(t, failing.ran)
	assert.True(t, surviving.ran)
	require.Len(t, enr.Patterns, 1)
	assert.Equal(t, "surviving", enr.Patterns[0].Label)
}

func TestEngineSkipsEmptyCandidateSet(t *testing.T) {
	stage := &markerStage{name: "only"}
	engine := NewEnrichmentEngine(stage)

	enr := engine.Run(context.Background(), nil)

	assert.False(t, stage.ran)
	assert.Empty(t, enr.Patterns)
}
