package port

import (
	"context"
	"log/slog"

	"github.com/bigale/gitforai/internal/domain"
)

// Enricher defines a pluggable enrichment stage (Strategy Pattern). Each
// stage annotates a ranked candidate set without changing its order or size.
type Enricher interface {
	// Name returns the unique name of this stage (e.g. "delta", "patterns").
	Name() string

	// Enrich computes annotations for the candidate set and writes them
	// into enr. Stages may read annotations left by earlier stages.
	Enrich(ctx context.Context, results []domain.SearchResult, enr *domain.Enrichment) error
}

// EnrichmentEngine runs enrichment stages in registration order. Stages are
// purely additive: a failing stage is logged and skipped, and the ranked
// candidate set is never modified.
type EnrichmentEngine struct {
	stages []Enricher
}

// NewEnrichmentEngine creates an engine with the given stages.
func NewEnrichmentEngine(stages ...Enricher) *EnrichmentEngine {
	return &EnrichmentEngine{stages: stages}
}

// Run executes all registered stages over the candidate set.
func (e *EnrichmentEngine) Run(ctx context.Context, results []domain.SearchResult) *domain.Enrichment {
	enr := &domain.Enrichment{}
	if len(results) == 0 {
		return enr
	}
	for _, s := range e.stages {
		if err := s.Enrich(ctx, results, enr); err != nil {
			slog.Warn("enrichment stage failed", "stage", s.Name(), "error", err)
		}
	}
	return enr
}

// StageNames returns the names of all registered stages in order.
func (e *EnrichmentEngine) StageNames() []string {
	names := make([]string, 0, len(e.stages))
	for _, s := range e.stages {
		names = append(names, s.Name())
	}
	return names
}
