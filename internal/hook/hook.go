// Package hook implements the UserPromptSubmit context injection boundary.
//
// The hook owns the configuration and the open store handle, and guarantees
// that no internal failure ever reaches the caller: every stage error is
// logged and collapsed into an empty injection result, because the caller
// sits on an interactive user-facing path.
package hook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/bigale/gitforai/internal/adapter/ai"
	"github.com/bigale/gitforai/internal/adapter/store"
	"github.com/bigale/gitforai/internal/domain"
	"github.com/bigale/gitforai/internal/port"
	"github.com/bigale/gitforai/internal/service"
	"github.com/bigale/gitforai/pkg/config"
)

// Hook is the context injection orchestrator. Construct it once and reuse
// it across calls; the store handle is expensive to open.
type Hook struct {
	cfg       *config.Config
	store     port.CommitStore
	ranker    *service.Ranker
	engine    *port.EnrichmentEngine
	assembler *service.Assembler
	log       *slog.Logger

	// storeWarnOnce keeps a missing or corrupt index from flooding the
	// diagnostic log with one warning per prompt.
	storeWarnOnce sync.Once
}

var (
	shared     *Hook
	sharedErr  error
	sharedOnce sync.Once
)

// Shared returns the process-wide hook instance, constructing it on first
// use. Construction happens at most once even under concurrent first use.
func Shared(cfg *config.Config) (*Hook, error) {
	sharedOnce.Do(func() {
		shared, sharedErr = New(cfg)
	})
	return shared, sharedErr
}

// New constructs a hook from configuration, opening the embedding backend
// and the vector store. Configuration errors are the only errors this
// package ever propagates: a misconfigured hook cannot safely operate.
func New(cfg *config.Config) (*Hook, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("hook configuration: %w", err)
	}

	embedder, err := ai.NewEmbedder(cfg)
	if err != nil {
		return nil, fmt.Errorf("hook configuration: %w", err)
	}

	st, err := store.Open(cfg.DBPath, embedder.Dimensions())
	if err != nil {
		return nil, fmt.Errorf("open vector store: %w", err)
	}

	return NewWithBackends(cfg, embedder, st)
}

// NewWithBackends constructs a hook over caller-provided backends. The HTTP
// server uses it to share handles; tests use it to isolate instances.
func NewWithBackends(cfg *config.Config, embedder port.Embedder, st port.CommitStore) (*Hook, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("hook configuration: %w", err)
	}

	var stages []port.Enricher
	delta := service.NewDeltaAnalyzer(cfg.MaxDiffBytes)
	if cfg.EnableDeltaAnalysis {
		stages = append(stages, delta)
	}
	if cfg.EnablePatternDetection {
		stages = append(stages, service.NewPatternDetector(cfg.PatternMinSupport, delta))
	}

	return &Hook{
		cfg:       cfg,
		store:     st,
		ranker:    service.NewRanker(embedder, st, cfg.MaxResults, cfg.SimilarityThreshold, cfg.OverfetchFactor),
		engine:    port.NewEnrichmentEngine(stages...),
		assembler: service.NewAssembler(cfg.ContextBudget),
		log:       slog.Default(),
	}, nil
}

// OnPromptSubmit runs the retrieval pipeline for one prompt event and
// returns the context to inject. It never fails: malformed events, stage
// errors, timeouts, and panics all degrade to an empty result, with
// diagnostics going to the log rather than the returned payload.
func (h *Hook) OnPromptSubmit(ctx context.Context, event domain.PromptEvent) (result domain.InjectionResult) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Error("context injection panicked", "panic", r)
			result = domain.InjectionResult{}
		}
	}()

	if strings.TrimSpace(event.UserPrompt) == "" {
		return domain.InjectionResult{}
	}

	ctx, cancel := context.WithTimeout(ctx, h.cfg.QueryTimeout)
	defer cancel()

	query := domain.Query{
		ID:             uuid.NewString(),
		Text:           event.UserPrompt,
		ConversationID: event.Context.ConversationID,
	}

	text, err := h.run(ctx, query)
	if err != nil {
		h.diagnose(query, err)
		return domain.InjectionResult{}
	}
	return domain.InjectionResult{AdditionalSystemPrompt: text}
}

func (h *Hook) run(ctx context.Context, query domain.Query) (string, error) {
	results, err := h.ranker.Rank(ctx, query)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "", nil
	}

	enrichment := h.engine.Run(ctx, results)
	return h.assembler.Assemble(results, enrichment), nil
}

// diagnose routes a pipeline failure to the log. Store unavailability is
// warned once per process; everything else is warned per query.
func (h *Hook) diagnose(query domain.Query, err error) {
	if errors.Is(err, port.ErrStoreUnavailable) {
		h.storeWarnOnce.Do(func() {
			h.log.Warn("vector store unavailable, context injection disabled",
				"db_path", h.cfg.DBPath, "error", err)
		})
		return
	}

	h.log.Warn("context injection failed",
		"query_id", query.ID,
		"conversation_id", query.ConversationID,
		"error", err,
	)
}

// Close releases the store handle. The shared instance lives for the
// process lifetime and is never closed; Close exists for isolated
// instances, such as the ones tests construct.
func (h *Hook) Close() error {
	return h.store.Close()
}
