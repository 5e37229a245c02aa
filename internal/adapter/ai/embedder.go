// Package ai provides embedding backends for the retrieval pipeline.
package ai

import (
	"fmt"

	"github.com/bigale/gitforai/internal/port"
	"github.com/bigale/gitforai/pkg/config"
)

// NewEmbedder selects the embedding backend from configuration.
func NewEmbedder(cfg *config.Config) (port.Embedder, error) {
	switch cfg.EmbedProvider {
	case "ollama":
		return NewOllamaEmbedder(OllamaEndpointConfig{
			BaseURL: cfg.OllamaBaseURL,
			Model:   cfg.OllamaEmbedModel,
			Token:   cfg.OllamaEmbedToken,
		}, cfg.EmbeddingDimension), nil
	case "openai":
		return NewOpenAIEmbedder(cfg.OpenAIAPIKey, cfg.OpenAIEmbedModel)
	default:
		return nil, fmt.Errorf("unknown embed provider %q", cfg.EmbedProvider)
	}
}
