package port

import "context"

// MinEmbedInput is the minimum number of non-space characters an input must
// carry before it is worth embedding. Shorter input fails with
// ErrInputTooShort, which callers treat as recoverable.
const MinEmbedInput = 3

// Embedder maps free text to a fixed-length vector. Implementations can
// target Ollama, OpenAI, or any compatible API and must be deterministic
// for identical input so query embeddings can be cached and replayed.
type Embedder interface {
	// ModelName returns the identifier of the embedding model.
	ModelName() string

	// Dimensions returns the embedding vector length.
	Dimensions() int

	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts in one call.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}
