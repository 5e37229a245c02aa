package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration loaded from environment
// variables. It is immutable for the lifetime of a hook instance.
type Config struct {
	// Retrieval
	DBPath              string  // SQLite file path, or a postgres:// URL
	RepoPath            string  // root of the indexed repository
	MaxResults          int     // cap on returned commits
	SimilarityThreshold float64 // minimum acceptable similarity in [0,1]
	OverfetchFactor     int     // candidates fetched per requested result

	// Enrichment
	EnableDeltaAnalysis    bool
	EnablePatternDetection bool
	PatternMinSupport      int // commits required before a pattern is reported
	MaxDiffBytes           int // delta analysis ceiling per commit

	// Assembly
	ContextBudget int // rendered context size cap, in characters

	// Pipeline
	QueryTimeout time.Duration // per-prompt budget for the whole pipeline
	IndexLimit   int           // commits to index, 0 = full history

	// Embedding backend
	EmbedProvider      string // "ollama" or "openai"
	OllamaBaseURL      string
	OllamaEmbedModel   string
	OllamaEmbedToken   string // Bearer token for Ollama Cloud (empty = local)
	EmbeddingDimension int
	OpenAIAPIKey       string
	OpenAIEmbedModel   string

	// Server
	Port    string
	AppName string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	repoPath := envOrDefault("GITFORAI_REPO_PATH", ".")

	return &Config{
		DBPath:              envOrDefault("GITFORAI_DB_PATH", filepath.Join(repoPath, ".gitforai", "vectordb.sqlite")),
		RepoPath:            repoPath,
		MaxResults:          envOrDefaultInt("GITFORAI_MAX_RESULTS", 5),
		SimilarityThreshold: envOrDefaultFloat("GITFORAI_SIMILARITY_THRESHOLD", 0.7),
		OverfetchFactor:     envOrDefaultInt("GITFORAI_OVERFETCH_FACTOR", 3),

		EnableDeltaAnalysis:    envOrDefaultBool("GITFORAI_ENABLE_DELTA", true),
		EnablePatternDetection: envOrDefaultBool("GITFORAI_ENABLE_PATTERNS", true),
		PatternMinSupport:      envOrDefaultInt("GITFORAI_PATTERN_MIN_SUPPORT", 2),
		MaxDiffBytes:           envOrDefaultInt("GITFORAI_MAX_DIFF_BYTES", 256*1024),

		ContextBudget: envOrDefaultInt("GITFORAI_CONTEXT_BUDGET", 4000),

		QueryTimeout: envOrDefaultDuration("GITFORAI_QUERY_TIMEOUT", 5*time.Second),
		IndexLimit:   envOrDefaultInt("GITFORAI_INDEX_LIMIT", 0),

		EmbedProvider:      envOrDefault("EMBED_PROVIDER", "ollama"),
		OllamaBaseURL:      envOrDefault("OLLAMA_BASE_URL", "http://localhost:11434"),
		OllamaEmbedModel:   envOrDefault("OLLAMA_EMBED_MODEL", "bge-m3"),
		OllamaEmbedToken:   os.Getenv("OLLAMA_EMBED_TOKEN"),
		EmbeddingDimension: envOrDefaultInt("EMBEDDING_DIMENSION", 1024),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		OpenAIEmbedModel:   envOrDefault("OPENAI_EMBED_MODEL", "text-embedding-3-small"),

		Port:    envOrDefault("PORT", "3001"),
		AppName: envOrDefault("APP_NAME", "GitForAI"),
	}
}

// Validate checks configuration invariants. A hook cannot safely operate on
// an invalid configuration, so this is the one error that is never swallowed.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("GITFORAI_DB_PATH must not be empty")
	}
	if strings.TrimSpace(c.RepoPath) == "" {
		return fmt.Errorf("GITFORAI_REPO_PATH must not be empty")
	}
	if c.MaxResults < 1 {
		return fmt.Errorf("GITFORAI_MAX_RESULTS must be >= 1, got %d", c.MaxResults)
	}
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("GITFORAI_SIMILARITY_THRESHOLD must be in [0,1], got %g", c.SimilarityThreshold)
	}
	if c.OverfetchFactor < 1 {
		return fmt.Errorf("GITFORAI_OVERFETCH_FACTOR must be >= 1, got %d", c.OverfetchFactor)
	}
	if c.PatternMinSupport < 2 {
		return fmt.Errorf("GITFORAI_PATTERN_MIN_SUPPORT must be >= 2, got %d", c.PatternMinSupport)
	}
	if c.ContextBudget <= 0 {
		return fmt.Errorf("GITFORAI_CONTEXT_BUDGET must be > 0, got %d", c.ContextBudget)
	}
	if c.QueryTimeout <= 0 {
		return fmt.Errorf("GITFORAI_QUERY_TIMEOUT must be > 0, got %s", c.QueryTimeout)
	}
	if c.MaxDiffBytes <= 0 {
		return fmt.Errorf("GITFORAI_MAX_DIFF_BYTES must be > 0, got %d", c.MaxDiffBytes)
	}
	switch c.EmbedProvider {
	case "ollama":
		if c.EmbeddingDimension <= 0 {
			return fmt.Errorf("EMBEDDING_DIMENSION must be > 0, got %d", c.EmbeddingDimension)
		}
	case "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY must be set when EMBED_PROVIDER=openai")
		}
	default:
		return fmt.Errorf("EMBED_PROVIDER must be \"ollama\" or \"openai\", got %q", c.EmbedProvider)
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrDefaultInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return fallback
}

func envOrDefaultFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return fallback
}

func envOrDefaultBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envOrDefaultDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return fallback
}
