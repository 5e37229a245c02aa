package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/bigale/gitforai/internal/adapter/ai"
	"github.com/bigale/gitforai/internal/adapter/store"
	"github.com/bigale/gitforai/internal/domain"
	"github.com/bigale/gitforai/internal/service"
	"github.com/bigale/gitforai/pkg/config"
)

var (
	searchLimit     int
	searchThreshold float64
	searchJSON      bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the commit index",
	Long: `Runs a semantic search over the indexed commit history, showing exactly
what the hook would retrieve for a given prompt.

Examples:
  gitforai search "why does the lexer skip empty rules"
  gitforai search "unicode ranges" --limit 10 --threshold 0.5 --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "Maximum results (default from config)")
	searchCmd.Flags().Float64VarP(&searchThreshold, "threshold", "t", -1, "Minimum similarity (default from config)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Output as JSON")
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if searchLimit > 0 {
		cfg.MaxResults = searchLimit
	}
	if searchThreshold >= 0 {
		cfg.SimilarityThreshold = searchThreshold
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	embedder, err := ai.NewEmbedder(cfg)
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.DBPath, embedder.Dimensions())
	if err != nil {
		return fmt.Errorf("open vector store: %w", err)
	}
	defer st.Close()

	ranker := service.NewRanker(embedder, st, cfg.MaxResults, cfg.SimilarityThreshold, cfg.OverfetchFactor)
	results, err := ranker.Rank(context.Background(), domain.Query{
		ID:   uuid.NewString(),
		Text: strings.Join(args, " "),
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Println("No results found")
		return nil
	}

	if searchJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	for _, r := range results {
		fmt.Printf("%d. %s %s  %.3f\n   %s\n",
			r.Rank, r.Commit.ShortHash(), r.Commit.Timestamp.Format("2006-01-02"), r.Score, r.Commit.Message)
	}
	return nil
}
