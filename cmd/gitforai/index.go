package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bigale/gitforai/internal/adapter/ai"
	"github.com/bigale/gitforai/internal/adapter/store"
	"github.com/bigale/gitforai/internal/adapter/vcs"
	"github.com/bigale/gitforai/internal/service"
	"github.com/bigale/gitforai/pkg/config"
)

var indexLimit int

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build or update the vector index from the commit history",
	Long: `Reads the configured repository's commit history, embeds each commit's
message and diff, and writes the records into the vector index. Re-running
is idempotent: records are keyed by commit hash.`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().IntVarP(&indexLimit, "limit", "n", 0, "Commits to index (0 = full history)")
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
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

	limit := indexLimit
	if limit == 0 {
		limit = cfg.IndexLimit
	}

	indexer := service.NewIndexer(vcs.NewGitProvider(), embedder, st, cfg.RepoPath)
	indexed, err := indexer.Run(context.Background(), limit)
	if err != nil {
		return fmt.Errorf("index failed: %w", err)
	}

	fmt.Printf("Indexed %d commits into %s\n", indexed, cfg.DBPath)
	return nil
}
