package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/spf13/cobra"

	"github.com/bigale/gitforai/internal/adapter/ai"
	"github.com/bigale/gitforai/internal/adapter/store"
	"github.com/bigale/gitforai/internal/adapter/vcs"
	"github.com/bigale/gitforai/internal/handler"
	"github.com/bigale/gitforai/internal/hook"
	"github.com/bigale/gitforai/internal/service"
	"github.com/bigale/gitforai/pkg/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Long: `Serves the hook, index, and search operations over HTTP for hosts that
prefer a long-lived daemon to a per-prompt process.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	slog.Info("starting GitForAI server",
		"port", cfg.Port,
		"db_path", cfg.DBPath,
		"repo_path", cfg.RepoPath,
		"embed_provider", cfg.EmbedProvider,
	)

	embedder, err := ai.NewEmbedder(cfg)
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.DBPath, embedder.Dimensions())
	if err != nil {
		return fmt.Errorf("open vector store: %w", err)
	}
	defer st.Close()

	h, err := hook.NewWithBackends(cfg, embedder, st)
	if err != nil {
		return err
	}

	ranker := service.NewRanker(embedder, st, cfg.MaxResults, cfg.SimilarityThreshold, cfg.OverfetchFactor)
	indexer := service.NewIndexer(vcs.NewGitProvider(), embedder, st, cfg.RepoPath)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New())

	app.Get("/api/v1/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"app":    cfg.AppName,
		})
	})

	api := app.Group("/api/v1")
	handler.NewHookHandler(h).Register(api)
	handler.NewSearchHandler(ranker).Register(api)
	handler.NewIndexHandler(indexer).Register(api)

	slog.Info("listening", "port", cfg.Port)
	return app.Listen(":" + cfg.Port)
}
