package handler

import (
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/bigale/gitforai/internal/domain"
	"github.com/bigale/gitforai/internal/service"
)

// SearchHandler exposes raw semantic search over the commit index, mainly
// for debugging what the hook would retrieve.
type SearchHandler struct {
	ranker *service.Ranker
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(ranker *service.Ranker) *SearchHandler {
	return &SearchHandler{ranker: ranker}
}

// Register sets up search routes.
func (h *SearchHandler) Register(router fiber.Router) {
	router.Post("/search", h.Search)
}

// Search ranks commits against a free-text query.
func (h *SearchHandler) Search(c fiber.Ctx) error {
	var body struct {
		Query string `json:"query"`
	}
	if err := c.Bind().JSON(&body); err != nil || body.Query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "query is required"})
	}

	results, err := h.ranker.Rank(c.Context(), domain.Query{
		ID:   uuid.NewString(),
		Text: body.Query,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	out := make([]fiber.Map, len(results))
	for i, r := range results {
		out[i] = fiber.Map{
			"hash":      r.Commit.Hash,
			"message":   r.Commit.Message,
			"timestamp": r.Commit.Timestamp,
			"score":     r.Score,
			"rank":      r.Rank,
		}
	}
	return c.JSON(fiber.Map{"results": out})
}
