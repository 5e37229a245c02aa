package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/bigale/gitforai/internal/service"
)

// IndexHandler triggers index builds over HTTP.
type IndexHandler struct {
	indexer *service.Indexer
}

// NewIndexHandler creates a new index handler.
func NewIndexHandler(indexer *service.Indexer) *IndexHandler {
	return &IndexHandler{indexer: indexer}
}

// Register sets up index routes.
func (h *IndexHandler) Register(router fiber.Router) {
	router.Post("/index", h.Index)
}

// Index builds or updates the vector index from the configured repository.
func (h *IndexHandler) Index(c fiber.Ctx) error {
	var body struct {
		Limit int `json:"limit"`
	}
	// Body is optional; default is the full history.
	_ = c.Bind().JSON(&body)

	indexed, err := h.indexer.Run(c.Context(), body.Limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"indexed": indexed})
}
