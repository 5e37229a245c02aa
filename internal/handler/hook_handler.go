// Package handler exposes the pipeline over HTTP for hosts that prefer a
// long-lived daemon to a per-prompt process.
package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/bigale/gitforai/internal/domain"
	"github.com/bigale/gitforai/internal/hook"
)

// HookHandler serves the UserPromptSubmit boundary over HTTP.
type HookHandler struct {
	hook *hook.Hook
}

// NewHookHandler creates a new hook handler.
func NewHookHandler(h *hook.Hook) *HookHandler {
	return &HookHandler{hook: h}
}

// Register sets up hook routes.
func (h *HookHandler) Register(router fiber.Router) {
	router.Post("/hook/user-prompt-submit", h.PromptSubmit)
}

// PromptSubmit runs the injection pipeline for one prompt event. The
// response mirrors the in-process contract: an empty object means nothing
// to inject, and a malformed body fails open rather than erroring.
func (h *HookHandler) PromptSubmit(c fiber.Ctx) error {
	var event domain.PromptEvent
	if err := c.Bind().JSON(&event); err != nil {
		return c.JSON(domain.InjectionResult{})
	}

	return c.JSON(h.hook.OnPromptSubmit(c.Context(), event))
}
