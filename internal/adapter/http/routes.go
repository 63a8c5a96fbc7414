package http

import (
	"github.com/go-chi/chi/v5"

	"github.com/voxpilot/voxpilot/internal/adapter/ws"
)

// MountRoutes registers all API routes on the given chi router.
func MountRoutes(r chi.Router, h *Handlers, hub *ws.Hub) {
	r.Get("/health", h.Health)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/text-to-prompt", h.TextToPrompt)
		r.Post("/voice-to-prompt", h.VoiceToPrompt)

		r.Get("/usage", h.GetUsage)
		r.Get("/usage/limit", h.GetUsageLimit)

		r.Post("/dispatch", h.DispatchPrompt)
		r.Get("/providers", h.ListProviders)
	})

	if hub != nil {
		r.Get("/ws", hub.HandleWS)
	}
}
