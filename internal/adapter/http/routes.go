package http

import (
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers all API routes on the given chi router.
func MountRoutes(r chi.Router, h *Handlers) {
	r.Get("/health", h.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/usage", h.AggregateUsage)
		r.Post("/summary", h.Summarize)
		r.Get("/providers", h.ListProviders)
		r.Get("/subscriptions", h.ListSubscriptions)
		r.Get("/pricing", h.ListPricing)
	})
}
