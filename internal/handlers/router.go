package handlers

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Routes assembles the API router. CORS and other outer middleware are
// applied by the caller.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// Ingest and settle calls are mirrored into the audit stream.
		r.Group(func(r chi.Router) {
			r.Use(h.RequestMirror)
			r.Post("/ingest/predictions", h.IngestPredictions)
			r.Get("/settle/run", h.RunSettlement)
		})

		r.Get("/predictions/recent", h.GetRecentPredictions)
		r.Post("/system/install", h.InstallDatabase)
	})

	return r
}
