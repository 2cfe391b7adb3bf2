package server

import (
	"expvar"

	"github.com/go-chi/chi/v5"

	"github.com/kvanzyl/shedwatch/internal/server/handlers"
)

func (s *Server) registerRoutes(r chi.Router) {
	h := handlers.New(s.engine, s.provider, s.current)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Get("/stage", h.CurrentStage)

		r.Get("/municipalities/{municipalityID}/status", h.MunicipalityStatus)

		r.Get("/suburbs/{suburbID}/forecast", h.SuburbForecast)
		r.Get("/suburbs/{suburbID}/stats", h.SuburbStats)

		r.Get("/features/{featureID}/forecast", h.FeatureForecast)
	})

	r.Handle("/debug/vars", expvar.Handler())
}
