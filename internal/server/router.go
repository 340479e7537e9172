package server

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mgpai22/srtfix/internal/config"
	"github.com/mgpai22/srtfix/internal/fixer"
	"github.com/mgpai22/srtfix/internal/logging"
)

func NewRouter(cfg config.Server, f *fixer.Fixer, logger *logging.Logger) *chi.Mux {
	if logger == nil {
		logger = logging.NewNop()
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(CORSOptions(cfg.CORSOrigins)))

	fixHandler := NewFixHandler(f, logger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", fixHandler.Health)

		r.With(MaxBodySize(cfg.MaxBodyBytes)).Post("/fix", fixHandler.Fix)
	})

	return r
}
