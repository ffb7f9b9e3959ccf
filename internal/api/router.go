package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
)

// NewRouter builds and returns the Chi router with all routes configured.
// The health endpoint is unauthenticated; scoring and curation routes
// require bearer auth. Rate limiting: 120 requests per minute per IP,
// sized for a TV surface polling on context changes.
func NewRouter(handlers *Handlers, token string, db dbPinger, redisClient redisPinger, log *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(httprate.LimitByIP(120, time.Minute))

	r.Get("/api/v1/health", HealthHandlerFunc(db, redisClient, log))

	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(token))

		r.Route("/api/v1/scoring", func(r chi.Router) {
			r.Post("/activities/calculate-scores", handlers.CalculateActivityScores)
			r.Post("/dining/calculate-scores", handlers.CalculateDiningScores)
			r.Post("/preview-recommendations", handlers.PreviewRecommendations)
		})

		r.Route("/api/v1/content/{id}", func(r chi.Router) {
			r.Patch("/toggle", handlers.ToggleActive)
			r.Patch("/featured", handlers.ToggleFeatured)
			r.Patch("/reorder", handlers.Reorder)
			r.Delete("/", handlers.DeleteItem)
		})
	})

	return r
}

// Ensure chi.Mux implements http.Handler.
var _ http.Handler = (*chi.Mux)(nil)
