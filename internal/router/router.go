package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/actuallystonmai/meal-recommendation-service/internal/handler"
)

//nolint:gocritic // logger passed by value is acceptable for zerolog
func Setup(h *handler.Handler, cfg MiddlewareConfig, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger.With().Str("component", "http").Logger()))
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware(cfg.CORSAllowedOrigins))

	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(rateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))
		r.Use(middleware.Timeout(timeout))

		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.ListUsers)
			r.Route("/{userID}", func(r chi.Router) {
				r.Get("/", h.GetUser)
				r.Get("/preferences", h.GetPreferences)
				r.Put("/preferences", h.PutPreferences)
				r.Get("/allergies", h.GetAllergies)
				r.Get("/recommendations", h.GetUserRecommendations)
			})
		})

		r.Get("/ingredients", h.ListIngredients)
		r.Get("/ingredients/{ingredientID}", h.GetIngredient)
		r.Get("/meals", h.ListMeals)
		r.Get("/meals/{mealID}", h.GetMeal)

		r.Post("/recommendations", h.PostRecommendations)
		r.Get("/recommendations/batch", h.GetBatchRecommendations)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/reload", h.Reload)
			r.Post("/repopulate", h.Repopulate)
			r.Post("/clear", h.ClearCorpus)
			r.Get("/index", h.IndexStats)
		})
	})

	return r
}
