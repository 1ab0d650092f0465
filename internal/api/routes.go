package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterConfig holds the HTTP surface configuration.
type RouterConfig struct {
	CronSecret     string
	AllowedOrigins []string
	RateLimit      int
	RateWindow     time.Duration
}

// SetupRoutes configures the router: health unauthenticated, everything
// under /api behind the shared cron secret.
func SetupRoutes(h *Handlers, counter RateCounter, cfg RouterConfig) *chi.Mux {
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 10
	}
	if cfg.RateWindow <= 0 {
		cfg.RateWindow = 10 * time.Second
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"http://localhost:3000"}
	}

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Cron-Secret"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", h.HealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Use(RequireCronSecret(cfg.CronSecret))

		r.With(RateLimit(counter, cfg.RateLimit, cfg.RateWindow)).
			Post("/cron/dispatch", h.RunDispatch)

		r.Route("/campaigns/{id}", func(r chi.Router) {
			r.Get("/", h.GetCampaign)
			r.Post("/pause", h.PauseCampaign)
			r.Post("/resume", h.ResumeCampaign)
		})

		r.Route("/system", func(r chi.Router) {
			r.Post("/pause", h.PauseSystem)
			r.Post("/resume", h.ResumeSystem)
		})
	})

	return r
}
