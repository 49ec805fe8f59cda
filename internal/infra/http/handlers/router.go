package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/unic-leads/internal/infra/http/middleware"
)

type Router struct {
	Applications *ApplicationHandler
	ThankYou     *ThankYouHandler
	Income       *IncomeHandler
	Relay        *RelayHandler
	CheckEnv     *CheckEnvHandler
	Health       *HealthHandler

	AllowedOrigins []string
	AccessLog      bool
}

func (rt Router) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	if rt.AccessLog {
		r.Use(chimw.Logger)
	}
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)

	origins := rt.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	withCORS := cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(withCORS)
		r.Use(middleware.Session)
		r.Use(middleware.ClientMeta)

		r.Post("/applications", rt.Applications.Submit)
		r.Post("/applications/validate", rt.Applications.Validate)
		r.Get("/applications/state", rt.Applications.State)
		r.Post("/applications/reset", rt.Applications.Reset)

		r.Get("/thank-you", rt.ThankYou.Check)
		r.Post("/thank-you/dismiss", rt.ThankYou.Dismiss)

		r.Get("/income", rt.Income.Estimate)
	})

	// The relay endpoints answer their own preflight with "*" whatever
	// CORS_ALLOWED_ORIGINS says, so they stay outside withCORS.
	r.HandleFunc("/relay/applications", rt.Relay.Handle)
	r.HandleFunc("/relay/check-env", rt.CheckEnv.Handle)

	r.With(withCORS).Get("/health", rt.Health.Handle)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
