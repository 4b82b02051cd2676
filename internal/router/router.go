package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/FACorreiaa/bharat-guide/internal/api/discovery"
	llmChat "github.com/FACorreiaa/bharat-guide/internal/api/llm_chat"
	"github.com/FACorreiaa/bharat-guide/internal/api/places"
)

// Config contains dependencies needed for the router setup
type Config struct {
	PlacesHandler    *places.Handler
	DiscoveryHandler *discovery.HandlerImpl
	ChatHandler      *llmChat.HandlerImpl

	DiscoveryAuth func(http.Handler) http.Handler
	ChatAuth      func(http.Handler) http.Handler
	// RateLimit guards every route that reaches the AI service
	RateLimit func(http.Handler) http.Handler

	AllowedOrigins []string
	// RequestTimeout bounds REST handlers. Streams are exempt.
	RequestTimeout time.Duration
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (like logger, requestID, recoverer) are expected
// to be applied *before* mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any major browsers
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	r.Route("/api/v1", func(r chi.Router) {
		// --- Public reference data ---
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(timeout))
			r.Get("/locales", cfg.PlacesHandler.GetLocales)
			r.Get("/places/iconic", cfg.PlacesHandler.GetIconic)
		})

		r.Route("/discovery/sessions", func(r chi.Router) {
			r.With(middleware.Timeout(timeout), cfg.RateLimit).Post("/", cfg.DiscoveryHandler.CreateSession)

			// --- Session scoped, token required ---
			r.Route("/{id}", func(r chi.Router) {
				r.Use(cfg.DiscoveryAuth)
				r.Get("/stream", cfg.DiscoveryHandler.Stream)

				r.Group(func(r chi.Router) {
					r.Use(middleware.Timeout(timeout))
					r.Get("/", cfg.DiscoveryHandler.GetSession)
					r.Delete("/", cfg.DiscoveryHandler.DeleteSession)
					r.With(cfg.RateLimit).Post("/anchor", cfg.DiscoveryHandler.SelectAnchor)
				})
			})
		})

		r.Route("/chat/sessions", func(r chi.Router) {
			r.With(middleware.Timeout(timeout), cfg.RateLimit).Post("/", cfg.ChatHandler.CreateSession)

			r.Route("/{id}", func(r chi.Router) {
				r.Use(cfg.ChatAuth)
				r.Get("/stream", cfg.ChatHandler.Stream)

				r.Group(func(r chi.Router) {
					r.Use(middleware.Timeout(timeout))
					r.Get("/", cfg.ChatHandler.GetSession)
					r.Delete("/", cfg.ChatHandler.DeleteSession)
					r.With(cfg.RateLimit).Post("/messages", cfg.ChatHandler.SendMessage)
				})
			})
		})
	})

	return r
}
