package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/caremate-health/caremate/internal/chat"
	"github.com/caremate-health/caremate/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger         *logging.Logger
	ChatHandler    *chat.Handler
	MetricsHandler http.Handler
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", cfg.ChatHandler.HealthCheck)
		api.Post("/health-chat", cfg.ChatHandler.HealthChat)
		api.Post("/whatsapp-inbound", cfg.ChatHandler.WhatsAppInbound)
		api.Post("/detect-language", cfg.ChatHandler.DetectLanguage)
	})

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	return r
}
