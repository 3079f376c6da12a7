package api

import (
	"encoding/json"
	"net/http"

	"github.com/krishimitra/krishimitra/internal/api/handlers"
	"github.com/krishimitra/krishimitra/internal/api/middleware"
	"github.com/krishimitra/krishimitra/internal/auth"
	"github.com/krishimitra/krishimitra/internal/config"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates the HTTP router with all API routes.
func NewRouter(cfg *config.Config, h *handlers.Handlers, limiter *auth.RateLimiter) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(middleware.Logger)
	r.Use(middleware.Telemetry)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id", "X-Trace-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health & info
	r.Get("/health", healthHandler)
	r.Get("/version", versionHandler(cfg))

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// AI assistance
		r.Post("/analyze-image", h.AnalyzeImage)
		r.Post("/chat", h.Chat)

		// Crops
		r.Route("/crops", func(r chi.Router) {
			r.Get("/", h.ListCrops)
			r.Post("/", h.CreateCrop)
			r.Route("/{cropId}", func(r chi.Router) {
				r.Get("/", h.GetCrop)
				r.Delete("/", h.DeleteCrop)
			})
		})

		// Pest reports
		r.Route("/pest-reports", func(r chi.Router) {
			r.Get("/", h.ListPestReports)
			r.Post("/", h.CreatePestReport)
			r.Route("/{reportId}", func(r chi.Router) {
				r.Get("/", h.GetPestReport)
				r.Delete("/", h.DeletePestReport)
			})
		})

		// Per-user history
		r.Get("/history/{userId}", h.ChatHistory)
		r.Get("/activity/{userId}", h.Activity)

		// OTP auth, rate-limited per client IP
		r.Route("/auth/otp", func(r chi.Router) {
			r.Use(middleware.RateLimit(limiter))
			r.Post("/send", h.SendOTP)
			r.Post("/verify", h.VerifyOTP)
		})
	})

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "krishimitra",
	})
}

func versionHandler(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"version": cfg.Version,
			"service": "krishimitra",
		})
	}
}
