// Package server provides the public entry point for initializing the
// KrishiMitra backend server.
//
// Usage:
//
//	srv, err := server.New(ctx)
//	http.ListenAndServe(":8080", srv.Handler)
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/krishimitra/krishimitra/internal/api"
	"github.com/krishimitra/krishimitra/internal/api/handlers"
	"github.com/krishimitra/krishimitra/internal/auth"
	"github.com/krishimitra/krishimitra/internal/config"
	"github.com/krishimitra/krishimitra/internal/orchestrator"
	"github.com/krishimitra/krishimitra/internal/providers"
	"github.com/krishimitra/krishimitra/internal/store"
	"github.com/krishimitra/krishimitra/internal/telemetry"
	"github.com/krishimitra/krishimitra/pkg/models"

	"github.com/rs/zerolog/log"
)

// Server holds the initialized KrishiMitra backend.
type Server struct {
	// Handler is the HTTP handler with all routes and middleware.
	Handler http.Handler

	// Store is the data store (in-memory unless DATABASE_URL is set).
	Store store.Store

	// Config is the server configuration.
	Config *config.Config

	// Port is the port the server should listen on.
	Port int

	// ShutdownFunc should be called on graceful shutdown to flush telemetry.
	ShutdownFunc func(context.Context) error
}

// New initializes all components from the environment and returns a ready
// Server.
func New(ctx context.Context) (*Server, error) {
	return NewWithConfig(ctx, config.Load())
}

// NewWithConfig initializes the backend with an explicit configuration.
func NewWithConfig(ctx context.Context, cfg *config.Config) (*Server, error) {
	// Initialize telemetry
	shutdown, err := telemetry.Init(cfg.Telemetry)
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	dataStore, err := newStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	seedDefaultCrops(ctx, dataStore)

	orch := orchestrator.New(visionChain(cfg.Providers), chatChain(cfg.Providers), cfg.Orchestra.Deadline)
	log.Info().Msg("✅ AI orchestrator initialized")

	otp := auth.NewOTPStore(cfg.Auth.OTPTTL, cfg.Auth.OTPMaxAttempts)
	limiter := auth.NewRateLimiter(cfg.Auth.RateLimit, cfg.Auth.RateWindow)

	h := handlers.New(dataStore, orch, otp)
	router := api.NewRouter(cfg, h, limiter)

	return &Server{
		Handler:      router,
		Store:        dataStore,
		Config:       cfg,
		Port:         cfg.Port,
		ShutdownFunc: shutdown,
	}, nil
}

func newStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	if cfg.Database.URL == "" {
		log.Info().Msg("✅ In-memory store initialized")
		return store.NewMemoryStore(), nil
	}
	pg, err := store.NewPostgresStore(ctx, cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	log.Info().Msg("✅ PostgreSQL store initialized")
	return pg, nil
}

// visionChain builds the image-analysis provider chain: Gemini first (the
// only multimodal provider with first-party image support here), then
// OpenRouter via the OpenAI-compatible vision message format.
func visionChain(p config.ProvidersConfig) []providers.Descriptor {
	return []providers.Descriptor{
		{
			Client:      providers.NewGemini(p.GeminiAPIKey, p.GeminiModel),
			Priority:    1,
			MaxRetries:  p.MaxRetries,
			BaseBackoff: p.BaseBackoff,
		},
		{
			Client:      providers.NewOpenRouter(p.OpenRouterKey, p.OpenRouterModel),
			Priority:    2,
			MaxRetries:  p.MaxRetries,
			BaseBackoff: p.BaseBackoff,
		},
	}
}

// chatChain builds the text-advice provider chain.
func chatChain(p config.ProvidersConfig) []providers.Descriptor {
	return []providers.Descriptor{
		{
			Client:      providers.NewGemini(p.GeminiAPIKey, p.GeminiModel),
			Priority:    1,
			MaxRetries:  p.MaxRetries,
			BaseBackoff: p.BaseBackoff,
		},
		{
			Client:      providers.NewDeepSeek(p.DeepSeekAPIKey, p.DeepSeekModel),
			Priority:    2,
			MaxRetries:  p.MaxRetries,
			BaseBackoff: p.BaseBackoff,
		},
		{
			Client:      providers.NewOpenRouter(p.OpenRouterKey, p.OpenRouterModel),
			Priority:    3,
			MaxRetries:  p.MaxRetries,
			BaseBackoff: p.BaseBackoff,
		},
	}
}

func seedDefaultCrops(ctx context.Context, s store.Store) {
	existing, err := s.ListCrops(ctx)
	if err != nil || len(existing) > 0 {
		return
	}
	crops := []models.Crop{
		{ID: "rice", Name: "Rice", Season: "kharif", SoilType: "clay loam", WaterNeed: "high", DurationDays: 120},
		{ID: "wheat", Name: "Wheat", Season: "rabi", SoilType: "loam", WaterNeed: "medium", DurationDays: 140},
		{ID: "cotton", Name: "Cotton", Season: "kharif", SoilType: "black", WaterNeed: "medium", DurationDays: 180},
		{ID: "tomato", Name: "Tomato", Season: "all", SoilType: "sandy loam", WaterNeed: "medium", DurationDays: 90},
		{ID: "sugarcane", Name: "Sugarcane", Season: "annual", SoilType: "loam", WaterNeed: "high", DurationDays: 365},
	}
	for i := range crops {
		if err := s.CreateCrop(ctx, &crops[i]); err != nil {
			log.Warn().Err(err).Str("crop", crops[i].Name).Msg("Failed to seed crop")
			return
		}
	}
	log.Info().Int("count", len(crops)).Msg("✅ Default crops seeded")
}

// WaitForStore pings the store until it answers, so a cold database
// container does not fail the first boot.
func WaitForStore(ctx context.Context, s store.Store, attempts int, delay time.Duration) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = s.Ping(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return err
}
