package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the KrishiMitra backend. It is loaded
// once at process start and passed by reference into every component that
// needs it; nothing reads the environment at call time.
type Config struct {
	Port      int
	Version   string
	Providers ProvidersConfig
	Orchestra OrchestratorConfig
	Database  DatabaseConfig
	Telemetry TelemetryConfig
	Auth      AuthConfig
}

type ProvidersConfig struct {
	GeminiAPIKey    string
	GeminiModel     string
	DeepSeekAPIKey  string
	DeepSeekModel   string
	OpenRouterKey   string
	OpenRouterModel string

	MaxRetries  int
	BaseBackoff time.Duration
}

type OrchestratorConfig struct {
	Deadline time.Duration
}

type DatabaseConfig struct {
	// URL selects the PostgreSQL store when non-empty; otherwise the
	// in-memory store is used.
	URL string
}

type TelemetryConfig struct {
	Enabled      bool
	OTLPEndpoint string
	ServiceName  string
}

type AuthConfig struct {
	OTPTTL         time.Duration
	OTPMaxAttempts int
	RateLimit      int
	RateWindow     time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Port:    envInt("KRISHIMITRA_PORT", 8080),
		Version: envStr("KRISHIMITRA_VERSION", "0.2.0"),
		Providers: ProvidersConfig{
			GeminiAPIKey:    envStr("GEMINI_API_KEY", ""),
			GeminiModel:     envStr("GEMINI_MODEL", "gemini-2.0-flash"),
			DeepSeekAPIKey:  envStr("DEEPSEEK_API_KEY", ""),
			DeepSeekModel:   envStr("DEEPSEEK_MODEL", "deepseek-chat"),
			OpenRouterKey:   envStr("OPENROUTER_API_KEY", ""),
			OpenRouterModel: envStr("OPENROUTER_MODEL", "meta-llama/llama-3.3-70b-instruct"),
			MaxRetries:      envInt("PROVIDER_MAX_RETRIES", 2),
			BaseBackoff:     envDuration("PROVIDER_BASE_BACKOFF", 500*time.Millisecond),
		},
		Orchestra: OrchestratorConfig{
			Deadline: envDuration("ORCHESTRATOR_DEADLINE", 30*time.Second),
		},
		Database: DatabaseConfig{
			URL: envStr("DATABASE_URL", ""),
		},
		Telemetry: TelemetryConfig{
			Enabled:      envBool("OTEL_ENABLED", false),
			OTLPEndpoint: envStr("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			ServiceName:  envStr("OTEL_SERVICE_NAME", "krishimitra-backend"),
		},
		Auth: AuthConfig{
			OTPTTL:         envDuration("OTP_TTL", 5*time.Minute),
			OTPMaxAttempts: envInt("OTP_MAX_ATTEMPTS", 3),
			RateLimit:      envInt("AUTH_RATE_LIMIT", 5),
			RateWindow:     envDuration("AUTH_RATE_WINDOW", time.Minute),
		},
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
