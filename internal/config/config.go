package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds application configuration
type Config struct {
	ServerPort      string
	BaseURL         string
	FrontendURL     string
	OpenAIKey       string
	AIProvider      string
	AIModel         string
	AIBaseURL       string
	EnableHSTS      bool
	MatchThreshold  float64
	RateLimit       string
	RedisURL        string
	RabbitMQURL     string
	OIDCIssuer      string
	OIDCJWKSURL     string
	OIDCClientID    string
	OIDCSecret      string
	OIDCRedirectURI string
	ServerDebugMode bool
	OTELEnabled     bool
	OTELEndpoint    string
}

// Load loads configuration from environment variables. Only the OpenAI key
// is mandatory; Redis, RabbitMQ and OIDC are optional integrations that
// degrade to in-process or disabled behavior when unset.
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		BaseURL:         getEnv("BASE_URL", "http://localhost:8080"),
		FrontendURL:     getEnv("FRONTEND_URL", "http://localhost:3000"),
		OpenAIKey:       getEnv("OPENAI_API_KEY", ""),
		AIProvider:      getEnv("AI_PROVIDER", "openai"),
		AIModel:         getEnv("AI_MODEL", ""),
		AIBaseURL:       getEnv("AI_BASE_URL", ""),
		EnableHSTS:      getEnvBool("ENABLE_HSTS", false),
		MatchThreshold:  getEnvFloat("MATCH_THRESHOLD", 0),
		RateLimit:       getEnv("RATE_LIMIT", "5-S"),
		RedisURL:        getEnv("REDIS_URL", ""),
		RabbitMQURL:     getEnv("RABBITMQ_URL", ""),
		OIDCIssuer:      getEnv("OIDC_ISSUER", ""),
		OIDCJWKSURL:     getEnv("OIDC_JWKS_URL", ""),
		OIDCClientID:    getEnv("OIDC_CLIENT_ID", ""),
		OIDCSecret:      getEnv("OIDC_CLIENT_SECRET", ""),
		OIDCRedirectURI: getEnv("OIDC_REDIRECT_URI", ""),
		ServerDebugMode: getEnvBool("SERVER_DEBUG_MODE", false),
		OTELEnabled:     getEnvBool("OTEL_ENABLED", false),
		OTELEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}

	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required for task extraction")
	}

	if cfg.MatchThreshold < 0 || cfg.MatchThreshold > 1 {
		return nil, fmt.Errorf("MATCH_THRESHOLD must be between 0 and 1, got %v", cfg.MatchThreshold)
	}

	if cfg.OIDCIssuer != "" && cfg.OIDCJWKSURL == "" {
		return nil, fmt.Errorf("OIDC_JWKS_URL is required when OIDC_ISSUER is set")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
