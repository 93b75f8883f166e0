package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	CORSOrigins string
	TablePrefix string
	LogDir      string

	// Auth
	JWTSecret string
	JWTIssuer string
	TokenTTL  time.Duration
	JWKSURL   string // Optional external identity provider; HS256 tokens are used when empty

	// LLM Configuration
	LLMProvider   string // "openai" or "scripted"
	OpenAIAPIKey  string
	OpenAIBaseURL string
	LLMModel      string
	LLMTimeout    time.Duration

	// Assistant loop
	AssistantMaxTurns int
	ChatRatePerMin    int
	ChatRateBurst     int

	// Provider circuit breaker
	BreakerMaxFailures int
	BreakerTimeout     time.Duration

	// Tracing exporter: "noop" or "stdout"
	TracingExporter string
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	apiKey := getEnv("OPENAI_API_KEY", "")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		DatabaseURL: getEnv("DATABASE_URL", ""),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix: getTablePrefix(env),
		LogDir:      getEnv("LOG_DIR", ""),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTIssuer: getEnv("JWT_ISSUER", "harmonyhealth"),
		TokenTTL:  getDuration("TOKEN_TTL", 30*24*time.Hour),
		JWKSURL:   getEnv("JWKS_URL", ""),

		LLMProvider:   getEnv("LLM_PROVIDER", getDefaultProvider(env, apiKey)),
		OpenAIAPIKey:  apiKey,
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		LLMModel:      getEnv("LLM_MODEL", "gpt-4o-2024-08-06"),
		LLMTimeout:    getDuration("LLM_TIMEOUT", 60*time.Second),

		AssistantMaxTurns: getInt("ASSISTANT_MAX_TURNS", DefaultAssistantMaxTurns),
		ChatRatePerMin:    getInt("CHAT_RATE_PER_MIN", 20),
		ChatRateBurst:     getInt("CHAT_RATE_BURST", 5),

		BreakerMaxFailures: getInt("BREAKER_MAX_FAILURES", 5),
		BreakerTimeout:     getDuration("BREAKER_TIMEOUT", 30*time.Second),

		TracingExporter: getEnv("TRACING_EXPORTER", "noop"),
	}
}

// getDefaultProvider falls back to the scripted provider outside prod when no API key is set
func getDefaultProvider(env, apiKey string) string {
	if apiKey == "" && env != "prod" {
		return "scripted"
	}
	return "openai"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}
