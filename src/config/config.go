package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds everything the concierge services read from the environment.
type Config struct {
	// Model backend
	ModelProvider string
	GeminiKey     string
	GeminiModel   string
	MaxTokens     int

	// Capability provider process: full command line spawned for the
	// stdio transport, e.g. "travel-mcp" or "python3 server/server.py".
	ProviderTarget string

	// HTTP front end
	Port        string
	RateLimit   int
	CORSOrigins []string
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		if def == "" {
			log.Fatalf("missing env %s", key)
		}
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("env %s: %v", key, err)
	}
	return n
}

// Load reads configuration from .env (if present) and the environment.
// The Gemini API key has no default; startup fails without it.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		ModelProvider:  getenv("MODEL_PROVIDER", "gemini"),
		GeminiKey:      getenv("GEMINI_API_KEY", ""),
		GeminiModel:    getenv("GEMINI_MODEL", "gemini-1.5-flash"),
		MaxTokens:      getenvInt("MODEL_MAX_TOKENS", 1000),
		ProviderTarget: getenv("PROVIDER_TARGET", "travel-mcp"),
		Port:           getenv("PORT", "8080"),
		RateLimit:      getenvInt("RATE_LIMIT", 30),
		CORSOrigins:    strings.Split(getenv("CORS_ORIGINS", "http://localhost:3000"), ","),
	}
}
