package main

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// config holds everything the server reads from the environment.
type config struct {
	DBURL         string
	ListenAddr    string
	GinMode       string
	OpenAIBaseURL string
	OpenAIKey     string
}

// loadConfig reads .env (when present) and the process environment, filling
// defaults for anything optional. DB_URL is required.
func loadConfig() config {
	// A missing .env is normal in production where the platform injects env vars.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[loadConfig] failed to read .env: %v", err)
	}

	return config{
		DBURL:         strings.TrimSpace(os.Getenv("DB_URL")),
		ListenAddr:    envOr("LISTEN_ADDR", "localhost:3000"),
		GinMode:       envOr("GIN_MODE", "release"),
		OpenAIBaseURL: envOr("OPENAI_BASE_URL", "https://api.openai.com"),
		OpenAIKey:     strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
	}
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
