package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	AllowedOrigin string
	// OpenAI-backed advisory capability
	OpenAIAPIKey string
	Model        string
	ChatTimeout  time.Duration
	// Database (optional; in-memory contexts when empty)
	DatabaseURL string
	// Optional YAML override for the fallback response library
	FallbackFile string
	// Per-session conversation cap
	MaxSessionTurns int
}

func Load() Config {
	_ = godotenv.Load()
	cfg := Config{
		Port:            getEnvDefault("PORT", "8080"),
		AllowedOrigin:   getEnvDefault("ALLOWED_ORIGIN", "*"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		Model:           getEnvDefault("OPENAI_MODEL", "gpt-4o-mini"),
		ChatTimeout:     time.Duration(getEnvIntDefault("CHAT_TIMEOUT_SECONDS", 20)) * time.Second,
		DatabaseURL:     os.Getenv("DB_URL"),
		FallbackFile:    os.Getenv("ADVISOR_FALLBACK_FILE"),
		MaxSessionTurns: getEnvIntDefault("MAX_SESSION_TURNS", 50),
	}
	if cfg.OpenAIAPIKey == "" {
		log.Println("warning: OPENAI_API_KEY is not set; chat will serve fallback responses only")
	}
	return cfg
}

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvIntDefault(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
