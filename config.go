package quizmentor

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config carries everything the binaries read from the environment.
type Config struct {
	Port              string
	DatabasePath      string
	OpenAIAPIKey      string
	OpenAIModel       string
	SessionSecret     string
	AllowedOrigins    []string
	GenerationTimeout time.Duration
	LogMode           string
}

// LoadConfig reads the environment with defaults suitable for local
// development.
func LoadConfig() *Config {
	return &Config{
		Port:              getEnv("PORT", "8180"),
		DatabasePath:      getEnv("DATABASE_PATH", "./quizmentor.db"),
		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:       getEnv("OPENAI_MODEL", ""),
		SessionSecret:     getEnv("SESSION_SECRET", "quizmentor-dev-secret"),
		AllowedOrigins:    strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:3000"), ","),
		GenerationTimeout: time.Duration(getEnvAsInt("GENERATION_TIMEOUT_SECONDS", 90)) * time.Second,
		LogMode:           getEnv("LOG_MODE", "development"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}
