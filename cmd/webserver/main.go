package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gorilla/sessions"
	"github.com/joho/godotenv"

	"quizmentor"
)

func main() {
	_ = godotenv.Load()
	cfg := quizmentor.LoadConfig()

	log, err := quizmentor.NewLogger(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if cfg.OpenAIAPIKey == "" {
		log.Fatal("OPENAI_API_KEY environment variable is required")
	}

	store, err := quizmentor.OpenStore(cfg.DatabasePath, log)
	if err != nil {
		log.Fatalw("failed to open store", "path", cfg.DatabasePath, "error", err)
	}

	generator := quizmentor.NewGenerator(cfg.OpenAIAPIKey, cfg.OpenAIModel, log)

	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	server := NewServer(store, generator, sessionStore, cfg.GenerationTimeout, log)
	router := server.Router(cfg.AllowedOrigins)

	log.Infow("starting server", "port", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalw("server stopped", "error", err)
	}
}
