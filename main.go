package main

import (
	"log"

	"github.com/gin-gonic/gin"
)

func main() {
	// Set properties of the predefined Logger, including
	// the log entry prefix and a flag to disable printing
	// the time, source file, and line number.
	log.SetPrefix("mumuca-diet-api: ")
	log.SetFlags(0)

	cfg := loadConfig()
	if cfg.DBURL == "" {
		log.Fatal("DB_URL is required")
	}
	gin.SetMode(cfg.GinMode)

	pool := getDBPool(cfg.DBURL)
	defer pool.Close()

	h := &Handler{db: pool, openAIBaseURL: cfg.OpenAIBaseURL, openAIKey: cfg.OpenAIKey}

	router := gin.Default()
	router.SetTrustedProxies(nil)
	h.registerRoutes(router)

	if cfg.OpenAIKey == "" {
		log.Printf("OPENAI_API_KEY not set, food suggestions will fail")
	}

	log.Printf("listening on %s", cfg.ListenAddr)
	if err := router.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
