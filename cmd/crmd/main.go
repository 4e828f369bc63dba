package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/pipedesk/pipedesk/db"
	"github.com/pipedesk/pipedesk/internal/auth"
	"github.com/pipedesk/pipedesk/internal/config"
	"github.com/pipedesk/pipedesk/internal/router"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// The package-level config was loaded at init; reload after godotenv so
	// values from .env take effect.
	config.App = config.Load()

	if err := auth.InitJWTSecret(); err != nil {
		log.Fatalf("Failed to initialize JWT secret: %v", err)
	}

	if config.App.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	if err := db.ConnectDatabase(config.App.DatabaseURL); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.MigrateDatabase(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	r := router.NewRouter()

	if err := r.Run(":" + config.App.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
