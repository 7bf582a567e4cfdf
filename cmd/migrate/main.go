// Command migrate runs the schema migrations and category seeding
// against the configured database, then exits.
package main

import (
	"github.com/joho/godotenv"

	"github.com/workbridge/workbridge/internal/config"
	"github.com/workbridge/workbridge/internal/db"
	"github.com/workbridge/workbridge/internal/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Debugf("No .env file loaded: %v", err)
	}

	logger.Initialize()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// db.New runs the migrations and seeds the category directory
	if _, err := db.New(db.Options{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSL:      cfg.DBSSL,
		LogLevel: cfg.DBLogLevel,
	}); err != nil {
		logger.Fatalf("Migration failed: %v", err)
	}

	logger.Info("Migrations applied")
}
