package main

import (
	"log"

	"github.com/johnquangdev/meeting-automations/internal/infrastructure/database"
	"github.com/johnquangdev/meeting-automations/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database using GORM
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	log.Printf("🔄 Applying migrations from %s/ directory...", database.MigrationsDir)

	n, err := database.Migrate(db, database.MigrationsDir)
	if err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	log.Printf("✅ Successfully applied %d migration(s)!\n", n)
}
