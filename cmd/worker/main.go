package main

import (
	"log"
	"time"

	"ddsync/internal/platform/config"
	"ddsync/internal/platform/database"
	"ddsync/internal/platform/repositories"
)

func main() {
	log.Println("Starting ddsync background worker...")

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	sessions := repositories.NewSessionRepository(db)

	// Customers who never come back from the provider leave orphaned
	// checkout sessions behind.
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		purged, err := sessions.PurgeExpired()
		if err != nil {
			log.Printf("Error purging expired checkout sessions: %v", err)
			continue
		}
		if purged > 0 {
			log.Printf("Purged %d expired checkout sessions", purged)
		}
	}
}
