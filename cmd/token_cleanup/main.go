package main

import (
	"context"
	"log"
	"time"

	"bookclub/internal/config"
	"bookclub/internal/database"
	"bookclub/internal/repository"
)

// Purges refresh-token rows whose expiry has passed. Run by an operator;
// the API never deletes tokens itself.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	deleted, err := repository.NewRefreshTokenRepository(db).DeleteExpired(ctx, time.Now().UTC())
	if err != nil {
		log.Fatalf("cleanup tokens failed: %v", err)
	}

	log.Printf("token cleanup completed: tokens=%d", deleted)
}
