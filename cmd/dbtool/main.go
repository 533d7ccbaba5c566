package main

import (
	"context"
	"flag"
	"log"
	"time"

	"mdvrp-planner/internal/adapters/repositories"
	"mdvrp-planner/internal/config"
	"mdvrp-planner/internal/platform/db"

	"github.com/joho/godotenv"
)

func main() {
	purgeDays := flag.Int("purge-days", 0, "delete cached distances older than this many days (0 keeps everything)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	if *purgeDays > 0 {
		n, err := repositories.PurgeDistanceCache(ctx, conn, *purgeDays)
		if err != nil {
			log.Fatalf("purge failed: %v", err)
		}
		log.Printf("Purged %d cached distances older than %d days.", n, *purgeDays)
	}
}
