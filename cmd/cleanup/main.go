package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"cabinbooking/internal/database"
	"cabinbooking/internal/repository"
)

func main() {
	_ = godotenv.Load()

	flagSet := pflag.NewFlagSet("cleanup", pflag.ExitOnError)
	retention := flagSet.Duration("retention", 30*24*time.Hour, "delete rejected and completed bookings untouched for longer than this")
	dryRun := flagSet.Bool("dry-run", false, "print the cutoff and exit")
	_ = flagSet.Parse(os.Args[1:])

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	if *retention <= 0 {
		log.Fatal("--retention must be positive")
	}

	cutoff := time.Now().Add(-*retention)
	if *dryRun {
		log.Printf("would delete terminal bookings updated before %s", cutoff.UTC().Format(time.RFC3339))
		return
	}

	db, err := database.Connect(databaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	// running servers reload from the shared feed after rows are pruned
	feed, closeFeed, err := repository.OpenChangeFeed(ctx, os.Getenv("REDIS_URL"))
	if err != nil {
		log.Fatalf("change feed: %v", err)
	}
	defer closeFeed()
	store := repository.NewBookingStore(db, feed)

	n, err := store.PruneTerminal(ctx, cutoff)
	if err != nil {
		log.Fatalf("cleanup cabin_bookings failed: %v", err)
	}
	log.Printf("booking cleanup completed: cabin_bookings=%d cutoff=%s", n, cutoff.UTC().Format(time.RFC3339))
}
