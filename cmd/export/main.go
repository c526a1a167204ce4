package main

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"cabinbooking/internal/database"
	"cabinbooking/internal/domain"
	"cabinbooking/internal/modules/booking"
	"cabinbooking/internal/repository"
	"cabinbooking/internal/syncer"
)

func main() {
	_ = godotenv.Load()

	flagSet := pflag.NewFlagSet("export", pflag.ExitOnError)
	out := flagSet.StringP("out", "o", "", "output path (default bookings-export-<date>.csv)")
	_ = flagSet.Parse(os.Args[1:])

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := database.Connect(databaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	adapter := syncer.NewAdapter(repository.NewBookingStore(db, repository.NewLocalFeed()))
	if err := adapter.Start(ctx); err != nil {
		log.Fatalf("sync: %v", err)
	}
	defer adapter.Stop()

	select {
	case <-adapter.Ready():
	case <-ctx.Done():
		log.Fatal("timed out waiting for bookings")
	}

	var buf bytes.Buffer
	err = booking.WriteCSV(&buf, adapter.Snapshot().Bookings())
	if errors.Is(err, booking.ErrNothingToExport) {
		log.Println("No data to export")
		return
	}
	if err != nil {
		log.Fatalf("export: %v", err)
	}

	path := *out
	if path == "" {
		path = booking.ExportFilename(time.Now())
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		log.Fatalf("write %s: %v", path, err)
	}
	log.Printf("Exported %d bookings to %s", countRows(adapter.Snapshot()), path)
}

func countRows(snap domain.Snapshot) int {
	n := 0
	for _, b := range snap.Bookings() {
		if !b.Timestamp.IsZero() {
			n++
		}
	}
	return n
}
