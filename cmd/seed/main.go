package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"cabinbooking/internal/config"
	"cabinbooking/internal/database"
	"cabinbooking/internal/domain"
	"cabinbooking/internal/events"
	"cabinbooking/internal/modules/booking"
	"cabinbooking/internal/repository"
	"cabinbooking/internal/syncer"
)

// Group sizes match the default catalog capacities (4, 5, 6, 4).
type sample struct {
	member  domain.Actor
	cabinID string
	group   []string
	action  string
}

var samples = []sample{
	{domain.Actor{ID: "member-aigerim", Role: domain.RoleMember}, "C1", []string{"Aigerim", "Dana", "Madina", "Zhanna"}, "approve"},
	{domain.Actor{ID: "member-timur", Role: domain.RoleMember}, "C2", []string{"Timur", "Arman", "Ruslan", "Daulet", "Yerlan"}, "approve"},
	{domain.Actor{ID: "member-saule", Role: domain.RoleMember}, "C3", []string{"Saule", "Aliya", "Gulnara", "Kamila", "Asel", "Dinara"}, ""},
	{domain.Actor{ID: "member-nurlan", Role: domain.RoleMember}, "C4", []string{"Nurlan", "Bekzat", "Askar", "Marat"}, "reject"},
}

func main() {
	_ = godotenv.Load()

	flagSet := pflag.NewFlagSet("seed", pflag.ExitOnError)
	reset := flagSet.Bool("reset", true, "delete existing bookings first")
	_ = flagSet.Parse(os.Args[1:])

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == config.MemoryDatabase {
		log.Fatal("seed needs a persistent DATABASE_URL")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	store := repository.NewBookingStore(db, repository.NewLocalFeed())
	log.Println("Running AutoMigrate...")
	if err := store.Migrate(); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}
	if *reset {
		log.Println("Cleaning old bookings...")
		if err := db.Exec("DELETE FROM cabin_bookings").Error; err != nil {
			log.Fatal("cleanup failed:", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	adapter := syncer.NewAdapter(store)
	if err := adapter.Start(ctx); err != nil {
		log.Fatalf("sync: %v", err)
	}
	defer adapter.Stop()
	<-adapter.Ready()

	catalog := domain.DefaultCatalog(cfg.CabinCount, cfg.CabinCapacities)
	svc := booking.NewService(adapter, adapter, catalog, events.Nop{}, booking.Config{
		DurationHours:     cfg.DurationHours,
		CriticalThreshold: cfg.CriticalThreshold,
	})
	admin := domain.Actor{ID: "admin-seed", Role: domain.RoleAdmin, Name: "Seeder"}

	created := 0
	for _, s := range samples {
		b, err := svc.CreateBooking(ctx, booking.CreateBookingRequest{CabinID: s.cabinID, GroupMembers: s.group}, s.member)
		if err != nil {
			log.Printf("skip %s on %s: %v", s.member.ID, s.cabinID, err)
			continue
		}
		created++

		switch s.action {
		case "approve":
			_, err = svc.Approve(ctx, b.ID, admin)
		case "reject":
			_, err = svc.Reject(ctx, b.ID, admin)
		}
		if err != nil {
			log.Printf("%s %s: %v", s.action, b.ID, err)
		}
	}

	// the local feed only reaches this process; tell running servers to reload
	if cfg.RedisURL != "" {
		shared, closeShared, err := repository.OpenChangeFeed(ctx, cfg.RedisURL)
		if err != nil {
			log.Printf("change feed: %v", err)
		} else {
			if err := shared.Notify(ctx); err != nil {
				log.Printf("change feed notify: %v", err)
			}
			closeShared()
		}
	}

	fmt.Printf("Seed completed: %d bookings, %d in the approval queue\n", created, len(svc.Queue()))
}
