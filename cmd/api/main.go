package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"cabinbooking/internal/app"
	"cabinbooking/internal/config"
	"cabinbooking/internal/database"
	"cabinbooking/internal/domain"
	"cabinbooking/internal/events"
	"cabinbooking/internal/modules/booking"
	"cabinbooking/internal/modules/notification"
	jwtsvc "cabinbooking/internal/pkg/jwt"
	"cabinbooking/internal/realtime"
	"cabinbooking/internal/repository"
	"cabinbooking/internal/syncer"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if config.IsProdLike(cfg.AppEnv) {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	feed, closeFeed := newFeed(ctx, cfg)
	defer closeFeed()

	store, err := newStore(cfg, feed)
	if err != nil {
		log.Fatalf("store: %v", err)
	}

	adapter := syncer.NewAdapter(store)
	if err := adapter.Start(ctx); err != nil {
		log.Fatalf("sync: %v", err)
	}
	defer adapter.Stop()

	select {
	case <-adapter.Ready():
	case <-time.After(10 * time.Second):
		log.Println("No initial snapshot after 10s, serving with an empty booking set")
	}

	inbox := notification.NewService(0)
	go inbox.RunCleanup(ctx, time.Hour, notification.DefaultMaxAge)

	bus := events.Fanout{newPublisher(cfg), inbox}
	defer func() { _ = bus.Close() }()

	catalog := domain.DefaultCatalog(cfg.CabinCount, cfg.CabinCapacities)
	bookingService := booking.NewService(adapter, adapter, catalog, bus, booking.Config{
		DurationHours:     cfg.DurationHours,
		CriticalThreshold: cfg.CriticalThreshold,
	})

	serviceUpdates, cancelService := adapter.Listen()
	defer cancelService()
	go bookingService.Run(ctx, serviceUpdates)

	watchdogUpdates, cancelWatchdog := adapter.Listen()
	defer cancelWatchdog()
	watchdog := booking.NewWatchdog(adapter, bookingService, cfg.WatchdogInterval)
	go watchdog.Run(ctx, watchdogUpdates)

	hub := realtime.NewHub(bookingService)
	defer hub.Close()
	hubUpdates, cancelHub := adapter.Listen()
	defer cancelHub()
	go hub.Run(ctx, hubUpdates)

	r := app.NewRouter(app.Deps{
		JWT:         jwtsvc.New(cfg.JWTSecret, cfg.SessionTTL),
		Bookings:    bookingService,
		Health:      adapter,
		Hub:         hub,
		Inbox:       inbox,
		CORSOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}
	watchdog.Wait()
}

func newFeed(ctx context.Context, cfg *config.Config) (repository.ChangeFeed, func()) {
	feed, closeFeed, err := repository.OpenChangeFeed(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("change feed: %v", err)
	}
	if cfg.RedisURL != "" {
		log.Println("Redis change feed connected")
	}
	return feed, closeFeed
}

func newStore(cfg *config.Config, feed repository.ChangeFeed) (syncer.Store, error) {
	if cfg.DatabaseURL == config.MemoryDatabase {
		log.Println("Using in-memory booking store")
		return repository.NewMemoryStore(feed), nil
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	store := repository.NewBookingStore(db, feed)
	if err := store.Migrate(); err != nil {
		return nil, err
	}
	return store, nil
}

func newPublisher(cfg *config.Config) events.Publisher {
	if cfg.AMQPURL == "" {
		return events.Nop{}
	}
	p, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		log.Printf("rabbitmq unavailable, lifecycle events disabled: %v", err)
		return events.Nop{}
	}
	log.Printf("Publishing lifecycle events to exchange %s", cfg.AMQPExchange)
	return p
}
