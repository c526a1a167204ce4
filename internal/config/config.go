package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultHTTPAddr          = ":8080"
	defaultDatabaseURL       = "file:cabins.db?cache=shared"
	defaultJWTSecret         = "change-me-jwt-secret"
	defaultSessionTTL        = "24h"
	defaultAMQPExchange      = "cabin.bookings"
	defaultCabinCount        = "15"
	defaultCabinCapacities   = "4,5,6"
	defaultDurationHours     = "2"
	defaultWatchdogInterval  = "1s"
	defaultCriticalThreshold = "10m"
	defaultCORSOrigins       = "http://localhost:3000,http://localhost:5173"

	// MemoryDatabase selects the in-process record store instead of gorm.
	MemoryDatabase = "memory"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	DatabaseURL string
	JWTSecret   string
	SessionTTL  time.Duration
	CORSOrigins []string

	RedisURL     string
	AMQPURL      string
	AMQPExchange string

	CabinCount        int
	CabinCapacities   []int
	DurationHours     int
	WatchdogInterval  time.Duration
	CriticalThreshold time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{}
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.HTTPAddr = strings.TrimSpace(getEnv("HTTP_ADDR", defaultHTTPAddr))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.CORSOrigins = splitList(getEnv("CORS_ALLOWED_ORIGINS", defaultCORSOrigins))
	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.AMQPURL = strings.TrimSpace(os.Getenv("AMQP_URL"))
	cfg.AMQPExchange = strings.TrimSpace(getEnv("AMQP_EXCHANGE", defaultAMQPExchange))

	var err error
	if cfg.SessionTTL, err = parseDurationEnv("SESSION_TTL", defaultSessionTTL); err != nil {
		return nil, err
	}
	if cfg.WatchdogInterval, err = parseDurationEnv("WATCHDOG_INTERVAL", defaultWatchdogInterval); err != nil {
		return nil, err
	}
	if cfg.CriticalThreshold, err = parseDurationEnv("CRITICAL_THRESHOLD", defaultCriticalThreshold); err != nil {
		return nil, err
	}
	if cfg.CabinCount, err = parseIntEnv("CABIN_COUNT", defaultCabinCount); err != nil {
		return nil, err
	}
	if cfg.DurationHours, err = parseIntEnv("BOOKING_DURATION_HOURS", defaultDurationHours); err != nil {
		return nil, err
	}
	if cfg.CabinCapacities, err = parseIntListEnv("CABIN_CAPACITIES", defaultCabinCapacities); err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	log.Printf("config loaded: env=%s addr=%s cabins=%d capacities=%v duration=%dh redis=%t amqp=%t",
		cfg.AppEnv, cfg.HTTPAddr, cfg.CabinCount, cfg.CabinCapacities, cfg.DurationHours,
		cfg.RedisURL != "", cfg.AMQPURL != "")

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR must not be empty")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be > 0")
	}
	if cfg.WatchdogInterval <= 0 {
		return fmt.Errorf("WATCHDOG_INTERVAL must be > 0")
	}
	if cfg.CriticalThreshold <= 0 {
		return fmt.Errorf("CRITICAL_THRESHOLD must be > 0")
	}
	if cfg.CabinCount <= 0 {
		return fmt.Errorf("CABIN_COUNT must be > 0")
	}
	if cfg.DurationHours <= 0 {
		return fmt.Errorf("BOOKING_DURATION_HOURS must be > 0")
	}
	if len(cfg.CabinCapacities) == 0 {
		return fmt.Errorf("CABIN_CAPACITIES must list at least one capacity")
	}
	for _, c := range cfg.CabinCapacities {
		if c <= 0 {
			return fmt.Errorf("CABIN_CAPACITIES values must be > 0")
		}
	}
	if cfg.AMQPURL != "" && cfg.AMQPExchange == "" {
		return fmt.Errorf("AMQP_EXCHANGE must not be empty when AMQP_URL is set")
	}

	if IsProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if cfg.DatabaseURL == MemoryDatabase {
			return fmt.Errorf("in prod/release DATABASE_URL must point at a database")
		}
	}

	return nil
}

func IsProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func parseIntListEnv(name, fallback string) ([]int, error) {
	var out []int
	for _, part := range splitList(getEnv(name, fallback)) {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid %s entry %q: %w", name, part, err)
		}
		out = append(out, n)
	}
	return out, nil
}

func splitList(value string) []string {
	var out []string
	for _, p := range strings.Split(value, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
