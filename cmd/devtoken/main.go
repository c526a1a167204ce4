package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"cabinbooking/internal/config"
	jwtsvc "cabinbooking/internal/pkg/jwt"
)

// devtoken mints a bearer token signed with JWT_SECRET for local testing.
func main() {
	_ = godotenv.Load()

	flagSet := pflag.NewFlagSet("devtoken", pflag.ExitOnError)
	userID := flagSet.StringP("user", "u", "", "user id placed in the token subject")
	role := flagSet.StringP("role", "r", "member", "member or admin")
	name := flagSet.StringP("name", "n", "", "display name")
	ttl := flagSet.Duration("ttl", 0, "token lifetime (default SESSION_TTL)")
	_ = flagSet.Parse(os.Args[1:])

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *ttl <= 0 {
		*ttl = cfg.SessionTTL
	}
	if *role != "member" && *role != "admin" {
		log.Fatalf("unknown role %q", *role)
	}

	token, err := jwtsvc.New(cfg.JWTSecret, *ttl).GenerateToken(*userID, *role, *name)
	if err != nil {
		log.Fatalf("generate token: %v", err)
	}
	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires %s\n", time.Now().Add(*ttl).UTC().Format(time.RFC3339))
}
