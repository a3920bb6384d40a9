// seed promotes an email address to admin, creating the user if needed.
// Run: SEED_ADMIN_EMAIL=admin@example.com go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/ErlanBelekov/yamdb-auth/internal/domain"
	"github.com/ErlanBelekov/yamdb-auth/internal/infrastructure/postgres"
	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type seedConfig struct {
	DatabaseURL string `env:"DATABASE_URL,required" validate:"required"`
	AdminEmail  string `env:"SEED_ADMIN_EMAIL,required" validate:"required,email"`
}

func main() {
	ctx := context.Background()

	var cfg seedConfig
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("parse env: %v", err)
	}
	cfg.AdminEmail = strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	if err := validator.New().Struct(cfg); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL,
		postgres.WithApplicationName("yamdb-seed"),
		postgres.WithMaxConns(1),
	)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	users := postgres.NewUserRepository(pool)

	user, err := users.FindOrCreate(ctx, cfg.AdminEmail)
	if err != nil {
		log.Fatalf("find or create user: %v", err)
	}
	if err := users.SetRole(ctx, user.ID, domain.RoleAdmin); err != nil {
		log.Fatalf("set role: %v", err)
	}

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  Admin:   %s\n", user.Email)
	fmt.Printf("  User ID: %s\n", user.ID)
	fmt.Println()
	fmt.Println("Log in:")
	fmt.Println()
	fmt.Printf("  curl -s -X POST http://localhost:8080/api/v1/auth/signup \\\n")
	fmt.Printf("    -H 'Content-Type: application/json' \\\n")
	fmt.Printf("    -d '{\"email\":\"%s\"}'\n", user.Email)
	fmt.Println()
	fmt.Println("  # Copy the code from the email (or the server log with EMAIL_PROVIDER=log), then:")
	fmt.Println()
	fmt.Printf("  curl -s -X POST http://localhost:8080/api/v1/auth/token \\\n")
	fmt.Printf("    -H 'Content-Type: application/json' \\\n")
	fmt.Printf("    -d '{\"email\":\"%s\",\"confirmation_code\":\"CODE\"}'\n", user.Email)
}
