package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"harmonyhealth/internal/auth"
	"harmonyhealth/internal/config"
	"harmonyhealth/internal/repository/postgres"
	"harmonyhealth/internal/seed"
	authService "harmonyhealth/internal/service/auth"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed the food catalog")
	demoUser := flag.String("demo-user", "", "Also create a demo account with this username")
	demoPassword := flag.String("demo-password", "demo-password", "Password for the demo account")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("🚫 BLOCKED: Cannot run --drop-tables in production environment")
	}
	if cfg.DatabaseURL == "" {
		log.Fatalf("DATABASE_URL is required")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	if *schemaOnly {
		log.Printf("🏗️  Setting up schema only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else {
		log.Printf("🌱 Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	}

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		log.Println("🗑️  Dropping all tables...")
		if err := postgres.DropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("✅ Tables dropped")
	}

	log.Println("📋 Ensuring database schema is up to date...")
	if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("✅ Schema ready")

	if *schemaOnly {
		log.Println("✅ Schema setup complete (schema-only mode)")
		return
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	foodRepo := postgres.NewFoodRepository(repoConfig)

	// Seeding never hands tokens out, so any secret will do
	secret := cfg.JWTSecret
	if secret == "" {
		secret = uuid.NewString() + uuid.NewString()
	}
	tokens, err := auth.NewHMACTokens(secret, cfg.JWTIssuer, cfg.TokenTTL, logger)
	if err != nil {
		log.Fatalf("Failed to create token issuer: %v", err)
	}
	authSvc := authService.NewAuthService(
		postgres.NewUserRepository(repoConfig),
		postgres.NewProfileRepository(repoConfig),
		postgres.NewTransactionManager(pool, logger),
		tokens,
		logger,
	)

	seeder := seed.NewSeeder(foodRepo, authSvc, logger)

	n, err := seeder.SeedFoods(ctx)
	if err != nil {
		log.Fatalf("Failed to seed foods: %v", err)
	}
	log.Printf("🍚 Food catalog ready (%d items)", n)

	if *demoUser != "" {
		user, err := seeder.SeedDemoUser(ctx, *demoUser, *demoPassword)
		if err != nil {
			log.Fatalf("Failed to create demo user: %v", err)
		}
		if user != nil {
			log.Printf("👤 Demo user %q created (id %d)", user.Username, user.ID)
		} else {
			log.Printf("👤 Demo user %q already exists", *demoUser)
		}
	}

	log.Println("✅ Seeding complete")
}
