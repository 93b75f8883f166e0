package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"harmonyhealth/internal/auth"
	"harmonyhealth/internal/capabilities"
	"harmonyhealth/internal/config"
	"harmonyhealth/internal/domain/repositories"
	"harmonyhealth/internal/handler"
	"harmonyhealth/internal/middleware"
	"harmonyhealth/internal/repository/memory"
	"harmonyhealth/internal/repository/postgres"
	"harmonyhealth/internal/seed"
	assistantService "harmonyhealth/internal/service/assistant"
	authService "harmonyhealth/internal/service/auth"
	mealService "harmonyhealth/internal/service/meal"
	planService "harmonyhealth/internal/service/plan"
	profileService "harmonyhealth/internal/service/profile"
	"harmonyhealth/internal/tracing"
)

// stores is the repository set backing the services
type stores struct {
	users    repositories.UserRepository
	profiles repositories.ProfileRepository
	plans    repositories.PlanRepository
	foods    repositories.FoodRepository
	meals    repositories.MealRepository
	tx       repositories.TransactionManager
	pool     *pgxpool.Pool // nil for the in-memory store
}

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	logger, logCloser, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
		"llm_provider", cfg.LLMProvider,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, cfg.TracingExporter)
	if err != nil {
		log.Fatalf("Failed to set up tracing: %v", err)
	}

	repos, err := openStores(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	if repos.pool != nil {
		defer repos.pool.Close()
	}

	tokens, verifier, err := setupTokens(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to set up tokens: %v", err)
	}
	defer verifier.Close()

	// Services
	authSvc := authService.NewAuthService(repos.users, repos.profiles, repos.tx, tokens, logger)
	profileSvc := profileService.NewProfileService(repos.profiles, logger)
	planSvc := planService.NewPlanService(repos.plans, repos.users, repos.tx, logger)
	mealSvc := mealService.NewMealService(repos.foods, repos.meals, repos.profiles, repos.tx, logger)

	chatSvc, err := assistantService.SetupChatService(cfg, profileSvc, planSvc, logger)
	if err != nil {
		log.Fatalf("Failed to set up assistant: %v", err)
	}

	capabilityRegistry, err := capabilities.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to initialize capability registry: %v", err)
	}

	if repos.pool == nil {
		if _, err := seed.NewSeeder(repos.foods, authSvc, logger).SeedFoods(ctx); err != nil {
			log.Fatalf("Failed to seed in-memory food catalog: %v", err)
		}
	}

	logger.Info("services initialized")

	var db handler.Pinger
	if repos.pool != nil {
		db = repos.pool
	}

	handlers := &handler.Handlers{
		Health:  handler.NewHealthHandler(db, logger),
		Auth:    handler.NewAuthHandler(authSvc, logger),
		Profile: handler.NewProfileHandler(profileSvc, logger),
		Plans:   handler.NewPlanHandler(planSvc, logger),
		Meals:   handler.NewMealHandler(mealSvc, logger),
		Chat:    handler.NewChatHandler(chatSvc, logger),
		Models:  handler.NewModelsHandler(cfg, logger, capabilityRegistry),
		ChatLimiter: middleware.RateLimit(ctx, middleware.RateLimitConfig{
			RequestsPerMin: cfg.ChatRatePerMin,
			BurstSize:      cfg.ChatRateBurst,
		}),
	}

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()
	handlers.Register(mux)

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → RequestID → Recovery → Auth → Routes
	var root http.Handler = mux
	root = middleware.Auth(verifier, logger)(root)
	root = middleware.Recovery(logger)(root)
	root = middleware.RequestID(logger)(root)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.LLMTimeout*time.Duration(cfg.AssistantMaxTurns) + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("tracer flush failed", "error", err)
	}
	logger.Info("server stopped")
}

// openStores connects to Postgres, or falls back to the in-memory store
// outside prod when DATABASE_URL is unset
func openStores(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*stores, error) {
	if cfg.DatabaseURL == "" {
		if cfg.Environment == "prod" {
			return nil, errors.New("DATABASE_URL is required in prod")
		}
		logger.Warn("DATABASE_URL not set - using in-memory store, data is lost on restart")
		store := memory.NewStore()
		return &stores{
			users:    memory.NewUserRepository(store),
			profiles: memory.NewProfileRepository(store),
			plans:    memory.NewPlanRepository(store),
			foods:    memory.NewFoodRepository(store),
			meals:    memory.NewMealRepository(store),
			tx:       memory.NewTransactionManager(store),
		}, nil
	}

	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	logger.Info("database connected", "max_conns", pool.Config().MaxConns)

	tables := postgres.NewTableNames(cfg.TablePrefix)
	if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
		pool.Close()
		return nil, err
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	return &stores{
		users:    postgres.NewUserRepository(repoConfig),
		profiles: postgres.NewProfileRepository(repoConfig),
		plans:    postgres.NewPlanRepository(repoConfig),
		foods:    postgres.NewFoodRepository(repoConfig),
		meals:    postgres.NewMealRepository(repoConfig),
		tx:       postgres.NewTransactionManager(pool, logger),
		pool:     pool,
	}, nil
}

// setupTokens returns the local issuer and the verifier used by the auth
// middleware. With JWKS_URL set, bearer tokens come from the external provider.
func setupTokens(cfg *config.Config, logger *slog.Logger) (auth.TokenIssuer, auth.TokenVerifier, error) {
	secret := cfg.JWTSecret
	if secret == "" {
		if cfg.Environment == "prod" {
			return nil, nil, errors.New("JWT_SECRET is required in prod")
		}
		secret = uuid.NewString() + uuid.NewString()
		logger.Warn("JWT_SECRET not set - using an ephemeral secret, tokens are invalid after restart")
	}

	tokens, err := auth.NewHMACTokens(secret, cfg.JWTIssuer, cfg.TokenTTL, logger)
	if err != nil {
		return nil, nil, err
	}

	if cfg.JWKSURL == "" {
		return tokens, tokens, nil
	}

	verifier, err := auth.NewJWKSVerifier(cfg.JWKSURL, logger)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("using external identity provider", "jwks_url", cfg.JWKSURL)
	return tokens, verifier, nil
}
