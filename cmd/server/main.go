package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/forgo/jobboard/internal/authz"
	"github.com/forgo/jobboard/internal/cache"
	"github.com/forgo/jobboard/internal/config"
	"github.com/forgo/jobboard/internal/database"
	"github.com/forgo/jobboard/internal/handler"
	"github.com/forgo/jobboard/internal/middleware"
	"github.com/forgo/jobboard/internal/repository"
	"github.com/forgo/jobboard/internal/service"
	"github.com/forgo/jobboard/internal/tasks"
	"github.com/forgo/jobboard/pkg/jwt"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logging
	level, _ := cfg.SlogLevel()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.IsDevelopment(),
	}))
	slog.SetDefault(logger)

	// Initialize storage
	ctx := context.Background()
	st, err := openStorage(ctx, cfg.Database.ToDatabase())
	if err != nil {
		slog.Error("failed to initialize database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = st.close() }()

	slog.Info("connected to database", slog.String("driver", cfg.Database.Driver))

	// Initialize JWT service
	jwtService, err := jwt.NewService(cfg.JWT.ToJWT())
	if err != nil {
		slog.Error("failed to initialize JWT service", slog.String("error", err.Error()))
		os.Exit(1)
	}
	gate := authz.NewGate(jwtService)

	// Process-wide cache shared by job listings and idempotent responses
	store := cache.New(cache.Config{
		MaxEntries:      cfg.Cache.MaxEntries,
		CleanupInterval: cfg.Cache.CleanupInterval,
	})
	defer store.Close()

	// Initialize services
	tokenService := service.NewTokenService(service.TokenServiceConfig{
		Signer: jwtService,
	})

	authService := service.NewAuthService(service.AuthServiceConfig{
		UserRepo:     st.users,
		TokenService: tokenService,
		BcryptCost:   cfg.Auth.BcryptCost,
	})

	ownership := service.AllowAnyEmployer
	if cfg.Jobs.EnforceOwnership {
		ownership = service.RequireJobOwner
	}
	jobService := service.NewJobService(service.JobServiceConfig{
		Repo:      st.jobs,
		Cache:     store,
		Policy:    cfg.Cache.ListingPolicy(),
		Ownership: ownership,
	})

	// Background tasks
	if cfg.Cache.StatsInterval > 0 {
		reporter := tasks.NewCacheStatsReporter(store, logger, cfg.Cache.StatsInterval)
		reporter.Start()
		defer reporter.Stop()
	}

	// Request guards
	idempotencyStore := middleware.NewIdempotencyStore(middleware.IdempotencyConfig{
		Cache: store,
	})
	defer idempotencyStore.Stop()

	guards := []middleware.Middleware{middleware.Idempotency(idempotencyStore)}
	if cfg.RateLimit.Enabled {
		rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		})
		defer rateLimiter.Stop()
		guards = append([]middleware.Middleware{middleware.RateLimit(rateLimiter)}, guards...)
	}

	// Public routes are limited per client IP. Authenticated routes run the
	// guards after Auth so limits and idempotency keys are per user.
	public := func(h http.Handler) http.Handler {
		return middleware.Chain(h, guards...)
	}
	protected := func(h http.Handler) http.Handler {
		return middleware.Chain(h, append([]middleware.Middleware{middleware.Auth(gate)}, guards...)...)
	}

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(st.ping, store)
	authHandler := handler.NewAuthHandler(authService)
	jobHandler := handler.NewJobHandler(jobService)

	// Setup routes
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler.Health)
	authHandler.RegisterRoutes(mux, public, protected)
	jobHandler.RegisterRoutes(mux, protected)

	// Apply global middleware
	wrapped := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(cfg.Server.AllowedOrigins),
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
}

// storage bundles the repositories for the configured driver
type storage struct {
	users service.UserRepository
	jobs  service.JobRepository
	ping  handler.PingFunc
	close func() error
}

func openStorage(ctx context.Context, cfg database.Config) (*storage, error) {
	if cfg.IsSQL() {
		db, err := database.OpenGorm(cfg)
		if err != nil {
			return nil, err
		}
		if err := repository.Migrate(db); err != nil {
			_ = database.CloseGorm(db)
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return &storage{
			users: repository.NewGormUserRepository(db),
			jobs:  repository.NewGormJobRepository(db),
			ping:  func(ctx context.Context) error { return database.PingGorm(ctx, db) },
			close: func() error { return database.CloseGorm(db) },
		}, nil
	}

	if cfg.Driver != database.DriverSurrealDB {
		return nil, fmt.Errorf("%w: %q", database.ErrUnsupportedDriver, cfg.Driver)
	}

	db := database.NewSurrealDB(cfg)
	if err := db.Connect(ctx); err != nil {
		return nil, err
	}
	if err := repository.MigrateSurreal(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &storage{
		users: repository.NewUserRepository(db),
		jobs:  repository.NewJobRepository(db),
		ping:  db.Ping,
		close: db.Close,
	}, nil
}
