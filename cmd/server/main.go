package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/wedding-planner-api/internal/api"
	"github.com/wedding-planner-api/internal/auth"
	"github.com/wedding-planner-api/internal/config"
	"github.com/wedding-planner-api/internal/database"
	"github.com/wedding-planner-api/internal/metrics"
	"github.com/wedding-planner-api/internal/repository"
	"github.com/wedding-planner-api/internal/seed"
	"github.com/wedding-planner-api/internal/service"
	"github.com/wedding-planner-api/pkg/logger"
)

func main() {
	// Initialize logger
	log := logger.New()
	log.Info().Msg("Starting Wedding Planner API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log = logger.NewWithWriter(os.Stdout, cfg.Log.Level, cfg.Log.Format == "pretty")

	// Load seed fixtures
	seedData, err := seed.Load(cfg.Server.SeedFile)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Server.SeedFile).Msg("Failed to load seed data")
	}

	// Initialize account store
	var repos *repository.Repositories
	if cfg.Auth.Enabled {
		db, err := database.New(context.Background(), &cfg.Database, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer db.Close()

		if err := db.RunMigrations(cfg.Database.MigrationsPath); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}
		repos = repository.New(db)
	} else {
		log.Warn().Msg("AUTH_ENABLED is off, accounts are kept in memory")
		repos = repository.NewInMemory()
	}

	reg := metrics.New()

	provider := auth.NewAccountProvider(repos.Account, auth.ProviderOptions{
		MinPasswordLength: cfg.Auth.MinPasswordLength,
		SignInRate:        cfg.Auth.SignInRate,
		SignInBurst:       cfg.Auth.SignInBurst,
		DisableSignUp:     !cfg.Auth.SignUpEnabled,
		Observer:          reg,
	}, log)

	// Initialize services
	services := service.NewServices(service.Dependencies{
		Seed:     seedData,
		Provider: provider,
		Metrics:  reg,
	}, cfg, log)

	// Start idle screen and session reaper
	services.Screens.StartReaper(context.Background())

	// Initialize router
	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(services, reg, cfg, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	services.Screens.StopReaper()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited gracefully")
}
