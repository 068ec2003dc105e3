package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/petslib-api/internal/api"
	"github.com/petslib-api/internal/auth"
	"github.com/petslib-api/internal/config"
	"github.com/petslib-api/internal/repository"
	"github.com/petslib-api/internal/service"
	"github.com/petslib-api/internal/upload"
	"github.com/petslib-api/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log := logger.New("info", "json")
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	log.Info().Str("driver", cfg.Database.Driver).Msg("Starting PetsLib API server...")

	// Initialize database
	backend, err := repository.Open(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer backend.Close()

	// Run migrations or create indexes
	if err := backend.Prepare(context.Background(), cfg.Database.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to prepare database schema")
	}

	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize token manager")
	}

	store, err := upload.NewStore(cfg.Upload, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize upload store")
	}

	// Initialize services
	services := service.NewServices(backend.Repositories, cfg, tokens, store, log)

	// Initialize router
	router := api.NewRouter(services, cfg, backend, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      api.WithCORS(router, cfg.Server.CORSOrigins),
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

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited gracefully")
}
