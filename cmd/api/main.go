package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hotspotsapp/wifi-directory/internal/adapters/cache"
	"github.com/hotspotsapp/wifi-directory/internal/adapters/database"
	"github.com/hotspotsapp/wifi-directory/internal/api/handlers"
	"github.com/hotspotsapp/wifi-directory/internal/api/routes"
	"github.com/hotspotsapp/wifi-directory/internal/application/services"
	"github.com/hotspotsapp/wifi-directory/internal/bootstrap"
	"github.com/hotspotsapp/wifi-directory/internal/infrastructure/clients/redis"
	"github.com/hotspotsapp/wifi-directory/internal/infrastructure/observability"
	"github.com/hotspotsapp/wifi-directory/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger("wifi-directory", cfg.Env)
	logger := observability.GetLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Select the backing store; a failed Postgres connection falls back to
	// the seeded in-memory store.
	backend := bootstrap.SelectStore(ctx, cfg, *logger)
	defer func() {
		if err := backend.Close(); err != nil {
			logger.Error().Err(err).Msg("error closing backing store")
		}
	}()

	store := backend.Store

	// Wrap Postgres reads with Redis caching when available. The in-memory
	// store has nothing to gain from a cache in front of it.
	if backend.Driver == config.StorageDriverPostgres && cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(&cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, running without cache")
		} else {
			defer redisClient.Close()
			store = database.NewCachedDirectoryAdapter(store, cache.NewRedisAdapter(redisClient))
			logger.Info().Msg("store wrapped with redis caching layer")
		}
	}

	service := services.NewDirectoryService(store)

	router := routes.NewRouter(
		handlers.NewHotspotHandler(service),
		handlers.NewModerationHandler(service),
		handlers.NewReviewHandler(service),
		handlers.NewPhotoHandler(service),
		handlers.NewFavoriteHandler(service),
		backend.Driver,
	)
	handler := router.SetupRoutes()

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("error during server shutdown")
	}

	logger.Info().Msg("server stopped")
}
