package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/liamwears/reelbase/internal/config"
	"github.com/liamwears/reelbase/internal/database"
	"github.com/liamwears/reelbase/internal/handlers"
	"github.com/liamwears/reelbase/internal/logger"
	"github.com/liamwears/reelbase/internal/middleware"
	"github.com/liamwears/reelbase/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	zapLogger, err := logger.New("reelbase", cfg.Server.Env, cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	zapLogger.Info("starting reelbase server", zap.String("env", cfg.Server.Env))

	// Initialize Redis connection
	redisClient, err := database.NewRedisClient(database.RedisConfig{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       0,
		TLS:      cfg.Redis.TLS,
	}, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	// Initialize session store
	sessionStore := database.NewSessionStore(redisClient.Client, cfg.Session.TTL)

	// Initialize services
	tmdbService := services.NewTMDBService(services.TMDBConfig{
		APIKey:       cfg.TMDB.APIKey,
		BaseURL:      cfg.TMDB.BaseURL,
		ImageBaseURL: cfg.TMDB.ImageBaseURL,
		RPS:          cfg.TMDB.RPS,
		Burst:        20,
	}, zapLogger)
	catalogService := services.NewCatalogService(cfg.Catalog.GraphQLURL, nil, zapLogger)
	reconcileService := services.NewReconcileService(tmdbService, catalogService, zapLogger)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(sessionStore, zapLogger, cfg.IsProduction())

	// Initialize rate limiter (100 req/min in production, 1000 in local/dev)
	maxRequests := 1000
	if cfg.IsProduction() {
		maxRequests = 100
	}
	rateLimiter := middleware.NewRateLimiter(redisClient.Client, maxRequests, time.Minute, true, zapLogger)

	// Initialize view layer
	flasher := handlers.NewFlasher(cfg.Session.SecretKey, cfg.IsProduction(), zapLogger)
	renderer, err := handlers.NewRenderer(flasher, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to initialize renderer", zap.Error(err))
	}

	router := handlers.NewRouter(handlers.RouterConfig{
		Pages:          handlers.NewPageHandler(tmdbService, catalogService, reconcileService, renderer, zapLogger),
		Movies:         handlers.NewMovieHandler(tmdbService, catalogService, reconcileService, renderer, flasher, zapLogger),
		TMDB:           handlers.NewTMDBHandler(tmdbService, reconcileService, zapLogger),
		Auth:           handlers.NewAuthHandler(catalogService, sessionStore, authMiddleware, renderer, flasher, zapLogger),
		Favorites:      handlers.NewFavoritesHandler(tmdbService, catalogService, renderer, flasher, zapLogger),
		Renderer:       renderer,
		AuthMiddleware: authMiddleware,
		RateLimiter:    rateLimiter,
		Health:         healthHandler(redisClient),
		Logger:         zapLogger,
	})

	// Create HTTP server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		zapLogger.Info("server listening", zap.String("addr", addr), zap.String("url", cfg.Server.Host))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("server exited")
}

// healthHandler reports whether Redis answers
func healthHandler(redisClient *database.RedisClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if err := redisClient.Health(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "unhealthy", "redis": "down"})
			return
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok", "redis": "up"})
	}
}
