package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"seatmap/api/routes"
	"seatmap/internal/audit"
	"seatmap/internal/shared/config"
	"seatmap/internal/shared/database"
	"seatmap/internal/shared/middleware"
	"seatmap/pkg/logger"
	"seatmap/pkg/ratelimit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	appLogger := logger.GetDefault()

	if err := godotenv.Load(); err != nil {
		if os.Getenv("GIN_MODE") == "release" || os.Getenv("DOCKER_CONTAINER") == "true" {
			appLogger.Info("Production environment: using container environment variables")
		} else {
			appLogger.Info("No .env file found, using system environment variables")
		}
	} else {
		appLogger.Info("Development environment: loaded .env file")
	}

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	db, err := database.InitDB(cfg)
	if err != nil {
		appLogger.Error("failed to connect", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Audit stream (no-op unless enabled)
	auditPublisher, err := audit.NewPublisher(cfg, appLogger)
	if err != nil {
		appLogger.Error("Failed to initialize audit publisher", slog.Any("error", err))
		appLogger.Info("Continuing without audit stream")
		auditPublisher = audit.NopPublisher{}
	}
	defer auditPublisher.Close()

	// Rate limiter
	var rateLimiter *ratelimit.RateLimiter
	if cfg.RateLimit.Enabled {
		rateLimiter = ratelimit.NewRateLimiter(db.GetRedisClient(), &ratelimit.Config{
			Enabled:        cfg.RateLimit.Enabled,
			WindowDuration: cfg.RateLimit.WindowDuration,
			DefaultLimit:   cfg.RateLimit.DefaultLimit,
			AssignLimit:    cfg.RateLimit.AssignLimit,
			WhitelistedIPs: cfg.RateLimit.WhitelistedIPs,
		})
		appLogger.Info("Rate limiter initialized",
			slog.Duration("window", cfg.RateLimit.WindowDuration),
			slog.Int("default_limit", cfg.RateLimit.DefaultLimit),
			slog.Int("assign_limit", cfg.RateLimit.AssignLimit),
		)
	} else {
		appLogger.Info("Rate limiting disabled")
	}

	engine, appRouter, err := setupRouter(cfg, db, auditPublisher, rateLimiter, appLogger)
	if err != nil {
		appLogger.Error("Failed to set up routes", slog.Any("error", err))
		os.Exit(1)
	}

	// Background reclaim of expired cart holds
	sweeper := appRouter.Sweeper()
	if err := sweeper.Start(); err != nil {
		appLogger.Error("Failed to start cart sweeper", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := sweeper.Stop(); err != nil {
			appLogger.Error("Error stopping cart sweeper", slog.Any("error", err))
		}
	}()

	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        engine,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	go func() {
		appLogger.Info("🚀 Server running",
			slog.String("address", cfg.GetServerAddress()),
			slog.String("health_check", fmt.Sprintf("http://localhost:%s/health", cfg.Port)),
			slog.String("version", cfg.APIVersion),
			slog.Bool("rate_limiting", cfg.RateLimit.Enabled),
			slog.Bool("audit_stream", cfg.Kafka.Enabled),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed", slog.Any("error", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Forced shutdown", slog.Any("error", err))
	}

	appLogger.Info("Server exited gracefully")
}

func setupRouter(cfg *config.Config, db *database.DB, auditPublisher audit.Publisher, rateLimiter *ratelimit.RateLimiter, appLogger *logger.Logger) (*gin.Engine, *routes.Router, error) {
	engine := gin.New()

	engine.Use(middleware.RequestLogger(appLogger), gin.Recovery())

	engine.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Cart-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if rateLimiter != nil {
		engine.Use(ratelimit.Middleware(rateLimiter))
	}

	appRouter := routes.NewRouter(cfg, db, auditPublisher, appLogger)
	if err := appRouter.SetupRoutes(engine); err != nil {
		return nil, nil, err
	}
	return engine, appRouter, nil
}
