package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/sujalbistaa/twitclone/internal/config"
	"github.com/sujalbistaa/twitclone/internal/db"
	routes "github.com/sujalbistaa/twitclone/internal/http"
	"github.com/sujalbistaa/twitclone/internal/logs"
	"github.com/sujalbistaa/twitclone/internal/observability"
	"github.com/sujalbistaa/twitclone/internal/service"
	"github.com/sujalbistaa/twitclone/internal/storage"
	"github.com/sujalbistaa/twitclone/internal/ws"
)

func main() {
	// Missing .env is fine in production, where the environment is set directly.
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := logs.New(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)
	if envErr != nil {
		logger.Info("No .env file found, reading from environment")
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.TelemetryStdout {
		providers, err := observability.SetupStdout(os.Stdout, observability.Options{})
		if err != nil {
			return err
		}
		defer func() {
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := providers.Shutdown(flushCtx); err != nil {
				logger.Error("Error flushing telemetry", "error", err)
			}
		}()
		logger.Info("Telemetry exporting to stdout")
	}

	// 1. Database
	database, err := db.Open(cfg.DatabaseURL, db.Options{LogSQL: cfg.DBLog})
	if err != nil {
		return err
	}
	logger.Info("Running database migrations...")
	if err := db.Migrate(database); err != nil {
		return err
	}
	if cfg.SeedDemoUsers {
		users, err := db.Seed(database, db.DemoUsers())
		if err != nil {
			return err
		}
		logger.Info("Demo users ready", "count", len(users))
	}

	// 2. Media storage
	var (
		store        storage.Store
		staticPrefix string
		staticDir    string
	)
	switch cfg.MediaBackend {
	case config.MediaBackendS3:
		store, err = storage.NewS3(ctx, storage.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
	default:
		store, err = storage.NewLocal(cfg.MediaDir, cfg.MediaURLPrefix)
		staticPrefix, staticDir = cfg.MediaURLPrefix, cfg.MediaDir
	}
	if err != nil {
		return err
	}

	// 3. Live feed
	opts := []service.Option{service.WithMaxUploadBytes(cfg.MaxUploadBytes)}
	var hub *ws.Hub
	if cfg.LiveFeed {
		hub = ws.NewHub()
		go hub.Run(ctx)
		opts = append(opts, service.WithPublisher(hub))
	}

	// 4. Router
	svc := service.New(database, store, opts...)
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	limiter := routes.SetupRoutes(router, svc, hub, logger, routes.Options{
		CORSOrigin:     cfg.CORSOrigin,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		MaxUploadBytes: cfg.MaxUploadBytes,
		StaticPrefix:   staticPrefix,
		StaticDir:      staticDir,
	})
	go limiter.Cleanup(ctx, 10*time.Minute)

	// 5. Server with graceful shutdown
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("Server exiting")
	return nil
}
