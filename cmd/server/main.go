package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BerylCAtieno/requirements-testgen/internal/config"
	"github.com/BerylCAtieno/requirements-testgen/internal/db"
	"github.com/BerylCAtieno/requirements-testgen/internal/generator"
	"github.com/BerylCAtieno/requirements-testgen/internal/repository"
	"github.com/BerylCAtieno/requirements-testgen/internal/router"
	"github.com/BerylCAtieno/requirements-testgen/internal/services"
	"github.com/BerylCAtieno/requirements-testgen/internal/storage"
	"github.com/BerylCAtieno/requirements-testgen/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := utils.NewLogger(cfg.LogLevel)

	database, err := db.NewSQLiteDB(cfg.DatabasePath)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer database.Close()

	if err := db.RunMigrations(database); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	store, err := storage.New(context.Background(), cfg)
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}

	factory := generator.NewFactory(cfg, &http.Client{Timeout: cfg.GenerateTimeout}, logger)

	runRepo := repository.NewRepository(database)
	genService := services.NewService(runRepo, store, factory, cfg, logger)

	handler := router.NewRouter(genService, cfg, logger)

	// WriteTimeout has to cover the model call.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.GenerateTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting server",
			"port", cfg.Port,
			"provider", cfg.GeneratorProvider,
			"default_model", cfg.DefaultModel,
			"s3_enabled", cfg.S3Enabled)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}
