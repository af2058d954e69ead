// @title           Catalog Service API
// @version         1.0
// @description     Trigger server for catalog feed ingestion runs.
// @BasePath        /
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kosarica/catalog-service/config"
	_ "github.com/kosarica/catalog-service/docs"
	"github.com/kosarica/catalog-service/internal/handlers"
	"github.com/kosarica/catalog-service/internal/logging"
	"github.com/kosarica/catalog-service/internal/store/postgres"
	"github.com/kosarica/catalog-service/internal/trigger"
)

func main() {
	cfg, err := config.Load(os.Getenv("CATALOG_CONFIG"))
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Logging, "catalog-trigger")

	logger.Info().Msg("Starting trigger server")

	ctx := context.Background()

	// /health reports the database only when the postgres driver is in use
	var db handlers.Pinger
	if cfg.Store.Driver == "postgres" && cfg.Store.DatabaseURL != "" {
		pg, err := postgres.Connect(ctx, cfg.Store.DatabaseURL, postgres.Options{MaxConns: cfg.Store.MaxConns})
		if err != nil {
			logger.Warn().Err(err).Msg("Database unavailable, health will report disconnected")
		} else {
			defer pg.Close()
			db = pg
			logger.Info().Msg("Database connected")
		}
	}

	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	runner := &trigger.Exec{
		Command: cfg.Server.RunCommand,
		Timeout: cfg.Server.RunTimeout,
		Logger:  logger,
	}

	router := handlers.NewRouter(handlers.RouterConfig{
		Runner:            runner,
		DB:                db,
		Logger:            logger,
		RequestsPerSecond: cfg.Server.RequestsPerSecond,
		Burst:             cfg.Server.Burst,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info().Str("addr", addr).Str("command", runner.Command).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited")
}
