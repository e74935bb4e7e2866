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

	"github.com/catdvtools/connect/internal"
	"github.com/catdvtools/connect/internal/handler"
	"github.com/catdvtools/connect/internal/history"
	"github.com/catdvtools/connect/internal/middleware"
	"github.com/catdvtools/connect/internal/probe"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

func run() error {
	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Open the validated-server history
	logger.Info("Opening history database...", "path", cfg.HistoryDBPath)
	store, err := history.Open(cfg.HistoryDBPath)
	if err != nil {
		return fmt.Errorf("history database open failed: %w", err)
	}
	defer store.Close()

	if err := store.Migrate(); err != nil {
		return fmt.Errorf("history migration failed: %w", err)
	}
	logger.Info("History database ready")

	// Initialize Prometheus metrics
	metrics := middleware.NewMetrics("connect")

	// Initialize the CatDV probe
	prober := probe.New(cfg.ProbeTimeout, logger)

	// Build handlers
	validateHandler := handler.NewValidateHandler(prober, store, metrics, logger)
	serversHandler := handler.NewServersHandler(store, logger)

	// ==========================================================================
	// Create server and register routes
	// ==========================================================================

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(middleware.RequestID)
	e.Use(metrics.Middleware)
	e.Use(middleware.Logger(logger))

	e.GET("/validate", validateHandler.Validate)
	e.GET("/servers", serversHandler.Servers)

	// Metrics endpoint (local-only service, no auth)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})

	// ==========================================================================
	// Start server
	// ==========================================================================

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Port)
	go func() {
		logger.Info("Starting companion server", "address", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
		}
	}()

	// Shut down cleanly when the host tears the plugin down.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
