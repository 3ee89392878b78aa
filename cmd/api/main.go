package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"edakit/app"
	"edakit/internal"
	"edakit/internal/api"
	"edakit/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		internal.DefaultLogger.Info("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		internal.DefaultLogger.Error("Failed to load configuration: %v", err)
		os.Exit(1)
	}
	logger := internal.NewConfiguredLogger(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	gin.SetMode(cfg.Server.GinMode)

	service, err := app.NewScreeningService(cfg.Screening.Policy, cfg.Screening.DropThreshold, logger)
	if err != nil {
		logger.Error("Failed to create screening service: %v", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           api.NewServer(service, logger).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("Starting API server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown failed: %v", err)
	}
}
