package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"storefront-orders/app"
	"storefront-orders/config"
)

func newLogger() *zap.SugaredLogger {
	var (
		logger *zap.Logger
		err    error
	)
	if os.Getenv("ENV") == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	return logger.Sugar()
}

func main() {
	// Load .env file in development (ignores error if file doesn't exist)
	// In production, variables should be set directly
	var envErr error
	if os.Getenv("ENV") != "production" {
		// Use Overload to ensure .env values override system environment variables
		envErr = godotenv.Overload(".env")
	}

	logger := newLogger()
	defer logger.Sync()

	if envErr != nil {
		logger.Warnf("⚠️ .env file not loaded, using system environment variables: %v", envErr)
	}

	cfg, err := config.Load(logger)
	if err != nil {
		logger.Fatalf("❌ Config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize application
	application, err := app.Initialize(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("❌ Initialize: %v", err)
	}
	defer application.Close()

	// Listen on 0.0.0.0 to accept connections from all interfaces (required for Docker/Render)
	addr := "0.0.0.0:" + cfg.Port
	server := &http.Server{
		Addr:              addr,
		Handler:           application.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warnf("⚠️ Shutdown: %v", err)
		}
	}()

	logger.Infof("🚀 Server starting on %s (env=%s, catalog=%s)", addr, cfg.Env, cfg.CatalogSource)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Errorf("❌ Server failed: %v", err)
	}
	logger.Infof("👋 Server stopped")
}
