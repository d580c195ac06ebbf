package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/user/seo-scanner/internal/app"
	"github.com/user/seo-scanner/pkg/config"
	"github.com/user/seo-scanner/pkg/logger"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load("")
	if err != nil {
		zap.NewExample().Fatal("could not load config", zap.Error(err))
	}

	// --- Logger ---
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		zap.NewExample().Fatal("could not build logger", zap.Error(err))
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Storage, analyzers, HTTP ---
	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("could not initialize service", zap.Error(err))
	}
	defer a.Close()

	if err := a.Serve(ctx); err != nil {
		log.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}
