package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/tokenstats/internal/config"
	"github.com/rovshanmuradov/tokenstats/internal/httpapi"
	"github.com/rovshanmuradov/tokenstats/internal/logger"
	"github.com/rovshanmuradov/tokenstats/internal/service"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (defaults and TOKENSTATS_* env when empty)")
	flag.Parse()

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logCfg := logger.DefaultConfig()
	logCfg.LogFile = cfg.LogFile
	logCfg.Development = cfg.DebugLogging
	appLogger, err := logger.New(logCfg)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer func() {
		_ = appLogger.Sync()
	}()

	svc, err := service.New(cfg, appLogger.Logger)
	if err != nil {
		appLogger.Fatal("Failed to build service", zap.Error(err))
	}

	srv := httpapi.New(httpapi.Config{
		Addr:           cfg.ListenAddr,
		AllowedOrigins: cfg.AllowedOrigins,
		MaxAge:         cfg.CacheTTL,
	}, svc, appLogger.Logger)

	if err := srv.ListenAndServe(rootCtx); err != nil {
		appLogger.Fatal("HTTP API stopped", zap.Error(err))
	}
	appLogger.Info("HTTP API stopped")
}
