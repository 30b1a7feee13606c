package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/tokenstats/internal/config"
	"github.com/rovshanmuradov/tokenstats/internal/export"
	"github.com/rovshanmuradov/tokenstats/internal/logger"
	"github.com/rovshanmuradov/tokenstats/internal/service"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (defaults and TOKENSTATS_* env when empty)")
	outputDir := flag.String("out", "exports", "Output directory")
	formatFlag := flag.String("format", "csv", "Export format: csv or json")
	scopeFlag := flag.String("scope", "all", "Holders to export: all, special or regular")
	minPercent := flag.Float64("min-percent", 0, "Skip holders below this share of supply")
	onlyFrozen := flag.Bool("frozen", false, "Only export holders with a frozen account")
	distribution := flag.Bool("distribution", false, "Also write a distribution report")
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

	options := export.ExportOptions{
		Format:     export.ExportFormat(*formatFlag),
		Scope:      export.Scope(*scopeFlag),
		MinPercent: *minPercent,
		OnlyFrozen: *onlyFrozen,
		OutputDir:  *outputDir,
	}
	if err := options.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	svc, err := service.New(cfg, appLogger.Logger)
	if err != nil {
		appLogger.Fatal("Failed to build service", zap.Error(err))
	}

	table, err := svc.Holders(rootCtx)
	if err != nil && table == nil {
		appLogger.Fatal("Holder enumeration failed", zap.Error(err))
	}

	exporter := export.NewHolderExporter(appLogger.Logger)
	path, err := exporter.ExportHolders(table, options)
	if err != nil {
		appLogger.Fatal("Export failed", zap.Error(err))
	}
	fmt.Println(path)

	if *distribution {
		// Statistics are best effort; the report still has the tiers without them.
		stats, _ := svc.Stats(rootCtx)
		reportPath, err := exporter.ExportDistribution(stats, table, *outputDir)
		if err != nil {
			appLogger.Fatal("Distribution report failed", zap.Error(err))
		}
		fmt.Println(reportPath)
	}
}
