package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/digitech/seogen/internal/config"
	"github.com/digitech/seogen/internal/generator"
	"github.com/digitech/seogen/internal/ledger"
	"github.com/digitech/seogen/internal/logger"
	"github.com/digitech/seogen/internal/repository"
	"github.com/digitech/seogen/internal/service"
	"github.com/digitech/seogen/internal/validator"
	"github.com/google/uuid"
)

// Exit codes: 0 full success, 1 one or more items failed, 2 fatal startup error.
const (
	exitOK           = 0
	exitItemsFailed  = 1
	exitStartupError = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	// Initialize logger first (from environment, with defaults)
	appLogger := logger.New(logger.LoadFromEnv())
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	// Parse command line flags
	dryRun := flag.Bool("dry-run", false, "Preview changes without saving")
	category := flag.String("category", "", "Filter products by category")
	limit := flag.Int("limit", 0, "Maximum number of products to process (0 = all)")
	skip := flag.Int("skip", 0, "Number of eligible products to skip")
	batchSize := flag.Int("batch-size", 0, "Products per generation call (overrides config)")
	model := flag.String("model", "", "Generation model (overrides config)")
	configPath := flag.String("config", "", "Path to config file")
	ledgerPath := flag.String("ledger", "", "Path to ledger file (overrides config)")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		appLogger.WithError(err).Error("Failed to load config")
		return exitStartupError
	}
	if *batchSize > 0 {
		cfg.Run.BatchSize = *batchSize
	}
	if *model != "" {
		cfg.Generator.Model = *model
	}
	if *ledgerPath != "" {
		cfg.Run.LedgerPath = *ledgerPath
	}
	if err := cfg.ValidateStartup(); err != nil {
		appLogger.WithError(err).Error("Invalid configuration")
		return exitStartupError
	}

	runID := uuid.New().String()
	appLogger = appLogger.WithFields(logger.Fields{logger.FieldRunID: runID})
	appLogger.WithFields(logger.Fields{
		"dry_run":    *dryRun,
		"category":   *category,
		"limit":      *limit,
		"skip":       *skip,
		"batch_size": cfg.Run.BatchSize,
		"model":      cfg.Generator.Model,
	}).Info("Starting seogen")

	// Initialize database
	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Error("Failed to initialize database")
		return exitStartupError
	}
	productRepo := repository.NewProductRepository(db)
	if total, err := productRepo.Count(context.Background(), *category); err == nil {
		appLogger.WithFields(logger.Fields{
			logger.FieldCount: total,
			"category":        *category,
		}).Info("Catalog scanned")
	}

	// Load the ledger (missing file means a fresh one)
	store := ledger.NewStore(cfg.Run.LedgerPath)
	led, err := store.Load()
	if err != nil {
		appLogger.WithError(err).Error("Failed to load ledger")
		return exitStartupError
	}
	appLogger.WithFields(logger.Fields{
		"ledger":    store.Path(),
		"processed": len(led.Processed),
		"failed":    len(led.Failed),
	}).Info("Ledger loaded")

	// Initialize the generation client
	gen := generator.NewClient(&generator.Config{
		Provider:  cfg.Generator.Provider,
		Model:     cfg.Generator.Model,
		APIKey:    cfg.Generator.APIKey,
		BaseURL:   cfg.Generator.BaseURL,
		MaxTokens: cfg.Generator.MaxTokens,
		Timeout:   time.Duration(cfg.Generator.TimeoutSeconds) * time.Second,
	})

	svc := service.NewRunService(
		productRepo,
		gen,
		service.NewStoreWriter(productRepo),
		store,
		led,
		appLogger,
		&service.Options{
			BatchSize:   cfg.Run.BatchSize,
			MinInterval: cfg.Run.MinInterval(),
			RetryCount:  cfg.Run.RetryCount,
			Limits:      validator.LimitsFromConfig(&cfg.Validate),
		},
	)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx = appLogger.WithContext(ctx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		appLogger.Info("Received shutdown signal, canceling...")
		cancel()
	}()

	filter := repository.Filter{
		Category: *category,
		Skip:     *skip,
		Limit:    *limit,
	}

	if *dryRun {
		if _, err := svc.DryRun(ctx, filter, os.Stdout); err != nil {
			appLogger.WithError(err).Error("Dry run failed")
			if isStartupError(err) {
				return exitStartupError
			}
			return exitItemsFailed
		}
		return exitOK
	}

	stats, err := svc.Run(ctx, filter)
	if err != nil {
		appLogger.WithError(err).Error("Run failed")
		if isStartupError(err) {
			return exitStartupError
		}
		return exitItemsFailed
	}

	service.Report(os.Stdout, stats, led)

	if stats.FailedItems > 0 {
		return exitItemsFailed
	}
	return exitOK
}

// isStartupError separates config/source-class failures (exit 2) from
// result-level failures (exit 1).
func isStartupError(err error) bool {
	return errors.Is(err, repository.ErrSourceUnavailable) ||
		errors.Is(err, config.ErrMissingCredential)
}
