package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/heart-risk-server/internal/api"
	"github.com/heart-risk-server/internal/archive"
	"github.com/heart-risk-server/internal/classify"
	"github.com/heart-risk-server/internal/codec"
	"github.com/heart-risk-server/internal/config"
	"github.com/heart-risk-server/internal/domain"
	"github.com/heart-risk-server/internal/model"
	"github.com/heart-risk-server/internal/report"
)

func main() {
	// Load configuration
	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	cfg := configManager.GetConfig()
	logger := newLogger(cfg.Logging)

	// Feature encoder and risk classifier
	encoder, err := codec.New(cfg.Codec)
	if err != nil {
		logger.WithError(err).Fatal("Failed to build feature encoder")
	}

	classifier, err := classify.New(cfg.Risk.Policy, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to build risk classifier")
	}

	// Scoring model. Init fails fast on a broken dataset, missing state or a
	// column-order mismatch between encoder and trained model.
	provider := model.NewProvider(cfg.Model, encoder, logger)
	if err := provider.Init(); err != nil {
		logger.WithError(err).Fatal("Failed to initialize scoring model")
	}
	scoringModel, err := provider.Model()
	if err != nil {
		logger.WithError(err).Fatal("Scoring model unavailable")
	}

	// Report archive
	store, err := newArchive(cfg.Archive, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize report archive")
	}
	if store != nil {
		defer store.Close()
	}

	// PDF renderer with an LRU cache over rendered reports
	renderer, err := report.NewCachedRenderer(report.NewPDFRenderer(logger), 0)
	if err != nil {
		logger.WithError(err).Fatal("Failed to build report renderer")
	}

	logger.WithFields(logrus.Fields{
		"host":    cfg.Server.Host,
		"port":    cfg.Server.Port,
		"policy":  cfg.Risk.Policy,
		"profile": cfg.Codec.Profile,
		"archive": cfg.Archive.Backend,
	}).Info("Starting heart risk server")

	server := api.NewServer(configManager, api.Dependencies{
		Encoder:    encoder,
		Model:      scoringModel,
		Classifier: classifier,
		Renderer:   renderer,
		Archive:    store,
		Logger:     logger,
	})

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, gracefully shutting down")
		cancel()
	}()

	if err := server.Start(ctx); err != nil {
		logger.WithError(err).Fatal("Server failed")
	}

	logger.Info("Server stopped")
}

// newLogger builds the process logger from logging configuration
func newLogger(cfg domain.LoggingConfig) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	if cfg.Output == "stderr" {
		logger.SetOutput(os.Stderr)
	} else {
		logger.SetOutput(os.Stdout)
	}

	return logger
}

// newArchive selects the archive backend. Returns nil for the "none" backend,
// leaving only the bounded in-memory history.
func newArchive(cfg domain.ArchiveConfig, logger *logrus.Logger) (domain.ReportArchive, error) {
	switch cfg.Backend {
	case "sqlite":
		return archive.NewSQLiteStore(cfg.SQLitePath)
	case "postgres":
		runner, err := archive.NewMigrationRunner(cfg.DatabaseURL, cfg.MigrationsPath, logger)
		if err != nil {
			return nil, err
		}
		defer runner.Close()
		if err := runner.Up(); err != nil {
			return nil, err
		}
		return archive.NewPostgresStoreFromURL(cfg.DatabaseURL)
	case "none":
		return nil, nil
	default:
		return nil, domain.NewDomainError("archive.backend", "unknown archive backend", cfg.Backend)
	}
}
