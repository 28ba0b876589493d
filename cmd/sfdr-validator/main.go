package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/sfdrtools/sfdr-validator/constants"
	"github.com/sfdrtools/sfdr-validator/internal/common"
	"github.com/sfdrtools/sfdr-validator/internal/config"
	"github.com/sfdrtools/sfdr-validator/internal/docintel"
	"github.com/sfdrtools/sfdr-validator/internal/embedding"
	"github.com/sfdrtools/sfdr-validator/internal/export"
	"github.com/sfdrtools/sfdr-validator/internal/label"
	"github.com/sfdrtools/sfdr-validator/internal/llm"
	"github.com/sfdrtools/sfdr-validator/internal/pdfsource"
	"github.com/sfdrtools/sfdr-validator/internal/pipeline"
	"github.com/sfdrtools/sfdr-validator/internal/repository"
	"github.com/sfdrtools/sfdr-validator/internal/segment"
	"github.com/sfdrtools/sfdr-validator/internal/validation"
)

func main() {
	cfg, err := config.LoadFromFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "sfdr-validator: %v\n", err)
		os.Exit(2)
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	doc, err := pdfsource.Open(cfg.InputPath, logger)
	if err != nil {
		if errors.Is(err, common.ErrInvalidPDF) {
			// an unreadable document is the zero-templates terminal state
			logger.Warn("input not readable as PDF, no templates found", "path", cfg.InputPath, "error", err)
			return nil
		}
		return fmt.Errorf("open input: %w", err)
	}
	defer func() { _ = doc.Close() }()

	// embedding service, optionally fronted by the on-disk cache
	var embedder embedding.Embedder = embedding.New(embedding.Config{
		Endpoint: cfg.EmbeddingEndpoint,
		Model:    cfg.EmbeddingModel,
		APIKey:   cfg.EmbeddingAPIKey,
		Timeout:  cfg.CallTimeout,
		Logger:   logger,
	})
	if cfg.EmbeddingCachePath != "" {
		cache, err := embedding.OpenCache(cfg.EmbeddingCachePath, embedder, cfg.EmbeddingModel, logger)
		if err != nil {
			return fmt.Errorf("open embedding cache: %w", err)
		}
		defer func() { _ = cache.Close() }()
		embedder = cache
	}

	catalog, err := label.BuildCatalog(ctx, embedder, logger)
	if err != nil {
		return fmt.Errorf("build label catalog: %w", err)
	}
	labeler := label.NewLabeler(embedder, catalog, logger)

	extractor := docintel.NewClient(docintel.Config{
		Endpoint:     cfg.DocIntelEndpoint,
		APIKey:       cfg.DocIntelKey,
		ModelID:      cfg.ExtractModelID,
		Timeout:      cfg.CallTimeout,
		PollInterval: cfg.PollInterval,
		Logger:       logger,
	})

	reasoner := llm.NewClient(llm.Config{
		APIKey:  cfg.ReasoningAPIKey,
		BaseURL: cfg.ReasoningEndpoint,
		Model:   cfg.ReasoningModel,
		Timeout: cfg.CallTimeout,
		Logger:  logger,
	})

	processor := pipeline.NewProcessor(logger,
		pipeline.NewExtractStage(logger, labeler, extractor),
		validation.NewEngine(reasoner, logger),
	)

	// optional run store
	var runs *repository.RunRepository
	if cfg.DatabaseDSN != "" {
		pool, err := repository.Open(ctx, repository.Config{
			DSN:         cfg.DatabaseDSN,
			MaxConns:    5,
			DialTimeout: 3 * time.Second,
		}, logger)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer repository.Close(pool, logger)
		if err := repository.HealthCheck(ctx, pool, 5*time.Second, logger); err != nil {
			return fmt.Errorf("ping database: %w", err)
		}
		runs = repository.NewRunRepository(pool, logger)
	}

	templates := segment.FindTemplates(doc, logger)
	logger.Info("run.cost.estimate",
		"templates", len(templates),
		"estimated_eur", pipeline.EstimateCost(len(templates)),
	)

	runID := uuid.Nil
	if runs != nil {
		runID, err = runs.CreateRun(ctx, cfg.InputPath)
		if err != nil {
			return err
		}
		ctx = common.WithRunID(ctx, runID.String())
	}

	results, err := processor.ProcessDocument(ctx, doc)
	if err != nil {
		if runs != nil {
			_ = runs.UpdateStatus(ctx, runID, constants.RunStatusFailed)
		}
		return fmt.Errorf("process document: %w", err)
	}
	if len(results) == 0 {
		logger.Warn("no templates found in document", "path", cfg.InputPath)
		if runs != nil {
			return runs.UpdateStatus(ctx, runID, constants.RunStatusValidated)
		}
		return nil
	}

	if runs != nil {
		if err := runs.UpdateStatus(ctx, runID, constants.RunStatusExtractOK); err != nil {
			return err
		}
		if err := runs.SaveResults(ctx, runID, results); err != nil {
			return err
		}
		if err := runs.UpdateStatus(ctx, runID, constants.RunStatusValidated); err != nil {
			return err
		}
	}

	report, err := export.NewService(logger).BuildReport(results)
	if err != nil {
		return fmt.Errorf("build report: %w", err)
	}
	if err := os.WriteFile(cfg.OutputPath, report, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	logger.Info("run.ok", "templates", len(results), "output", cfg.OutputPath)
	return nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
