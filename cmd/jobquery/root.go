package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobquery/internal/ai"
	"github.com/amishk599/jobquery/internal/config"
	"github.com/amishk599/jobquery/internal/pipeline"
	"github.com/amishk599/jobquery/internal/query"
	"github.com/amishk599/jobquery/internal/retry"
	"github.com/amishk599/jobquery/internal/store"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:          "jobquery",
	Short:        "Search job listings in plain English",
	Long:         "jobquery turns a natural-language job search into a filter query over a listings database.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: JOBQUERY_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > JOBQUERY_CONFIG env var > "./config.yaml"
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if env := os.Getenv("JOBQUERY_CONFIG"); env != "" {
			path = env
		} else {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

// setupLogger writes to stderr so command output on stdout stays clean.
func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setupProvider builds the configured LLM provider wrapped with retries.
func setupProvider(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ai.LLMProvider, error) {
	var provider ai.LLMProvider
	switch cfg.AI.Provider {
	case config.ProviderGoogleAI:
		p, err := ai.NewGoogleAIProvider(ctx, cfg.AI.APIKey, cfg.AI.Model)
		if err != nil {
			return nil, err
		}
		provider = p
	default:
		httpClient := &http.Client{Timeout: cfg.AI.Timeout}
		provider = ai.NewOpenAIProvider(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Model, cfg.Schema.ConceptNames(), httpClient)
	}
	logger.Info("llm provider configured",
		"provider", cfg.AI.Provider,
		"model", cfg.AI.Model,
		"timeout", cfg.AI.Timeout.String(),
		"max_retries", cfg.AI.MaxRetries,
	)
	return retry.NewRetryProvider(provider, cfg.AI.MaxRetries, cfg.AI.RetryBaseDelay, cfg.AI.Timeout, logger), nil
}

// setupStore opens the configured listings database.
func setupStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sql.DB, query.Dialect, error) {
	db, dialect, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DSN)
	if err != nil {
		return nil, 0, err
	}
	logger.Info("listings store opened", "driver", cfg.Store.Driver, "table", cfg.Store.Table)
	return db, dialect, nil
}

// setupPipeline wires extractor, builder and executor into a pipeline.
func setupPipeline(ctx context.Context, cfg *config.Config, executor pipeline.Executor, logger *slog.Logger) (*pipeline.Pipeline, error) {
	provider, err := setupProvider(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("setup llm provider: %w", err)
	}
	extractor := ai.NewTermExtractor(provider, ai.TermExtractionTemplate, cfg.Schema, cfg.Synonyms, logger)
	builder, err := query.NewBuilder(cfg.Schema, cfg.Store.Table)
	if err != nil {
		return nil, fmt.Errorf("setup query builder: %w", err)
	}
	return pipeline.New(extractor, builder, executor, logger), nil
}
