package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobquery/internal/model"
	"github.com/amishk599/jobquery/internal/pipeline"
	"github.com/amishk599/jobquery/internal/store"
)

var listingsPath string

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Run one search and print the response envelope",
	Long:  "One-shot search: extracts terms, runs the filter query and prints the JSON envelope. Exits non-zero on an error envelope.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&listingsPath, "listings", "", "search a JSON listings file in memory instead of the database")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var executor pipeline.Executor
	if listingsPath != "" {
		listings, err := store.LoadListings(listingsPath)
		if err != nil {
			logger.Error("failed to load listings", "error", err)
			os.Exit(1)
		}
		executor = store.NewMemoryExecutor(listings)
	} else {
		db, dialect, err := setupStore(ctx, cfg, logger)
		if err != nil {
			logger.Error("failed to open store", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		executor = store.NewExecutor(db, dialect, logger)
	}

	p, err := setupPipeline(ctx, cfg, executor, logger)
	if err != nil {
		logger.Error("failed to build pipeline", "error", err)
		os.Exit(1)
	}

	env := p.Run(ctx, strings.Join(args, " "))

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(env); err != nil {
		return err
	}
	if env.Status != model.StatusSuccess {
		os.Exit(1)
	}
	return nil
}
