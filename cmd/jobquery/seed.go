package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobquery/internal/store"
)

var seedCmd = &cobra.Command{
	Use:   "seed <listings.json>",
	Short: "Load listings into the configured store",
	Long:  "Reads a JSON array of listings (title, company, location, description, job_highlights, posted_at, apply_link, search_query), creates the listings table if missing and inserts them.",
	Args:  cobra.ExactArgs(1),
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	listings, err := store.LoadListings(args[0])
	if err != nil {
		logger.Error("failed to load listings", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	db, dialect, err := setupStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := store.Seed(ctx, db, dialect, cfg.Store.Table, listings, logger); err != nil {
		logger.Error("seed failed", "error", err)
		os.Exit(1)
	}
	return nil
}
