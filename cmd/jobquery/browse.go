package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobquery/internal/browse"
	"github.com/amishk599/jobquery/internal/store"
)

var browseCmd = &cobra.Command{
	Use:   "browse [query...]",
	Short: "Search and browse listings interactively (TUI)",
	Long:  "Prompts for a search, shows a spinner while it runs, then a result list with a detail view.",
	RunE:  runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Any log output corrupts the TUI, so components log nowhere.
	silentLogger := discardLogger()
	ctx := context.Background()

	db, dialect, err := setupStore(ctx, cfg, silentLogger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open store: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	p, err := setupPipeline(ctx, cfg, store.NewExecutor(db, dialect, silentLogger), silentLogger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build pipeline: %v\n", err)
		os.Exit(1)
	}

	if err := browse.Run(ctx, p, strings.Join(args, " "), silentLogger); err != nil {
		fmt.Printf("TUI error: %v\n", err)
	}
	return nil
}
