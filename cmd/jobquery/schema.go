package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the concept schema and synonym table",
	Long:  "Reads the config and prints each search concept with its listings column, then the synonym table used in prompts.",
	RunE:  runSchema,
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}

func runSchema(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%-15s %s\n", "Concept", "Column")
	fmt.Println(strings.Repeat("─", 32))
	for _, c := range cfg.Schema.Concepts() {
		fmt.Printf("%-15s %s\n", c.Name, c.Column)
	}

	fmt.Printf("\n%-28s %s\n", "Term", "Synonyms")
	fmt.Println(strings.Repeat("─", 60))
	for _, term := range cfg.Synonyms.Keys() {
		fmt.Printf("%-28s %s\n", term, strings.Join(cfg.Synonyms[term], ", "))
	}

	fmt.Printf("\nTable: %s (%s)\n", cfg.Store.Table, cfg.Store.Driver)
	return nil
}
