package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/resumatch/jobfeed/internal/registry"
)

var companiesCmd = &cobra.Command{
	Use:   "companies",
	Short: "List all configured companies",
	Long:  "Reads the company registry and prints the configured slugs.",
	RunE:  runCompanies,
}

func init() {
	rootCmd.AddCommand(companiesCmd)
}

func runCompanies(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	reg := registry.Load(cfg.Registry.Path, logger)
	for _, slug := range reg.Slugs() {
		fmt.Println(slug)
	}
	fmt.Printf("\nTotal: %d companies\n", reg.Len())
	return nil
}
