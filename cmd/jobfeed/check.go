package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Probe every board endpoint, print a status report, exit",
	Long:  "Hits every candidate URL for every configured company and provider and prints per-endpoint reachability. Nothing is cached or persisted.",
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p := buildPipeline(cfg, logger)
	statuses := p.Check(ctx)

	fmt.Printf("%-15s %-12s %-4s %-7s %-6s %s\n", "Company", "Provider", "HTTP", "Jobs", "OK", "URL")
	fmt.Println(strings.Repeat("─", 100))

	reachable := 0
	for _, st := range statuses {
		ok := "no"
		if st.OK {
			ok = "yes"
			reachable++
		}
		fmt.Printf("%-15s %-12s %-4d %-7d %-6s %s\n", st.Company, st.Provider, st.Status, st.ResultCount, ok, st.URL)
	}

	fmt.Printf("\nTotal: %d endpoints (%d reachable)\n", len(statuses), reachable)
	return nil
}
