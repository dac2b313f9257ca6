package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/resumatch/jobfeed/internal/model"
	"github.com/resumatch/jobfeed/internal/store"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [query]",
	Short: "Fetch and print jobs as JSON",
	Long:  "Fetches all configured boards, normalizes and scores the postings, filters by the optional query, and prints the result as JSON.",
	Args:  cobra.ArbitraryArgs,
	RunE:  runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p := buildPipeline(cfg, logger)
	jobs, err := p.Fetch(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	if err := scoreJobs(jobs, cfg, logger); err != nil {
		return err
	}
	if jobs == nil {
		jobs = []model.Job{}
	}

	if snap, err := store.NewSnapshotStore(cfg.Snapshot.Path); err != nil {
		logger.Warn("failed to open snapshot store", "error", err)
	} else {
		if err := snap.SaveSnapshot(jobs); err != nil {
			logger.Warn("failed to save snapshot", "error", err)
		}
		snap.Close()
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(jobs)
}
