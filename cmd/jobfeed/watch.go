package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/resumatch/jobfeed/internal/scheduler"
	"github.com/resumatch/jobfeed/internal/store"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Refresh the job snapshot on an interval",
	Long:  "Runs the aggregation on the configured interval, scoring the results and replacing the stored snapshot each cycle. Blocks until SIGINT/SIGTERM.",
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	snap, err := store.NewSnapshotStore(cfg.Snapshot.Path)
	if err != nil {
		logger.Error("failed to open snapshot store", "error", err)
		os.Exit(1)
	}
	defer snap.Close()

	p := buildPipeline(cfg, logger)

	refresh := func(ctx context.Context) error {
		jobs, err := p.Fetch(ctx, "")
		if err != nil {
			return err
		}
		if err := scoreJobs(jobs, cfg, logger); err != nil {
			return err
		}
		if err := snap.SaveSnapshot(jobs); err != nil {
			return err
		}
		logger.Info("snapshot updated", "jobs", len(jobs))
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r := scheduler.NewRefresher(refresh, cfg.Watch.Interval, logger)
	if err := r.Run(ctx); err != nil {
		logger.Error("refresher error", "error", err)
		os.Exit(1)
	}

	logger.Info("goodbye")
	return nil
}
