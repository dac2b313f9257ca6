package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/resumatch/jobfeed/internal/browse"
	"github.com/resumatch/jobfeed/internal/store"
)

var browseFresh bool

var browseCmd = &cobra.Command{
	Use:   "browse [query]",
	Short: "Browse scored jobs in an interactive TUI",
	Long:  "Opens a terminal browser over the scored job list. Uses the stored snapshot when one exists; pass --fresh to refetch first.",
	Args:  cobra.ArbitraryArgs,
	RunE:  runBrowse,
}

func init() {
	browseCmd.Flags().BoolVar(&browseFresh, "fresh", false, "refetch boards instead of using the stored snapshot")
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	snap, err := store.NewSnapshotStore(cfg.Snapshot.Path)
	if err != nil {
		return err
	}
	defer snap.Close()

	jobs, err := snap.LoadSnapshot()
	if err != nil {
		return err
	}

	if browseFresh || len(jobs) == 0 {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		p := buildPipeline(cfg, logger)
		jobs, err = p.Fetch(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		if err := scoreJobs(jobs, cfg, logger); err != nil {
			return err
		}
		if err := snap.SaveSnapshot(jobs); err != nil {
			logger.Warn("failed to save snapshot", "error", err)
		}
	}

	return browse.Run(jobs)
}
