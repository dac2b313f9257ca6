package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/resumatch/jobfeed/internal/store"
)

var (
	scoreTop   int
	scoreFresh bool
)

var scoreCmd = &cobra.Command{
	Use:   "score [query]",
	Short: "Print jobs ranked by match score",
	Long:  "Scores the stored job snapshot against your profile and preferences and prints a ranked table. Pass --fresh to refetch the boards first.",
	Args:  cobra.ArbitraryArgs,
	RunE:  runScore,
}

func init() {
	scoreCmd.Flags().IntVarP(&scoreTop, "top", "n", 20, "number of jobs to print (0 for all)")
	scoreCmd.Flags().BoolVar(&scoreFresh, "fresh", false, "refetch boards instead of using the stored snapshot")
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
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

	if scoreFresh || len(jobs) == 0 {
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
	} else if err := scoreJobs(jobs, cfg, logger); err != nil {
		return err
	}

	sort.SliceStable(jobs, func(i, j int) bool {
		return jobs[i].MatchScore > jobs[j].MatchScore
	})
	total := len(jobs)
	if scoreTop > 0 && len(jobs) > scoreTop {
		jobs = jobs[:scoreTop]
	}

	fmt.Printf("%5s  %-40s %-20s %s\n", "Score", "Title", "Company", "Location")
	fmt.Println(strings.Repeat("─", 90))
	for _, j := range jobs {
		title := j.Title
		if len(title) > 40 {
			title = title[:37] + "..."
		}
		fmt.Printf("%5d  %-40s %-20s %s\n", j.MatchScore, title, j.Company, j.Location)
	}
	fmt.Printf("\nShowing %d of %d jobs\n", len(jobs), total)
	return nil
}
