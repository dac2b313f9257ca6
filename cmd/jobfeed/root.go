package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/resumatch/jobfeed/internal/cache"
	"github.com/resumatch/jobfeed/internal/config"
	"github.com/resumatch/jobfeed/internal/match"
	"github.com/resumatch/jobfeed/internal/model"
	"github.com/resumatch/jobfeed/internal/pipeline"
	"github.com/resumatch/jobfeed/internal/provider"
	"github.com/resumatch/jobfeed/internal/ratelimit"
	"github.com/resumatch/jobfeed/internal/registry"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "jobfeed",
	Short: "Aggregate, normalize, and score job postings from company ATS boards",
	Long:  "jobfeed fetches postings from Lever and Greenhouse boards, normalizes them into a single schema, and scores each against your resume profile.",
	// Default to `fetch` so that `jobfeed` with no args produces output.
	RunE: runFetch,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: JOBFEED_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > JOBFEED_CONFIG env var > "./config.yaml".
// A missing file at the default path falls back to built-in defaults; an
// explicitly named file must exist.
func loadConfig(path string) (*config.Config, error) {
	explicit := path != ""
	if path == "" {
		if env := os.Getenv("JOBFEED_CONFIG"); env != "" {
			path = env
			explicit = true
		} else {
			path = "config.yaml"
		}
	}
	if !explicit {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return config.Default(), nil
		}
	}
	return config.Load(path)
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

func buildPipeline(cfg *config.Config, logger *slog.Logger) *pipeline.Pipeline {
	reg := registry.Load(cfg.Registry.Path, logger)
	fetcher := provider.NewFetcher(&http.Client{}, cfg.Fetch.Timeout, logger)
	c := cache.New(cfg.Cache.RedisURL, nil, logger)
	limiter := ratelimit.New(cfg.Fetch.MinDelay)

	return pipeline.New(reg, fetcher, c, limiter, cfg.Cache.TTL, cfg.Fetch.Concurrency, logger)
}

// scoreJobs fills MatchScore on every job using the configured profile and
// preferences. Jobs are scored in place.
func scoreJobs(jobs []model.Job, cfg *config.Config, logger *slog.Logger) error {
	profile, err := match.LoadProfile(cfg.Profile.Path, logger)
	if err != nil {
		return err
	}

	prefs := &cfg.Preferences
	if prefs.JobTitle == "" && prefs.Location == "" {
		prefs = nil
	}

	for i := range jobs {
		jobs[i].MatchScore = match.Score(jobs[i], profile, prefs)
	}
	return nil
}
