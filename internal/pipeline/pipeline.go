// Package pipeline wires registry, fetcher, cache, and normalizer into the
// aggregation flow: resolve companies, fan out fetches across a bounded
// worker pool, normalize, and filter by the user's query.
package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/resumatch/jobfeed/internal/cache"
	"github.com/resumatch/jobfeed/internal/model"
	"github.com/resumatch/jobfeed/internal/normalize"
	"github.com/resumatch/jobfeed/internal/provider"
	"github.com/resumatch/jobfeed/internal/ratelimit"
	"github.com/resumatch/jobfeed/internal/registry"
)

// Pipeline owns the full aggregation flow for a set of companies.
type Pipeline struct {
	registry *registry.Registry
	fetcher  *provider.Fetcher
	cache    *cache.Cache
	limiter  *ratelimit.Limiter
	ttl      time.Duration
	workers  int
	logger   *slog.Logger
}

// New creates a pipeline wired with all its dependencies. workers bounds the
// number of concurrent board fetches; values below 1 are treated as 1.
func New(
	reg *registry.Registry,
	fetcher *provider.Fetcher,
	c *cache.Cache,
	limiter *ratelimit.Limiter,
	ttl time.Duration,
	workers int,
	logger *slog.Logger,
) *Pipeline {
	if workers < 1 {
		workers = 1
	}
	return &Pipeline{
		registry: reg,
		fetcher:  fetcher,
		cache:    c,
		limiter:  limiter,
		ttl:      ttl,
		workers:  workers,
		logger:   logger,
	}
}

// Fetch returns the aggregated jobs matching query, serving from cache when a
// fresh entry exists. An empty query returns everything. Per-board failures
// are swallowed; the only error surfaced is context cancellation.
func (p *Pipeline) Fetch(ctx context.Context, query string) ([]model.Job, error) {
	// The cached value is the unfiltered aggregate; the query filter runs on
	// every read so cached entries stay reusable as-is.
	jobs, err := p.cache.GetOrFetch(ctx, "ats:"+query, p.ttl, p.aggregate)
	if err != nil {
		return nil, err
	}
	return filterJobs(jobs, query), nil
}

type boardTask struct {
	slug   string
	family provider.Family
}

type boardResult struct {
	idx  int
	jobs []model.Job
}

// aggregate fetches every company board across all provider families with at
// most p.workers boards in flight, preserving registry order in the output.
func (p *Pipeline) aggregate(ctx context.Context) ([]model.Job, error) {
	var tasks []boardTask
	for _, slug := range p.registry.Slugs() {
		for _, family := range provider.Families() {
			tasks = append(tasks, boardTask{slug: slug, family: family})
		}
	}

	sem := make(chan struct{}, p.workers)
	results := make(chan boardResult, len(tasks))

	for i, task := range tasks {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		go func(idx int, task boardTask) {
			defer func() { <-sem }()
			results <- boardResult{idx: idx, jobs: p.fetchBoard(ctx, task)}
		}(i, task)
	}

	ordered := make([][]model.Job, len(tasks))
	for range tasks {
		select {
		case res := <-results:
			ordered[res.idx] = res.jobs
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	var jobs []model.Job
	for _, batch := range ordered {
		jobs = append(jobs, batch...)
	}
	p.logger.Info("aggregated boards",
		"companies", p.registry.Len(),
		"boards", len(tasks),
		"jobs", len(jobs),
	)
	return jobs, nil
}

// fetchBoard fetches one company board and normalizes its postings. Failures
// were already swallowed and logged by the fetcher; an unreachable board
// simply contributes nothing.
func (p *Pipeline) fetchBoard(ctx context.Context, task boardTask) []model.Job {
	if err := p.limiter.Wait(ctx, task.family); err != nil {
		return nil
	}

	postings := p.fetcher.Fetch(ctx, task.slug, task.family)
	if len(postings) == 0 {
		return nil
	}

	jobs := make([]model.Job, 0, len(postings))
	for _, posting := range postings {
		jobs = append(jobs, normalize.Normalize(posting, task.slug))
	}
	return jobs
}

// Check probes every candidate endpoint of every configured board and reports
// per-endpoint reachability. Results are never cached.
func (p *Pipeline) Check(ctx context.Context) []model.ProviderStatus {
	var statuses []model.ProviderStatus
	for _, slug := range p.registry.Slugs() {
		for _, family := range provider.Families() {
			statuses = append(statuses, p.fetcher.Probe(ctx, slug, family)...)
		}
	}
	return statuses
}

// Companies returns the configured company slugs in registry order.
func (p *Pipeline) Companies() []string {
	return p.registry.Slugs()
}

// CacheStats reports cache hit and miss counters for diagnostics.
func (p *Pipeline) CacheStats() (hits, misses int64) {
	return p.cache.Stats()
}

// filterJobs keeps jobs whose title, description, or location contains the
// query, case-insensitively. An empty query keeps everything.
func filterJobs(jobs []model.Job, query string) []model.Job {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		// Cached entries are shared across callers and must stay immutable;
		// hand back a copy so callers can score or sort in place.
		return append([]model.Job(nil), jobs...)
	}
	var kept []model.Job
	for _, job := range jobs {
		if strings.Contains(strings.ToLower(job.SearchText()), query) {
			kept = append(kept, job)
		}
	}
	return kept
}
