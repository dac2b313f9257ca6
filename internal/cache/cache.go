// Package cache provides the TTL result cache for aggregated job batches.
//
// The cache is the pipeline's only shared mutable state: an in-memory map
// guarded by a mutex, with concurrent misses for the same key coalesced into
// one underlying fetch via singleflight. An optional Redis tier survives
// restarts; when Redis is unreachable the cache degrades to memory-only with
// a logged warning.
//
// Eviction is lazy: entries for keys no longer queried are never proactively
// purged. That is acceptable for the bounded key space here (one entry per
// distinct query string); a long-running service with open-ended keys should
// swap this for a bounded/LRU cache.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/resumatch/jobfeed/internal/model"
)

// FetchFunc produces fresh data for a key on a cache miss.
type FetchFunc func(ctx context.Context) ([]model.Job, error)

type entry struct {
	data      []model.Job
	fetchedAt time.Time
}

// Cache is a TTL cache for canonical job batches. Safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	group   singleflight.Group
	now     func() time.Time
	rdb     *redis.Client
	logger  *slog.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a Cache. redisURL enables the optional Redis tier; pass "" to
// run memory-only. clock overrides the time source for tests; nil means
// time.Now.
func New(redisURL string, clock func() time.Time, logger *slog.Logger) *Cache {
	if clock == nil {
		clock = time.Now
	}
	c := &Cache{
		entries: make(map[string]entry),
		now:     clock,
		logger:  logger,
	}

	if redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			logger.Warn("invalid redis URL, cache running memory-only", "error", err)
			return c
		}
		rdb := redis.NewClient(opts)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, cache running memory-only", "error", err)
			return c
		}
		c.rdb = rdb
		logger.Info("redis cache tier connected", "addr", opts.Addr)
	}
	return c
}

// GetOrFetch returns the cached batch for key if it is younger than ttl,
// otherwise invokes fetch once and stores the result. Concurrent callers
// hitting a miss on the same key share the single in-flight fetch. A ttl of
// zero disables caching for the call: fetch always runs, but concurrent
// callers are still coalesced.
func (c *Cache) GetOrFetch(ctx context.Context, key string, ttl time.Duration, fetch FetchFunc) ([]model.Job, error) {
	if jobs, ok := c.lookup(ctx, key, ttl); ok {
		c.hits.Add(1)
		return jobs, nil
	}
	c.misses.Add(1)

	v, err, _ := c.group.Do(key, func() (any, error) {
		// A coalesced caller may arrive after the previous flight stored the
		// entry; re-check before fetching again.
		if jobs, ok := c.lookup(ctx, key, ttl); ok {
			return jobs, nil
		}

		jobs, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.store(ctx, key, jobs, ttl)
		return jobs, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.Job), nil
}

// Stats returns the hit/miss counters.
func (c *Cache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// lookup checks the memory tier, then Redis. A Redis hit repopulates memory.
func (c *Cache) lookup(ctx context.Context, key string, ttl time.Duration) ([]model.Job, bool) {
	if ttl <= 0 {
		return nil, false
	}

	c.mu.Lock()
	e, ok := c.entries[key]
	c.mu.Unlock()
	if ok && c.now().Sub(e.fetchedAt) < ttl {
		return e.data, true
	}

	if c.rdb != nil {
		data, err := c.rdb.Get(ctx, key).Bytes()
		if err == nil {
			var jobs []model.Job
			if json.Unmarshal(data, &jobs) == nil {
				c.logger.Debug("redis cache hit", "key", key)
				c.mu.Lock()
				c.entries[key] = entry{data: jobs, fetchedAt: c.now()}
				c.mu.Unlock()
				return jobs, true
			}
		}
	}
	return nil, false
}

func (c *Cache) store(ctx context.Context, key string, jobs []model.Job, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	c.mu.Lock()
	c.entries[key] = entry{data: jobs, fetchedAt: c.now()}
	c.mu.Unlock()

	if c.rdb != nil {
		data, err := json.Marshal(jobs)
		if err != nil {
			return
		}
		if err := c.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
			c.logger.Debug("redis cache set failed", "key", key, "error", err)
		}
	}
}
