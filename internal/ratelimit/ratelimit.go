package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/resumatch/jobfeed/internal/provider"
)

// Limiter enforces a minimum delay between requests to the same provider
// family. Companies on the same ATS share one upstream API, so pacing is per
// family rather than per board.
type Limiter struct {
	mu       sync.Mutex
	lastCall map[provider.Family]time.Time
	minDelay time.Duration
}

// New creates a limiter that enforces minDelay between consecutive requests
// to the same family. A zero or negative minDelay disables pacing.
func New(minDelay time.Duration) *Limiter {
	return &Limiter{
		lastCall: make(map[provider.Family]time.Time),
		minDelay: minDelay,
	}
}

// Wait blocks until enough time has passed since the last request to the
// given family. Returns an error if the context is cancelled while waiting.
func (r *Limiter) Wait(ctx context.Context, family provider.Family) error {
	if r.minDelay <= 0 {
		return nil
	}

	r.mu.Lock()
	last, ok := r.lastCall[family]
	now := time.Now()

	if !ok {
		// First request for this family, no wait needed.
		r.lastCall[family] = now
		r.mu.Unlock()
		return nil
	}

	elapsed := now.Sub(last)
	if elapsed >= r.minDelay {
		r.lastCall[family] = now
		r.mu.Unlock()
		return nil
	}

	// Reserve the next slot before unlocking so concurrent waiters queue up
	// behind each other instead of all waking at the same instant.
	release := last.Add(r.minDelay)
	r.lastCall[family] = release
	r.mu.Unlock()

	select {
	case <-ctx.Done():
		return fmt.Errorf("rate limiter wait for %s: %w", family, ctx.Err())
	case <-time.After(release.Sub(now)):
	}
	return nil
}
