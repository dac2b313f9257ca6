package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/resumatch/jobfeed/internal/model"
)

// Config is the root configuration for jobfeed.
type Config struct {
	Registry    RegistryConfig
	Cache       CacheConfig
	Fetch       FetchConfig
	Snapshot    SnapshotConfig
	Watch       WatchConfig
	Profile     ProfileConfig
	Preferences model.MatchPreferences
}

// RegistryConfig locates the company registry file.
type RegistryConfig struct {
	Path string `yaml:"path"`
}

// CacheConfig controls the fetch cache.
type CacheConfig struct {
	TTL      time.Duration // freshness window for cached batches
	RedisURL string        // optional second tier; empty means memory-only
}

// FetchConfig controls outbound board fetching.
type FetchConfig struct {
	Concurrency int           // max boards fetched in parallel
	Timeout     time.Duration // per-candidate request timeout
	MinDelay    time.Duration // minimum gap between requests to the same provider family
}

// SnapshotConfig locates the SQLite snapshot database.
type SnapshotConfig struct {
	Path string `yaml:"path"`
}

// WatchConfig controls the background refresh loop.
type WatchConfig struct {
	Interval time.Duration
}

// ProfileConfig locates the candidate resume profile.
type ProfileConfig struct {
	Path string `yaml:"path"`
}

const (
	defaultCacheTTL    = time.Hour
	defaultConcurrency = 8
	defaultTimeout     = 8 * time.Second
	defaultWatchEvery  = 15 * time.Minute
)

// rawConfig is used for YAML unmarshaling (snake_case fields, durations as
// strings).
type rawConfig struct {
	Registry    RegistryConfig         `yaml:"registry"`
	Cache       rawCacheConfig         `yaml:"cache"`
	Fetch       rawFetchConfig         `yaml:"fetch"`
	Snapshot    SnapshotConfig         `yaml:"snapshot"`
	Watch       rawWatchConfig         `yaml:"watch"`
	Profile     ProfileConfig          `yaml:"profile"`
	Preferences model.MatchPreferences `yaml:"preferences"`
}

type rawCacheConfig struct {
	TTL      string `yaml:"ttl"`
	RedisURL string `yaml:"redis_url"`
}

type rawFetchConfig struct {
	Concurrency int    `yaml:"concurrency"`
	Timeout     string `yaml:"timeout"`
	MinDelay    string `yaml:"min_delay"`
}

type rawWatchConfig struct {
	Interval string `yaml:"interval"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Registry: RegistryConfig{Path: "companies.json"},
		Cache:    CacheConfig{TTL: defaultCacheTTL},
		Fetch: FetchConfig{
			Concurrency: defaultConcurrency,
			Timeout:     defaultTimeout,
		},
		Snapshot: SnapshotConfig{Path: "jobfeed.db"},
		Watch:    WatchConfig{Interval: defaultWatchEvery},
	}
}

// Load reads and parses the YAML config file at path, validates it, and
// returns Config. Environment variables in the file are expanded before
// parsing.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg := Default()
	cfg.Preferences = raw.Preferences
	cfg.Cache.RedisURL = raw.Cache.RedisURL

	if raw.Registry.Path != "" {
		cfg.Registry.Path = raw.Registry.Path
	}
	if raw.Snapshot.Path != "" {
		cfg.Snapshot.Path = raw.Snapshot.Path
	}
	if raw.Profile.Path != "" {
		cfg.Profile.Path = raw.Profile.Path
	}
	if raw.Fetch.Concurrency != 0 {
		cfg.Fetch.Concurrency = raw.Fetch.Concurrency
	}

	if raw.Cache.TTL != "" {
		cfg.Cache.TTL, err = time.ParseDuration(raw.Cache.TTL)
		if err != nil {
			return nil, fmt.Errorf("parse cache.ttl %q: %w", raw.Cache.TTL, err)
		}
	}
	if raw.Fetch.Timeout != "" {
		cfg.Fetch.Timeout, err = time.ParseDuration(raw.Fetch.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse fetch.timeout %q: %w", raw.Fetch.Timeout, err)
		}
	}
	if raw.Fetch.MinDelay != "" {
		cfg.Fetch.MinDelay, err = time.ParseDuration(raw.Fetch.MinDelay)
		if err != nil {
			return nil, fmt.Errorf("parse fetch.min_delay %q: %w", raw.Fetch.MinDelay, err)
		}
	}
	if raw.Watch.Interval != "" {
		cfg.Watch.Interval, err = time.ParseDuration(raw.Watch.Interval)
		if err != nil {
			return nil, fmt.Errorf("parse watch.interval %q: %w", raw.Watch.Interval, err)
		}
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative, got %v", cfg.Cache.TTL)
	}
	if cfg.Fetch.Concurrency < 1 {
		return fmt.Errorf("fetch.concurrency must be at least 1, got %d", cfg.Fetch.Concurrency)
	}
	if cfg.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch.timeout must be positive, got %v", cfg.Fetch.Timeout)
	}
	if cfg.Fetch.MinDelay < 0 {
		return fmt.Errorf("fetch.min_delay must not be negative, got %v", cfg.Fetch.MinDelay)
	}
	if cfg.Watch.Interval < time.Second {
		return fmt.Errorf("watch.interval must be at least 1s, got %v", cfg.Watch.Interval)
	}
	if cfg.Registry.Path == "" {
		return fmt.Errorf("registry.path must not be empty")
	}
	return nil
}
