package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
registry:
  path: /etc/jobfeed/companies.json
cache:
  ttl: 30m
  redis_url: redis://localhost:6379/0
fetch:
  concurrency: 4
  timeout: 5s
  min_delay: 250ms
snapshot:
  path: /var/lib/jobfeed/snapshot.db
watch:
  interval: 10m
profile:
  path: ~/profile.json
preferences:
  job_title: Senior Engineer
  location: Remote
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Registry.Path != "/etc/jobfeed/companies.json" {
		t.Errorf("registry path = %q", cfg.Registry.Path)
	}
	if cfg.Cache.TTL != 30*time.Minute {
		t.Errorf("cache ttl = %v", cfg.Cache.TTL)
	}
	if cfg.Cache.RedisURL != "redis://localhost:6379/0" {
		t.Errorf("redis url = %q", cfg.Cache.RedisURL)
	}
	if cfg.Fetch.Concurrency != 4 || cfg.Fetch.Timeout != 5*time.Second || cfg.Fetch.MinDelay != 250*time.Millisecond {
		t.Errorf("fetch = %+v", cfg.Fetch)
	}
	if cfg.Watch.Interval != 10*time.Minute {
		t.Errorf("watch interval = %v", cfg.Watch.Interval)
	}
	if cfg.Preferences.JobTitle != "Senior Engineer" || cfg.Preferences.Location != "Remote" {
		t.Errorf("preferences = %+v", cfg.Preferences)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
registry:
  path: companies.json
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Cache.TTL != time.Hour {
		t.Errorf("default cache ttl = %v, want 1h", cfg.Cache.TTL)
	}
	if cfg.Fetch.Concurrency != 8 {
		t.Errorf("default concurrency = %d, want 8", cfg.Fetch.Concurrency)
	}
	if cfg.Fetch.Timeout != 8*time.Second {
		t.Errorf("default timeout = %v, want 8s", cfg.Fetch.Timeout)
	}
	if cfg.Cache.RedisURL != "" {
		t.Errorf("default redis url should be empty, got %q", cfg.Cache.RedisURL)
	}
}

func TestLoadExpandsEnvVars(t *testing.T) {
	t.Setenv("JOBFEED_TEST_REDIS", "redis://cache.internal:6379")
	path := writeConfig(t, `
registry:
  path: companies.json
cache:
  redis_url: ${JOBFEED_TEST_REDIS}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Cache.RedisURL != "redis://cache.internal:6379" {
		t.Errorf("redis url = %q, expected env expansion", cfg.Cache.RedisURL)
	}
}

func TestLoadZeroTTLAllowed(t *testing.T) {
	path := writeConfig(t, `
registry:
  path: companies.json
cache:
  ttl: 0s
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Cache.TTL != 0 {
		t.Errorf("cache ttl = %v, want 0", cfg.Cache.TTL)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"bad duration", "registry:\n  path: c.json\ncache:\n  ttl: soon\n"},
		{"negative concurrency", "registry:\n  path: c.json\nfetch:\n  concurrency: -2\n"},
		{"negative min_delay", "registry:\n  path: c.json\nfetch:\n  min_delay: -5s\n"},
		{"tiny watch interval", "registry:\n  path: c.json\nwatch:\n  interval: 100ms\n"},
		{"not yaml", "{{{"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, c.yaml)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := validate(cfg); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}
