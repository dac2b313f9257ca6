// Package registry loads the list of company board slugs the pipeline polls.
// The registry file is a flat JSON array of slug strings. A missing or
// malformed file degrades to an empty registry — aggregation then yields zero
// results instead of failing.
package registry

import (
	"encoding/json"
	"log/slog"
	"os"
	"strings"
)

// Registry is the immutable set of company slugs to poll. Read-only after Load.
type Registry struct {
	slugs []string
}

// Load reads the JSON slug array at path. Any load or parse failure is logged
// as a warning and yields an empty registry, never an error.
func Load(path string, logger *slog.Logger) *Registry {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("company registry unavailable, starting empty",
			"path", path,
			"error", err,
		)
		return &Registry{}
	}

	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		logger.Warn("company registry is not a JSON string array, starting empty",
			"path", path,
			"error", err,
		)
		return &Registry{}
	}

	seen := make(map[string]bool, len(raw))
	slugs := make([]string, 0, len(raw))
	for _, s := range raw {
		slug := strings.ToLower(strings.TrimSpace(s))
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true
		slugs = append(slugs, slug)
	}

	logger.Info("company registry loaded", "path", path, "companies", len(slugs))
	return &Registry{slugs: slugs}
}

// FromSlugs builds a registry directly from a slug list. Used by tests and by
// callers that already hold the list.
func FromSlugs(slugs []string) *Registry {
	out := make([]string, len(slugs))
	copy(out, slugs)
	return &Registry{slugs: out}
}

// Slugs returns a copy of the registered slugs in file order.
func (r *Registry) Slugs() []string {
	out := make([]string, len(r.slugs))
	copy(out, r.slugs)
	return out
}

// Len returns the number of registered companies.
func (r *Registry) Len() int { return len(r.slugs) }
