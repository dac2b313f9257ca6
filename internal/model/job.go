package model

import (
	"encoding/json"
	"time"
)

// Job is the canonical, provider-agnostic job record produced by the
// aggregation pipeline. It is the only entity exposed to downstream callers;
// the JSON field names are the wire contract. Slice fields are always
// initialized so consumers never see null where an array is expected. A Job
// is immutable once normalized — a fresh aggregation replaces records, it
// never mutates them in place.
type Job struct {
	ID               string          `json:"id"`
	Title            string          `json:"title"`
	Company          string          `json:"company"`
	Location         string          `json:"location"`
	MatchScore       int             `json:"matchScore"`
	Salary           string          `json:"salary,omitempty"`
	PostedAt         *time.Time      `json:"postedAt"`
	Description      string          `json:"description"`
	CleanDescription string          `json:"cleanDescription"`
	Responsibilities []string        `json:"responsibilities"`
	Requirements     []string        `json:"requirements"`
	Benefits         []string        `json:"benefits"`
	EmploymentType   string          `json:"employmentType,omitempty"`
	Seniority        string          `json:"seniority,omitempty"`
	Skills           []string        `json:"skills"`
	Tags             []string        `json:"tags"`
	SourceURL        string          `json:"sourceUrl,omitempty"`
	Source           string          `json:"source"`
	Raw              json.RawMessage `json:"raw,omitempty"`
}

// SearchText returns the haystack used for query filtering: title,
// description, and location joined with spaces.
func (j Job) SearchText() string {
	return j.Title + " " + j.Description + " " + j.Location
}

// ResumeProfile is the candidate profile consumed by the match scorer.
// Read-only input owned by the resume side of the product.
type ResumeProfile struct {
	Skills     []string          `json:"skills"`
	Experience []ExperienceEntry `json:"experience"`
}

// ExperienceEntry is one position in a resume profile.
type ExperienceEntry struct {
	Role    string   `json:"role,omitempty"`
	Title   string   `json:"title,omitempty"`
	Bullets []string `json:"bullets,omitempty"`
}

// IsEmpty reports whether the profile carries no skills and no experience.
// An empty profile disables skill-based weighting in the scorer.
func (p *ResumeProfile) IsEmpty() bool {
	return p == nil || (len(p.Skills) == 0 && len(p.Experience) == 0)
}

// MatchPreferences are the candidate's stated search preferences.
type MatchPreferences struct {
	JobTitle string `json:"jobTitle,omitempty" yaml:"job_title"`
	Location string `json:"location,omitempty" yaml:"location"`
}

// ProviderStatus is one row of the per-candidate diagnostics report: the
// outcome of probing a single candidate URL for a company/provider pair.
type ProviderStatus struct {
	Company     string `json:"company"`
	Provider    string `json:"provider"`
	URL         string `json:"url"`
	OK          bool   `json:"ok"`
	Status      int    `json:"status"`
	ResultCount int    `json:"resultCount"`
	Preview     string `json:"preview,omitempty"`
}
