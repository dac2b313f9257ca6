// Package normalize maps provider-shaped raw postings into the canonical Job
// record, including heuristic structured extraction from description HTML.
package normalize

import (
	"crypto/rand"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/resumatch/jobfeed/internal/model"
	"github.com/resumatch/jobfeed/internal/provider"
)

// Normalize converts one raw posting into a canonical Job. Field mapping is a
// fixed per-family table with alias fallbacks; absent provider fields default
// to empty strings, and every slice field is initialized. Postings keep their
// source order — Normalize is called per posting and never reorders.
func Normalize(p provider.Posting, companySlug string) model.Job {
	var job model.Job
	switch p.Family {
	case provider.Lever:
		job = fromLever(p.Lever)
	case provider.Greenhouse:
		job = fromGreenhouse(p.Greenhouse)
	}

	job.Company = companySlug
	job.Source = string(p.Family)
	job.Raw = p.Raw
	if job.ID == "" {
		job.ID = syntheticID(companySlug, p.Family)
	}

	secs := ExtractSections(job.Description)
	job.CleanDescription = secs.CleanText
	job.Responsibilities = secs.Responsibilities
	job.Requirements = secs.Requirements
	job.Benefits = secs.Benefits

	fullText := job.Title + " " + job.CleanDescription
	job.EmploymentType = DetectEmploymentType(fullText)
	job.Seniority = DetectSeniority(fullText)

	sectionText := strings.Join(job.Responsibilities, " ") + " " + strings.Join(job.Requirements, " ")
	job.Skills = HarvestSkills(sectionText, job.Tags)

	if job.Tags == nil {
		job.Tags = []string{}
	}
	return job
}

func fromLever(lp *provider.LeverPosting) model.Job {
	if lp == nil {
		return model.Job{}
	}

	location := lp.Categories.Location
	if len(lp.Categories.AllLocations) > 0 {
		location = strings.Join(lp.Categories.AllLocations, ", ")
	}

	description := lp.Description
	if description == "" {
		description = lp.DescriptionPlain
	}

	sourceURL := lp.HostedURL
	if sourceURL == "" {
		sourceURL = lp.ApplyURL
	}

	var postedAt *time.Time
	if lp.CreatedAt > 0 {
		t := time.UnixMilli(lp.CreatedAt).UTC()
		postedAt = &t
	}

	var salary string
	if lp.SalaryRange.Min > 0 {
		if lp.SalaryRange.Max > lp.SalaryRange.Min {
			salary = fmt.Sprintf("%d-%d %s", lp.SalaryRange.Min, lp.SalaryRange.Max, lp.SalaryRange.Currency)
		} else {
			salary = fmt.Sprintf("%d %s", lp.SalaryRange.Min, lp.SalaryRange.Currency)
		}
		salary = strings.TrimSpace(salary)
	}

	tags := make([]string, len(lp.Tags))
	copy(tags, lp.Tags)

	return model.Job{
		ID:          lp.ID,
		Title:       lp.Text,
		Location:    location,
		Description: description,
		SourceURL:   sourceURL,
		PostedAt:    postedAt,
		Salary:      salary,
		Tags:        tags,
	}
}

func fromGreenhouse(gp *provider.GreenhousePosting) model.Job {
	if gp == nil {
		return model.Job{}
	}

	var id string
	if gp.ID > 0 {
		id = strconv.FormatInt(gp.ID, 10)
	}

	var postedAt *time.Time
	if gp.UpdatedAt != "" {
		if t, err := time.Parse(time.RFC3339, gp.UpdatedAt); err == nil {
			t = t.UTC()
			postedAt = &t
		}
	}

	tags := make([]string, 0, len(gp.Departments))
	for _, d := range gp.Departments {
		if d.Name != "" {
			tags = append(tags, d.Name)
		}
	}

	return model.Job{
		ID:       id,
		Title:    gp.Title,
		Location: gp.Location.Name,
		// Greenhouse double-encodes content; unescaping is a no-op on real HTML.
		Description: html.UnescapeString(gp.Content),
		SourceURL:   gp.AbsoluteURL,
		PostedAt:    postedAt,
		Tags:        tags,
	}
}

// syntheticID builds a batch-unique id for postings that lack one. Not stable
// across runs.
func syntheticID(companySlug string, family provider.Family) string {
	buf := make([]byte, 4)
	rand.Read(buf)
	return fmt.Sprintf("%s-%s-%x", companySlug, family, buf)
}
