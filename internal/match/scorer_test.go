package match

import (
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/resumatch/jobfeed/internal/model"
)

func TestScoreSkillsMatch(t *testing.T) {
	job := model.Job{
		Title:            "Frontend Engineer",
		CleanDescription: "Experience with React and Node required",
	}
	profile := &model.ResumeProfile{Skills: []string{"React", "Node.js"}}

	got := Score(job, profile, nil)

	// Both skills match: 0.6 * 1.0 = 0.6 → 60.
	if got <= 50 {
		t.Errorf("expected score > 50 for full skill match, got %d", got)
	}
	if got != 60 {
		t.Errorf("expected 60, got %d", got)
	}
}

func TestScoreNoProfileTitleOnly(t *testing.T) {
	job := model.Job{Title: "Senior Engineer"}
	prefs := &model.MatchPreferences{JobTitle: "Senior Engineer"}

	got := Score(job, nil, prefs)

	// Without a profile the title weight is 0.7; exact title match, no
	// location preference → 70.
	if got != 70 {
		t.Errorf("expected 70, got %d", got)
	}
}

func TestScoreWeightSwitchOnEmptyProfile(t *testing.T) {
	job := model.Job{
		Title:            "Senior Engineer",
		CleanDescription: "React TypeScript Kubernetes",
	}
	prefs := &model.MatchPreferences{JobTitle: "Senior Engineer"}
	empty := &model.ResumeProfile{}

	// An empty profile must behave exactly like a nil one: skills carry no
	// weight even though the description is full of skills.
	if got, want := Score(job, empty, prefs), Score(job, nil, prefs); got != want {
		t.Errorf("empty profile scored %d, nil profile %d", got, want)
	}
	if got := Score(job, empty, prefs); got != 70 {
		t.Errorf("expected title+location weighting only, got %d", got)
	}
}

func TestScoreProfileWithOnlyExperienceUsesSkillWeights(t *testing.T) {
	job := model.Job{Title: "Senior Engineer"}
	prefs := &model.MatchPreferences{JobTitle: "Senior Engineer"}
	profile := &model.ResumeProfile{
		Experience: []model.ExperienceEntry{{Title: "Engineer"}},
	}

	// Experience marks the profile usable, so title weight drops to 0.3 even
	// though there are no skills to match.
	if got := Score(job, profile, prefs); got != 30 {
		t.Errorf("expected 30 with profile weighting, got %d", got)
	}
}

func TestScoreLocation(t *testing.T) {
	cases := []struct {
		name     string
		pref     string
		location string
		want     int
	}{
		{"both remote", "Remote", "Remote - US", 10},
		{"substring either direction", "San Francisco", "San Francisco, CA", 10},
		{"pref contains job", "Berlin, Germany", "Berlin", 10},
		{"mismatch", "London", "New York, NY", 0},
		{"no preference", "", "Remote", 0},
		{"job location missing", "London", "", 0},
	}

	profile := &model.ResumeProfile{Skills: []string{"zzz-unmatched"}}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			job := model.Job{Title: "Engineer", Location: c.location}
			prefs := &model.MatchPreferences{Location: c.pref}
			if got := Score(job, profile, prefs); got != c.want {
				t.Errorf("score = %d, want %d", got, c.want)
			}
		})
	}
}

func TestScoreSkillSubstringFallback(t *testing.T) {
	job := model.Job{
		Title:            "Engineer",
		CleanDescription: "We use modern frontend tooling every day",
	}
	// "nd to" tokens won't match, but the raw phrase appears as a substring.
	profile := &model.ResumeProfile{Skills: []string{"nd to"}}

	if got := Score(job, profile, nil); got != 60 {
		t.Errorf("expected substring fallback to match, got %d", got)
	}
}

func TestScoreBoundedAndDeterministic(t *testing.T) {
	jobs := []model.Job{
		{},
		{Title: "Senior Staff Principal Engineer", Location: "Remote", CleanDescription: "Go Go Go"},
		{Title: "x", Description: "yy"},
	}
	profile := &model.ResumeProfile{Skills: []string{"Go", "Rust", "Python", "React"}}
	prefs := &model.MatchPreferences{JobTitle: "Principal Engineer", Location: "Remote"}

	for _, job := range jobs {
		a := Score(job, profile, prefs)
		b := Score(job, profile, prefs)
		if a != b {
			t.Errorf("score not deterministic: %d != %d", a, b)
		}
		if a < 0 || a > 100 {
			t.Errorf("score out of bounds: %d", a)
		}
	}
}

func TestScoreNilInputsAreZero(t *testing.T) {
	if got := Score(model.Job{Title: "Engineer"}, nil, nil); got != 0 {
		t.Errorf("expected 0 with no profile and no preferences, got %d", got)
	}
}

func TestTokenize(t *testing.T) {
	got := tokenize("Senior Go/React Engineer (Remote) — Go")
	want := []string{"senior", "react", "engineer", "remote"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tokenize = %v, want %v", got, want)
	}
}

func TestLoadProfile(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	t.Run("missing file is nil profile", func(t *testing.T) {
		p, err := LoadProfile(filepath.Join(t.TempDir(), "nope.json"), logger)
		if err != nil || p != nil {
			t.Errorf("expected (nil, nil), got (%v, %v)", p, err)
		}
	})

	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "profile.json")
		os.WriteFile(path, []byte(`{"skills": ["Go"], "experience": [{"title": "SWE"}]}`), 0o644)

		p, err := LoadProfile(path, logger)
		if err != nil {
			t.Fatalf("LoadProfile: %v", err)
		}
		if len(p.Skills) != 1 || p.Skills[0] != "Go" {
			t.Errorf("unexpected skills: %v", p.Skills)
		}
		if p.IsEmpty() {
			t.Error("profile with skills must not be empty")
		}
	})

	t.Run("malformed file errors", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "profile.json")
		os.WriteFile(path, []byte(`{`), 0o644)

		if _, err := LoadProfile(path, logger); err == nil {
			t.Error("expected parse error")
		}
	})
}
