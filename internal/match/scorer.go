// Package match scores canonical jobs against a candidate profile and stated
// preferences. Scoring is a pure function of its inputs: no I/O, no clock, no
// randomness.
package match

import (
	"math"
	"strings"
	"unicode"

	"github.com/resumatch/jobfeed/internal/model"
)

// Weighting policy: with a usable profile, skills dominate; without one,
// skill matching is meaningless and its weight moves to title and location.
const (
	skillsWeightWithProfile   = 0.6
	titleWeightWithProfile    = 0.3
	locationWeightWithProfile = 0.1

	titleWeightNoProfile    = 0.7
	locationWeightNoProfile = 0.3
)

// Score computes a 0–100 relevance score for job given an optional candidate
// profile and preferences. Either input may be nil.
func Score(job model.Job, profile *model.ResumeProfile, prefs *model.MatchPreferences) int {
	jobText := jobHaystack(job)
	jobTokens := tokenSet(jobText)
	jobTextLower := strings.ToLower(jobText)

	skillScore := scoreSkills(profile, jobTokens, jobTextLower)

	var titleScore, locationScore float64
	if prefs != nil {
		titleScore = scoreTitle(prefs.JobTitle, jobTokens)
		locationScore = scoreLocation(prefs.Location, job.Location)
	}

	var total float64
	if profile.IsEmpty() {
		total = titleWeightNoProfile*titleScore + locationWeightNoProfile*locationScore
	} else {
		total = skillsWeightWithProfile*skillScore +
			titleWeightWithProfile*titleScore +
			locationWeightWithProfile*locationScore
	}

	total = math.Min(1, math.Max(0, total))
	return int(math.Round(total * 100))
}

// jobHaystack is the job-side text: title, clean description (falling back to
// the raw description), and skills.
func jobHaystack(job model.Job) string {
	desc := job.CleanDescription
	if desc == "" {
		desc = job.Description
	}
	return job.Title + " " + desc + " " + strings.Join(job.Skills, " ")
}

// scoreSkills returns the matched fraction of profile skills. A skill matches
// when any of its tokens appears in the job token set, or when the raw
// lowercase phrase is a literal substring of the job text.
func scoreSkills(profile *model.ResumeProfile, jobTokens map[string]struct{}, jobTextLower string) float64 {
	if profile == nil || len(profile.Skills) == 0 {
		return 0
	}

	matched := 0
	for _, skill := range profile.Skills {
		if skillMatches(skill, jobTokens, jobTextLower) {
			matched++
		}
	}
	return float64(matched) / float64(len(profile.Skills))
}

func skillMatches(skill string, jobTokens map[string]struct{}, jobTextLower string) bool {
	for _, tok := range tokenize(skill) {
		if _, ok := jobTokens[tok]; ok {
			return true
		}
	}
	phrase := strings.ToLower(strings.TrimSpace(skill))
	return phrase != "" && strings.Contains(jobTextLower, phrase)
}

// scoreTitle returns the fraction of preference title tokens present in the
// job tokens.
func scoreTitle(wanted string, jobTokens map[string]struct{}) float64 {
	tokens := tokenize(wanted)
	if len(tokens) == 0 {
		return 0
	}
	matched := 0
	for _, tok := range tokens {
		if _, ok := jobTokens[tok]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(tokens))
}

// scoreLocation is binary: 1 when both sides mention remote, or when one
// location string contains the other; otherwise 0.
func scoreLocation(wanted, jobLocation string) float64 {
	wanted = strings.ToLower(strings.TrimSpace(wanted))
	jobLocation = strings.ToLower(strings.TrimSpace(jobLocation))
	if wanted == "" || jobLocation == "" {
		return 0
	}
	if strings.Contains(wanted, "remote") && strings.Contains(jobLocation, "remote") {
		return 1
	}
	if strings.Contains(wanted, jobLocation) || strings.Contains(jobLocation, wanted) {
		return 1
	}
	return 0
}

// tokenize lowercases, maps non-alphanumerics to spaces, splits, discards
// tokens of length <= 2, and deduplicates preserving order.
func tokenize(s string) []string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)

	seen := make(map[string]bool)
	var tokens []string
	for _, tok := range strings.Fields(mapped) {
		if len(tok) <= 2 || seen[tok] {
			continue
		}
		seen[tok] = true
		tokens = append(tokens, tok)
	}
	return tokens
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range tokenize(s) {
		set[tok] = struct{}{}
	}
	return set
}
