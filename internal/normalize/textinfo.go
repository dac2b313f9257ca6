package normalize

import (
	"regexp"
	"strings"
)

// Single-shot scans over the full job text; first match wins, case-insensitive.
var (
	employmentRe = regexp.MustCompile(`(?i)\b(full[ -]?time|part[ -]?time|contract|freelance|internship|temporary)\b`)
	seniorityRe  = regexp.MustCompile(`(?i)\b(senior|lead|junior|mid[ -]?level|principal|manager|director|architect)\b`)

	// Capitalized tokens 2–30 chars; + # . / - kept so C++, C#, Node.js survive.
	skillTokenRe = regexp.MustCompile(`\b[A-Z][A-Za-z0-9+#./-]{1,29}\b`)
)

// DetectEmploymentType returns the first employment-type keyword found in
// text, normalized to lowercase with hyphens, or "".
func DetectEmploymentType(text string) string {
	return normalizeKeyword(employmentRe.FindString(text))
}

// DetectSeniority returns the first seniority keyword found in text,
// normalized to lowercase with hyphens, or "".
func DetectSeniority(text string) string {
	return normalizeKeyword(seniorityRe.FindString(text))
}

func normalizeKeyword(m string) string {
	return strings.ReplaceAll(strings.ToLower(m), " ", "-")
}

// HarvestSkills builds the skills list for a job: the already-known tags
// first, then capitalized tokens from the responsibilities/requirements text.
// Deduplicated case-insensitively, capped at 20.
func HarvestSkills(text string, known []string) []string {
	const maxSkills = 20

	skills := make([]string, 0, maxSkills)
	seen := make(map[string]bool)

	add := func(s string) {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" || seen[key] || len(skills) >= maxSkills {
			return
		}
		seen[key] = true
		skills = append(skills, s)
	}

	for _, tag := range known {
		add(tag)
	}
	for _, tok := range skillTokenRe.FindAllString(text, -1) {
		add(tok)
	}
	return skills
}
