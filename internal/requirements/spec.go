// Package requirements turns raw text (a hiring query or a fetched job
// description) into a structured requirement profile. LLM extraction is the
// primary path; a rule-based extractor backs it and can never fail.
package requirements

import (
	"fmt"
	"strings"

	"github.com/jonathan/assessment-recommender/internal/catalog"
)

// Spec is the structured extraction result. Created once per request and
// consumed read-only by the recommendation engine.
type Spec struct {
	OriginalText    string   `json:"original_text"`
	CleanedQuery    string   `json:"cleaned_query"`
	TechnicalSkills []string `json:"technical_skills"`
	SoftSkills      []string `json:"soft_skills"`
	// MaxDurationMinutes caps assessment length. Zero means no constraint.
	MaxDurationMinutes int                `json:"max_duration_minutes"`
	JobLevels          []string           `json:"job_levels"`
	TestTypes          []catalog.TestType `json:"test_types"`
	KeyRequirements    []string           `json:"key_requirements"`
}

// IsEmpty reports whether extraction found nothing usable.
func (s *Spec) IsEmpty() bool {
	return len(s.TechnicalSkills) == 0 &&
		len(s.SoftSkills) == 0 &&
		len(s.KeyRequirements) == 0 &&
		s.MaxDurationMinutes == 0
}

// SearchText builds the combined text the retrieval stage embeds.
func (s *Spec) SearchText() string {
	var parts []string

	if s.CleanedQuery != "" {
		parts = append(parts, s.CleanedQuery)
	} else if s.OriginalText != "" {
		parts = append(parts, truncate(s.OriginalText, 500))
	}

	skills := append(append([]string{}, s.TechnicalSkills...), s.SoftSkills...)
	if len(skills) > 10 {
		skills = skills[:10]
	}
	if len(skills) > 0 {
		parts = append(parts, fmt.Sprintf("Required skills: %s", strings.Join(skills, ", ")))
	}

	if len(s.TestTypes) > 0 {
		names := make([]string, len(s.TestTypes))
		for i, t := range s.TestTypes {
			names[i] = t.Name()
		}
		parts = append(parts, fmt.Sprintf("Test types needed: %s", strings.Join(names, ", ")))
	}

	reqs := s.KeyRequirements
	if len(reqs) > 5 {
		reqs = reqs[:5]
	}
	if len(reqs) > 0 {
		parts = append(parts, fmt.Sprintf("Key requirements: %s", strings.Join(reqs, ", ")))
	}

	return strings.Join(parts, " | ")
}

// truncate cuts text to at most max runes, never splitting a multi-byte
// character.
func truncate(text string, max int) string {
	if len(text) <= max {
		return text
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}

// dedupe merges string slices preserving first-seen order, case-insensitive.
func dedupe(slices ...[]string) []string {
	seen := make(map[string]bool)
	var merged []string
	for _, slice := range slices {
		for _, item := range slice {
			item = strings.TrimSpace(item)
			key := strings.ToLower(item)
			if item == "" || seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, item)
		}
	}
	return merged
}
