// Package catalog holds the assessment catalog: the record set, its vector
// index, and the atomically swapped snapshot the pipeline reads from.
package catalog

import (
	"fmt"
	"strings"
)

// Assessment is a single catalog entry. Records are immutable once loaded;
// the refresh process swaps the whole snapshot rather than mutating records.
type Assessment struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	URL             string     `json:"url"`
	RemoteSupport   string     `json:"remote_support"`
	AdaptiveSupport string     `json:"adaptive_support"`
	TestTypes       []TestType `json:"test_type"`
	Description     string     `json:"description"`
	JobLevels       string     `json:"job_levels,omitempty"`
	Languages       string     `json:"languages,omitempty"`
	// Duration is the assessment length in minutes. Zero means unknown.
	Duration int `json:"duration,omitempty"`
	// Embedding is the precomputed document vector, if the catalog file
	// was produced by the index command. Empty otherwise.
	Embedding []float32 `json:"embedding,omitempty"`
}

// EmbeddingText builds the document text that gets embedded for this record.
func (a *Assessment) EmbeddingText() string {
	typeNames := make([]string, 0, len(a.TestTypes))
	for _, t := range a.TestTypes {
		typeNames = append(typeNames, t.Name())
	}

	parts := []string{
		fmt.Sprintf("Assessment: %s", a.Name),
		fmt.Sprintf("Description: %s", a.Description),
		fmt.Sprintf("Test Types: %s", strings.Join(typeNames, ", ")),
	}
	if a.JobLevels != "" {
		parts = append(parts, fmt.Sprintf("Job Levels: %s", a.JobLevels))
	}
	if a.Languages != "" {
		parts = append(parts, fmt.Sprintf("Languages: %s", a.Languages))
	}
	if a.Duration > 0 {
		parts = append(parts, fmt.Sprintf("Duration: %d minutes", a.Duration))
	}
	parts = append(parts,
		fmt.Sprintf("Remote Support: %s", a.RemoteSupport),
		fmt.Sprintf("Adaptive Support: %s", a.AdaptiveSupport),
	)

	return strings.Join(parts, " | ")
}

// MatchesDuration reports whether the record fits under a maximum duration
// in minutes. Records with unknown duration always match; a non-positive
// maximum means no constraint.
func (a *Assessment) MatchesDuration(maxMinutes int) bool {
	if maxMinutes <= 0 || a.Duration <= 0 {
		return true
	}
	return a.Duration <= maxMinutes
}

// PrimaryTestType returns the first test type code, used when a single
// code must represent the record (e.g. diversity counting).
func (a *Assessment) PrimaryTestType() TestType {
	if len(a.TestTypes) == 0 {
		return ""
	}
	return a.TestTypes[0]
}

// HasRemoteSupport reports whether remote testing is supported.
func (a *Assessment) HasRemoteSupport() bool {
	return strings.EqualFold(a.RemoteSupport, "yes")
}

// HasAdaptiveSupport reports whether adaptive/IRT testing is supported.
func (a *Assessment) HasAdaptiveSupport() bool {
	return strings.EqualFold(a.AdaptiveSupport, "yes")
}

// Validate checks the minimal invariants a catalog record must satisfy.
func (a *Assessment) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("assessment %q: name is required", a.ID)
	}
	if !strings.HasPrefix(a.URL, "http") {
		return fmt.Errorf("assessment %q: URL must start with http or https", a.Name)
	}
	for _, t := range a.TestTypes {
		if !t.Valid() {
			return fmt.Errorf("assessment %q: unknown test type code %q", a.Name, string(t))
		}
	}
	return nil
}
