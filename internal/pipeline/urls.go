package pipeline

import (
	"fmt"
	"regexp"
	"strings"
)

var urlPattern = regexp.MustCompile(`https?://[^\s<>"']+`)

// DetectURLs returns every http(s) URL substring in text, in order of
// appearance, with trailing punctuation stripped.
func DetectURLs(text string) []string {
	matches := urlPattern.FindAllString(text, -1)
	urls := make([]string, 0, len(matches))
	for _, m := range matches {
		urls = append(urls, strings.TrimRight(m, ".,;:)]}"))
	}
	return urls
}

// FirstURL returns the first URL in text, or "" when none is present.
func FirstURL(text string) string {
	if urls := DetectURLs(text); len(urls) > 0 {
		return urls[0]
	}
	return ""
}

// Query length bounds. Queries outside the bounds are rejected before the
// pipeline runs.
const (
	MinQueryLength = 3
	MaxQueryLength = 8000
)

// QueryError reports an invalid query before routing.
type QueryError struct {
	Message string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("invalid query: %s", e.Message)
}

// ValidateQuery checks the raw query against the length bounds.
func ValidateQuery(query string) error {
	trimmed := strings.TrimSpace(query)
	if len(trimmed) < MinQueryLength {
		return &QueryError{Message: fmt.Sprintf("query must be at least %d characters", MinQueryLength)}
	}
	if len(trimmed) > MaxQueryLength {
		return &QueryError{Message: fmt.Sprintf("query must be at most %d characters", MaxQueryLength)}
	}
	return nil
}
