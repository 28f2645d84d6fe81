package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// LoadFile reads a catalog JSON file: an array of assessment records,
// optionally with precomputed embeddings from the index command.
func LoadFile(path string) ([]Assessment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}

	var assessments []Assessment
	if err := json.Unmarshal(data, &assessments); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %s: %w", path, err)
	}

	for i := range assessments {
		if assessments[i].ID == "" {
			assessments[i].ID = idFromURL(assessments[i].URL)
		}
	}

	return assessments, nil
}

// SaveFile writes the catalog, including any embeddings, back to disk.
// Used by the index command to persist precomputed vectors.
func SaveFile(path string, assessments []Assessment) error {
	data, err := json.MarshalIndent(assessments, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write catalog file %s: %w", path, err)
	}
	return nil
}

// idFromURL derives a stable record ID from the canonical URL.
func idFromURL(url string) string {
	id := strings.TrimPrefix(url, "https://")
	id = strings.TrimPrefix(id, "http://")
	id = strings.Trim(id, "/")
	return strings.ReplaceAll(id, "/", "_")
}
