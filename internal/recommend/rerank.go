package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/assessment-recommender/internal/catalog"
	"github.com/jonathan/assessment-recommender/internal/llm"
	"github.com/jonathan/assessment-recommender/internal/prompts"
	"github.com/jonathan/assessment-recommender/internal/requirements"
)

const rerankDescriptionLimit = 300

type rankEntry struct {
	ID     int     `json:"id"`
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

// rerank asks the LLM to reorder candidates by relevance. Candidates the
// model omits keep their prior order after the ranked ones. Returns a
// RerankError on any failure; the caller keeps similarity order.
func (e *Engine) rerank(ctx context.Context, spec *requirements.Spec, candidates []Candidate) ([]Candidate, error) {
	if e.client == nil {
		return nil, &RerankError{Message: "no LLM client configured"}
	}
	if len(candidates) < 2 {
		return candidates, nil
	}

	template := prompts.MustGet("rerank.json", "rerank-candidates")
	prompt := prompts.Format(template, map[string]string{
		"Query":      spec.CleanedQuery,
		"Skills":     strings.Join(spec.TechnicalSkills, ", "),
		"TestTypes":  joinTestTypes(spec.TestTypes),
		"Duration":   durationText(spec.MaxDurationMinutes),
		"Candidates": candidateBlock(candidates),
	})

	raw, err := e.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, &RerankError{Message: "LLM call failed", Cause: err}
	}

	var entries []rankEntry
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(raw)), &entries); err != nil {
		return nil, &RerankError{Message: "response is not a JSON array", Cause: err}
	}
	if len(entries) == 0 {
		return nil, &RerankError{Message: "response ranked no candidates"}
	}

	ordered := make([]Candidate, 0, len(candidates))
	seen := make(map[int]bool, len(candidates))
	for _, entry := range entries {
		idx := entry.ID - 1
		if idx < 0 || idx >= len(candidates) || seen[idx] {
			continue
		}
		seen[idx] = true
		c := candidates[idx]
		c.Relevance = clampScore(entry.Score)
		c.Reason = entry.Reason
		ordered = append(ordered, c)
	}
	if len(ordered) == 0 {
		return nil, &RerankError{Message: "response referenced no known candidate IDs"}
	}
	for idx, c := range candidates {
		if !seen[idx] {
			ordered = append(ordered, c)
		}
	}
	return ordered, nil
}

func candidateBlock(candidates []Candidate) string {
	var b strings.Builder
	for i, c := range candidates {
		desc := c.Assessment.Description
		if runes := []rune(desc); len(runes) > rerankDescriptionLimit {
			desc = string(runes[:rerankDescriptionLimit]) + "..."
		}
		fmt.Fprintf(&b, "%d. %s | types: %s | duration: %s | %s\n",
			i+1, c.Assessment.Name, joinTestTypes(c.Assessment.TestTypes),
			durationText(c.Assessment.Duration), desc)
	}
	return b.String()
}

func joinTestTypes(types []catalog.TestType) string {
	if len(types) == 0 {
		return "any"
	}
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.Name()
	}
	return strings.Join(names, ", ")
}

func durationText(minutes int) string {
	if minutes <= 0 {
		return "unspecified"
	}
	return fmt.Sprintf("%d minutes", minutes)
}

func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}
