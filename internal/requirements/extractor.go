package requirements

import (
	"context"
	"encoding/json"
	"log"

	"github.com/jonathan/assessment-recommender/internal/catalog"
	"github.com/jonathan/assessment-recommender/internal/llm"
	"github.com/jonathan/assessment-recommender/internal/prompts"
)

// Extractor produces a Spec from text. The LLM result is merged with the
// rule-based baseline; when the LLM path fails the baseline stands alone.
type Extractor struct {
	client llm.Client
}

// NewExtractor creates an extractor. A nil client always uses the rules path.
func NewExtractor(client llm.Client) *Extractor {
	return &Extractor{client: client}
}

// llmSpec mirrors the JSON the extract-requirements prompt requests.
type llmSpec struct {
	CleanedQuery       string   `json:"cleaned_query"`
	TechnicalSkills    []string `json:"technical_skills"`
	SoftSkills         []string `json:"soft_skills"`
	MaxDurationMinutes int      `json:"max_duration_minutes"`
	JobLevels          []string `json:"job_levels"`
	TestTypes          []string `json:"test_types"`
	KeyRequirements    []string `json:"key_requirements"`
}

// Extract turns text into a Spec. It always returns a usable spec; degraded
// reports that the LLM path failed and only the rule baseline was used.
// Extraction is idempotent: the same input yields an equivalent spec.
func (e *Extractor) Extract(ctx context.Context, text string) (spec *Spec, degraded bool) {
	baseline := ExtractRules(text)

	if e.client == nil {
		return baseline, false
	}

	enhanced, err := e.extractWithLLM(ctx, text)
	if err != nil {
		log.Printf("requirements: extraction degraded, using rule baseline: %v", err)
		return baseline, true
	}

	return mergeSpecs(baseline, enhanced), false
}

func (e *Extractor) extractWithLLM(ctx context.Context, text string) (*llmSpec, error) {
	template := prompts.MustGet("requirements.json", "extract-requirements")
	prompt := prompts.Format(template, map[string]string{"Text": text})

	raw, err := e.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, &APICallError{Message: "failed to generate extraction", Cause: err}
	}

	raw = llm.CleanJSONBlock(raw)
	if err := validateSpecJSON(raw); err != nil {
		return nil, err
	}

	var parsed llmSpec
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, &ParseError{Message: "failed to decode extraction JSON", Cause: err}
	}

	return &parsed, nil
}

// mergeSpecs combines the LLM result with the rule baseline for coverage:
// skill sets union, LLM duration wins when present, baseline fills gaps.
func mergeSpecs(baseline *Spec, enhanced *llmSpec) *Spec {
	spec := &Spec{
		OriginalText:    baseline.OriginalText,
		CleanedQuery:    enhanced.CleanedQuery,
		TechnicalSkills: dedupe(enhanced.TechnicalSkills, baseline.TechnicalSkills),
		SoftSkills:      dedupe(enhanced.SoftSkills, baseline.SoftSkills),
		JobLevels:       dedupe(enhanced.JobLevels, baseline.JobLevels),
		KeyRequirements: dedupe(enhanced.KeyRequirements),
	}

	if spec.CleanedQuery == "" {
		spec.CleanedQuery = baseline.CleanedQuery
	}

	spec.MaxDurationMinutes = enhanced.MaxDurationMinutes
	if spec.MaxDurationMinutes == 0 {
		spec.MaxDurationMinutes = baseline.MaxDurationMinutes
	}

	for _, raw := range enhanced.TestTypes {
		if t, ok := catalog.ParseTestType(raw); ok {
			spec.TestTypes = appendTestType(spec.TestTypes, t)
		}
	}
	for _, t := range baseline.TestTypes {
		spec.TestTypes = appendTestType(spec.TestTypes, t)
	}

	if len(spec.KeyRequirements) == 0 {
		spec.KeyRequirements = baseline.KeyRequirements
	}

	return spec
}

func appendTestType(types []catalog.TestType, t catalog.TestType) []catalog.TestType {
	for _, existing := range types {
		if existing == t {
			return types
		}
	}
	return append(types, t)
}
