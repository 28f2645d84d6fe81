// Package intent classifies hiring queries into the three routing intents.
// The primary path is LLM structured classification; a deterministic keyword
// matcher backs it so classification can never fail outright.
package intent

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/jonathan/assessment-recommender/internal/llm"
	"github.com/jonathan/assessment-recommender/internal/prompts"
)

// Intent labels what the user is asking for.
type Intent string

// The closed set of intents the router understands.
const (
	IntentJobDescription Intent = "job_description_query"
	IntentGeneral        Intent = "general_question"
	IntentOutOfContext   Intent = "out_of_context"
)

// Valid reports whether the label belongs to the closed intent set.
func (i Intent) Valid() bool {
	switch i {
	case IntentJobDescription, IntentGeneral, IntentOutOfContext:
		return true
	}
	return false
}

// Classification is the result of classifying one query. Produced once per
// query and never mutated afterwards.
type Classification struct {
	Intent     Intent
	Confidence float64
	// Degraded is set when the LLM path failed or was below the confidence
	// threshold and the keyword fallback produced the label instead.
	Degraded bool
}

// DefaultConfidenceThreshold is the minimum LLM confidence accepted before
// the deterministic fallback takes over.
const DefaultConfidenceThreshold = 0.4

// fallbackConfidence is reported when the keyword matcher decides.
const fallbackConfidence = 0.5

// Classifier labels queries with an intent and a confidence.
type Classifier struct {
	client    llm.Client
	threshold float64
}

// NewClassifier creates a classifier. A nil client always uses the fallback.
func NewClassifier(client llm.Client, threshold float64) *Classifier {
	if threshold <= 0 {
		threshold = DefaultConfidenceThreshold
	}
	return &Classifier{client: client, threshold: threshold}
}

// llmClassification mirrors the JSON the classify-intent prompt requests.
type llmClassification struct {
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// Classify labels a query. It never returns an error: LLM failures,
// malformed output, and low-confidence results all fall through to the
// keyword matcher, which is total.
func (c *Classifier) Classify(ctx context.Context, query string) Classification {
	if strings.TrimSpace(query) == "" {
		return Classification{Intent: IntentOutOfContext, Confidence: 1.0}
	}

	if c.client != nil {
		if result, ok := c.classifyWithLLM(ctx, query); ok {
			return result
		}
	}

	return Classification{
		Intent:     FallbackClassify(query),
		Confidence: fallbackConfidence,
		Degraded:   true,
	}
}

func (c *Classifier) classifyWithLLM(ctx context.Context, query string) (Classification, bool) {
	template := prompts.MustGet("intent.json", "classify-intent")
	prompt := prompts.Format(template, map[string]string{"Query": query})

	raw, err := c.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		log.Printf("intent: classification degraded, falling back to keywords: %v", err)
		return Classification{}, false
	}

	var parsed llmClassification
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(raw)), &parsed); err != nil {
		log.Printf("intent: malformed classification response, falling back: %v", err)
		return Classification{}, false
	}

	label := Intent(parsed.Intent)
	if !label.Valid() {
		log.Printf("intent: unknown label %q, falling back", parsed.Intent)
		return Classification{}, false
	}
	if parsed.Confidence < c.threshold {
		log.Printf("intent: confidence %.2f below threshold %.2f, falling back", parsed.Confidence, c.threshold)
		return Classification{}, false
	}
	if parsed.Confidence > 1.0 {
		parsed.Confidence = 1.0
	}

	return Classification{Intent: label, Confidence: parsed.Confidence}, true
}
