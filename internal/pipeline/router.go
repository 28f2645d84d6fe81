package pipeline

import (
	"context"
	"log"

	"github.com/jonathan/assessment-recommender/internal/answer"
	"github.com/jonathan/assessment-recommender/internal/intent"
	"github.com/jonathan/assessment-recommender/internal/recommend"
	"github.com/jonathan/assessment-recommender/internal/requirements"
)

// RedirectMessage is the fixed reply for out-of-context queries.
const RedirectMessage = "I help with hiring assessments. Describe the role you are " +
	"hiring for (for example: \"assessments for Java developers under 60 minutes\") " +
	"or paste a job posting URL, and I will recommend assessments from the catalog."

// OutcomeKind discriminates what a routed request produced.
type OutcomeKind string

const (
	OutcomeRecommendation OutcomeKind = "recommendation"
	OutcomeAnswer         OutcomeKind = "answer"
	OutcomeRedirect       OutcomeKind = "redirect"
)

// Outcome is the result of routing one query end to end.
type Outcome struct {
	Kind       OutcomeKind
	Intent     intent.Intent
	Confidence float64
	Stages     []Stage

	// Recommendation path.
	Spec            *requirements.Spec
	Recommendations *recommend.Result
	FetchFailed     bool

	// Answer path.
	AnswerText string
	Related    []string

	// Redirect path.
	RedirectMessage string

	// Warnings lists degraded stages. Degradation never aborts a request.
	Warnings []string
}

// Classifier labels a query with an intent.
type Classifier interface {
	Classify(ctx context.Context, query string) intent.Classification
}

// Extractor produces a requirement spec from free text.
type Extractor interface {
	Extract(ctx context.Context, text string) (*requirements.Spec, bool)
}

// Fetcher obtains job-posting text for a URL.
type Fetcher interface {
	FetchJobText(ctx context.Context, url string) (string, error)
}

// Recommender runs the retrieval pipeline for a requirement spec.
type Recommender interface {
	Recommend(ctx context.Context, spec *requirements.Spec) (*recommend.Result, error)
}

// Answerer replies to general catalog questions.
type Answerer interface {
	Answer(ctx context.Context, query string) answer.Result
}

// Router sequences the pipeline components according to the routing state
// machine. It is stateless between calls.
type Router struct {
	classifier  Classifier
	extractor   Extractor
	fetcher     Fetcher
	recommender Recommender
	answerer    Answerer
}

// NewRouter wires the pipeline. fetcher may be nil, in which case URLs in
// queries are left unfetched and extraction runs on the raw query text.
func NewRouter(classifier Classifier, extractor Extractor, fetcher Fetcher, recommender Recommender, answerer Answerer) *Router {
	return &Router{
		classifier:  classifier,
		extractor:   extractor,
		fetcher:     fetcher,
		recommender: recommender,
		answerer:    answerer,
	}
}

// Run routes one query to completion. Only retrieval infrastructure failure
// returns an error (recommend.RetrievalError); every other failure degrades
// and is recorded in Outcome.Warnings.
func (r *Router) Run(ctx context.Context, query string) (*Outcome, error) {
	classification := r.classifier.Classify(ctx, query)

	rc := RouteContext{
		Intent: classification.Intent,
		HasURL: FirstURL(query) != "",
	}

	outcome := &Outcome{
		Intent:     classification.Intent,
		Confidence: classification.Confidence,
		Stages:     Path(rc),
	}
	if classification.Degraded {
		outcome.Warnings = append(outcome.Warnings, "intent classification used keyword fallback")
	}

	switch classification.Intent {
	case intent.IntentJobDescription:
		return r.runRecommendation(ctx, query, outcome)
	case intent.IntentGeneral:
		return r.runAnswer(ctx, query, outcome), nil
	default:
		outcome.Kind = OutcomeRedirect
		outcome.RedirectMessage = RedirectMessage
		return outcome, nil
	}
}

func (r *Router) runRecommendation(ctx context.Context, query string, outcome *Outcome) (*Outcome, error) {
	text := query
	if url := FirstURL(query); url != "" && r.fetcher != nil {
		fetched, err := r.fetcher.FetchJobText(ctx, url)
		if err != nil {
			// Fetch failure is partial: extraction proceeds on the
			// raw query text.
			log.Printf("pipeline: job fetch failed for %s: %v", url, err)
			outcome.FetchFailed = true
			outcome.Warnings = append(outcome.Warnings, "job posting could not be fetched; using query text")
		} else if fetched != "" {
			text = fetched
		}
	}

	spec, degraded := r.extractor.Extract(ctx, text)
	if degraded {
		outcome.Warnings = append(outcome.Warnings, "requirement extraction used rule-based fallback")
	}
	spec.OriginalText = query
	outcome.Spec = spec

	result, err := r.recommender.Recommend(ctx, spec)
	if err != nil {
		return nil, err
	}
	if result.RerankSkipped {
		outcome.Warnings = append(outcome.Warnings, "rerank skipped; similarity order retained")
	}

	outcome.Kind = OutcomeRecommendation
	outcome.Recommendations = result
	return outcome, nil
}

func (r *Router) runAnswer(ctx context.Context, query string, outcome *Outcome) *Outcome {
	result := r.answerer.Answer(ctx, query)
	if result.Degraded {
		outcome.Warnings = append(outcome.Warnings, "answer generation degraded to fallback")
	}

	outcome.Kind = OutcomeAnswer
	outcome.AnswerText = result.Text
	for _, record := range result.Related {
		outcome.Related = append(outcome.Related, record.Name)
	}
	return outcome
}
