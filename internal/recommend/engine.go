package recommend

import (
	"context"
	"log"

	"github.com/jonathan/assessment-recommender/internal/catalog"
	"github.com/jonathan/assessment-recommender/internal/llm"
	"github.com/jonathan/assessment-recommender/internal/requirements"
)

// Default pipeline knobs. Overridable through Config.
const (
	DefaultTopK               = 15
	DefaultSelectMin          = 5
	DefaultSelectMax          = 7
	DefaultBalanceCapFraction = 0.5
)

// Config tunes the retrieval pipeline.
type Config struct {
	// TopK is how many candidates the vector search retrieves.
	TopK int
	// SelectMin and SelectMax bound the final recommendation count.
	SelectMin int
	SelectMax int
	// BalanceCapFraction caps how much of the final list a single test-type
	// code may occupy during the diversity pass.
	BalanceCapFraction float64
}

// DefaultConfig returns the standard pipeline configuration.
func DefaultConfig() Config {
	return Config{
		TopK:               DefaultTopK,
		SelectMin:          DefaultSelectMin,
		SelectMax:          DefaultSelectMax,
		BalanceCapFraction: DefaultBalanceCapFraction,
	}
}

func (c Config) withDefaults() Config {
	if c.TopK <= 0 {
		c.TopK = DefaultTopK
	}
	if c.SelectMin <= 0 {
		c.SelectMin = DefaultSelectMin
	}
	if c.SelectMax < c.SelectMin {
		c.SelectMax = c.SelectMin
	}
	if c.BalanceCapFraction <= 0 || c.BalanceCapFraction > 1 {
		c.BalanceCapFraction = DefaultBalanceCapFraction
	}
	return c
}

// Candidate is one retrieved assessment with its scores.
type Candidate struct {
	Assessment catalog.Assessment
	// Similarity is the cosine similarity from the vector search.
	Similarity float64
	// Relevance is the rerank score. Equals Similarity when reranking was
	// skipped.
	Relevance float64
	Reason    string
}

// Result is the outcome of one recommendation run.
type Result struct {
	Candidates    []Candidate
	RerankSkipped bool
	// DurationFiltered counts candidates dropped by the duration constraint.
	DurationFiltered int
}

// Assessments returns the selected assessments in final order.
func (r *Result) Assessments() []catalog.Assessment {
	out := make([]catalog.Assessment, len(r.Candidates))
	for i, c := range r.Candidates {
		out[i] = c.Assessment
	}
	return out
}

// Embedder turns query text into a vector. Satisfied by llm.Client.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Engine runs the retrieve, rerank, balance, select pipeline over the
// catalog snapshot.
type Engine struct {
	store    *catalog.Store
	embedder Embedder
	client   llm.Client
	config   Config
}

// NewEngine builds an engine. client may be nil, in which case reranking is
// always skipped and similarity order is used.
func NewEngine(store *catalog.Store, embedder Embedder, client llm.Client, config Config) *Engine {
	return &Engine{
		store:    store,
		embedder: embedder,
		client:   client,
		config:   config.withDefaults(),
	}
}

// Recommend runs the full pipeline for one requirement spec. An empty result
// with no error means the catalog had no matching records; a RetrievalError
// means embedding or search infrastructure failed.
func (e *Engine) Recommend(ctx context.Context, spec *requirements.Spec) (*Result, error) {
	query := spec.SearchText()
	if query == "" {
		query = spec.OriginalText
	}
	if query == "" {
		return &Result{}, nil
	}

	snapshot := e.store.Snapshot()
	if snapshot == nil || snapshot.Index.Len() == 0 {
		return nil, &RetrievalError{Stage: "search", Cause: errEmptyCatalog}
	}

	vector, err := e.embedder.Embed(ctx, query)
	if err != nil {
		return nil, &RetrievalError{Stage: "embed", Cause: err}
	}

	hits := snapshot.Index.Search(vector, e.config.TopK)
	if len(hits) == 0 {
		return &Result{}, nil
	}

	candidates := make([]Candidate, 0, len(hits))
	for _, hit := range hits {
		record, ok := snapshot.Record(hit.Position)
		if !ok {
			continue
		}
		candidates = append(candidates, Candidate{
			Assessment: record,
			Similarity: hit.Similarity,
			Relevance:  hit.Similarity,
		})
	}

	result := &Result{}

	reranked, err := e.rerank(ctx, spec, candidates)
	if err != nil {
		log.Printf("recommend: %v", err)
		result.RerankSkipped = true
	} else {
		candidates = reranked
	}

	filtered, dropped := filterDuration(candidates, spec.MaxDurationMinutes)
	result.DurationFiltered = dropped

	balanced := balance(filtered, e.config.SelectMax, e.config.BalanceCapFraction)

	count := len(balanced)
	if count > e.config.SelectMax {
		count = e.config.SelectMax
	}
	result.Candidates = balanced[:count]
	return result, nil
}

type catalogError string

func (e catalogError) Error() string { return string(e) }

const errEmptyCatalog = catalogError("catalog snapshot is empty")
