package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/assessment-recommender/internal/catalog"
	"github.com/jonathan/assessment-recommender/internal/llm"
	"github.com/jonathan/assessment-recommender/internal/requirements"
)

type fakeLLM struct {
	jsonResponse string
	jsonErr      error
	embedVector  []float32
	embedErr     error
	jsonCalls    int
}

func (f *fakeLLM) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return f.jsonResponse, f.jsonErr
}

func (f *fakeLLM) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	f.jsonCalls++
	return f.jsonResponse, f.jsonErr
}

func (f *fakeLLM) Embed(ctx context.Context, text string) ([]float32, error) {
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	if f.embedVector != nil {
		return f.embedVector, nil
	}
	return []float32{1, 0}, nil
}

func (f *fakeLLM) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		v, err := f.Embed(ctx, texts[i])
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (f *fakeLLM) GetModel(tier llm.ModelTier) string { return "fake-model" }
func (f *fakeLLM) Close() error                       { return nil }

// vec builds a unit vector whose cosine similarity to the query [1, 0]
// equals score.
func vec(score float64) []float32 {
	return []float32{float32(score), float32(math.Sqrt(1 - score*score))}
}

func makeAssessment(name string, testType catalog.TestType, duration int, score float64) catalog.Assessment {
	return catalog.Assessment{
		ID:        name,
		Name:      name,
		URL:       "https://example.com/catalog/" + name,
		TestTypes: []catalog.TestType{testType},
		Duration:  duration,
		Embedding: vec(score),
	}
}

func storeWith(t *testing.T, assessments ...catalog.Assessment) *catalog.Store {
	t.Helper()
	snap, err := catalog.BuildSnapshot(context.Background(), assessments, nil, 10)
	require.NoError(t, err)
	store := catalog.NewStore()
	store.Swap(snap)
	return store
}

func specFor(query string) *requirements.Spec {
	return &requirements.Spec{OriginalText: query, CleanedQuery: query}
}

func TestRecommendSimilarityOrderWithoutLLM(t *testing.T) {
	store := storeWith(t,
		makeAssessment("third", catalog.TypeKnowledge, 30, 0.70),
		makeAssessment("first", catalog.TypePersonality, 30, 0.95),
		makeAssessment("second", catalog.TypeKnowledge, 30, 0.85),
	)
	engine := NewEngine(store, &fakeLLM{}, nil, DefaultConfig())

	result, err := engine.Recommend(context.Background(), specFor("java developers"))
	require.NoError(t, err)
	assert.True(t, result.RerankSkipped)
	require.Len(t, result.Candidates, 3)
	assert.Equal(t, "first", result.Candidates[0].Assessment.Name)
	assert.Equal(t, "second", result.Candidates[1].Assessment.Name)
	assert.Equal(t, "third", result.Candidates[2].Assessment.Name)
	// Without reranking, relevance mirrors similarity.
	assert.InDelta(t, result.Candidates[0].Similarity, result.Candidates[0].Relevance, 1e-9)
}

func TestRecommendRerankReorders(t *testing.T) {
	store := storeWith(t,
		makeAssessment("alpha", catalog.TypeKnowledge, 30, 0.95),
		makeAssessment("beta", catalog.TypePersonality, 30, 0.90),
		makeAssessment("gamma", catalog.TypeKnowledge, 30, 0.85),
	)
	// Search order is alpha, beta, gamma. The model prefers gamma.
	client := &fakeLLM{jsonResponse: `[
		{"id": 3, "score": 0.99, "reason": "exact skill match"},
		{"id": 1, "score": 0.60, "reason": "partial match"},
		{"id": 2, "score": 0.40, "reason": "weak match"}
	]`}
	engine := NewEngine(store, client, client, DefaultConfig())

	result, err := engine.Recommend(context.Background(), specFor("java developers"))
	require.NoError(t, err)
	assert.False(t, result.RerankSkipped)
	require.Len(t, result.Candidates, 3)
	assert.Equal(t, "gamma", result.Candidates[0].Assessment.Name)
	assert.Equal(t, 0.99, result.Candidates[0].Relevance)
	assert.Equal(t, "exact skill match", result.Candidates[0].Reason)
	assert.Equal(t, 1, client.jsonCalls)
}

func TestRecommendRerankFailureKeepsSimilarityOrder(t *testing.T) {
	store := storeWith(t,
		makeAssessment("alpha", catalog.TypeKnowledge, 30, 0.95),
		makeAssessment("beta", catalog.TypePersonality, 30, 0.90),
	)
	client := &fakeLLM{jsonErr: errors.New("model overloaded")}
	engine := NewEngine(store, client, client, DefaultConfig())

	result, err := engine.Recommend(context.Background(), specFor("java developers"))
	require.NoError(t, err)
	assert.True(t, result.RerankSkipped)
	require.Len(t, result.Candidates, 2)
	assert.Equal(t, "alpha", result.Candidates[0].Assessment.Name)
}

func TestRecommendRerankMalformedResponse(t *testing.T) {
	store := storeWith(t,
		makeAssessment("alpha", catalog.TypeKnowledge, 30, 0.95),
		makeAssessment("beta", catalog.TypePersonality, 30, 0.90),
	)
	client := &fakeLLM{jsonResponse: "sorry, I cannot rank these"}
	engine := NewEngine(store, client, client, DefaultConfig())

	result, err := engine.Recommend(context.Background(), specFor("java developers"))
	require.NoError(t, err)
	assert.True(t, result.RerankSkipped)
	assert.Equal(t, "alpha", result.Candidates[0].Assessment.Name)
}

func TestRecommendRerankPartialRankingKeepsMissing(t *testing.T) {
	store := storeWith(t,
		makeAssessment("alpha", catalog.TypeKnowledge, 30, 0.95),
		makeAssessment("beta", catalog.TypePersonality, 30, 0.90),
		makeAssessment("gamma", catalog.TypeKnowledge, 30, 0.85),
	)
	client := &fakeLLM{jsonResponse: `[{"id": 2, "score": 0.9, "reason": "best"}]`}
	engine := NewEngine(store, client, client, DefaultConfig())

	result, err := engine.Recommend(context.Background(), specFor("java developers"))
	require.NoError(t, err)
	require.Len(t, result.Candidates, 3)
	assert.Equal(t, "beta", result.Candidates[0].Assessment.Name)
	assert.Equal(t, "alpha", result.Candidates[1].Assessment.Name)
	assert.Equal(t, "gamma", result.Candidates[2].Assessment.Name)
}

func TestRecommendDurationFilter(t *testing.T) {
	store := storeWith(t,
		makeAssessment("long", catalog.TypeKnowledge, 90, 0.95),
		makeAssessment("short", catalog.TypeKnowledge, 30, 0.90),
		makeAssessment("unknown", catalog.TypeKnowledge, 0, 0.85),
	)
	engine := NewEngine(store, &fakeLLM{}, nil, DefaultConfig())

	spec := specFor("java developers")
	spec.MaxDurationMinutes = 60
	result, err := engine.Recommend(context.Background(), spec)
	require.NoError(t, err)
	assert.Equal(t, 1, result.DurationFiltered)
	require.Len(t, result.Candidates, 2)
	for _, c := range result.Candidates {
		assert.True(t, c.Assessment.MatchesDuration(60), c.Assessment.Name)
	}
}

func TestRecommendSelectBounds(t *testing.T) {
	var assessments []catalog.Assessment
	for i := 0; i < 12; i++ {
		testType := catalog.TypeKnowledge
		if i%2 == 0 {
			testType = catalog.TypePersonality
		}
		assessments = append(assessments,
			makeAssessment(fmt.Sprintf("a%02d", i), testType, 30, 0.95-float64(i)*0.01))
	}
	store := storeWith(t, assessments...)
	engine := NewEngine(store, &fakeLLM{}, nil, DefaultConfig())

	result, err := engine.Recommend(context.Background(), specFor("java developers"))
	require.NoError(t, err)
	assert.Len(t, result.Candidates, DefaultSelectMax)
}

func TestRecommendFewerThanMinReturnsAll(t *testing.T) {
	store := storeWith(t,
		makeAssessment("alpha", catalog.TypeKnowledge, 30, 0.95),
		makeAssessment("beta", catalog.TypePersonality, 30, 0.90),
	)
	engine := NewEngine(store, &fakeLLM{}, nil, DefaultConfig())

	result, err := engine.Recommend(context.Background(), specFor("java developers"))
	require.NoError(t, err)
	assert.Len(t, result.Candidates, 2)
}

func TestRecommendEmptyCatalog(t *testing.T) {
	engine := NewEngine(catalog.NewStore(), &fakeLLM{}, nil, DefaultConfig())

	_, err := engine.Recommend(context.Background(), specFor("java developers"))
	var retrievalErr *RetrievalError
	require.ErrorAs(t, err, &retrievalErr)
	assert.Equal(t, "search", retrievalErr.Stage)
}

func TestRecommendEmbedFailure(t *testing.T) {
	store := storeWith(t, makeAssessment("alpha", catalog.TypeKnowledge, 30, 0.95))
	engine := NewEngine(store, &fakeLLM{embedErr: errors.New("quota exhausted")}, nil, DefaultConfig())

	_, err := engine.Recommend(context.Background(), specFor("java developers"))
	var retrievalErr *RetrievalError
	require.ErrorAs(t, err, &retrievalErr)
	assert.Equal(t, "embed", retrievalErr.Stage)
}

func TestRecommendEmptySpec(t *testing.T) {
	store := storeWith(t, makeAssessment("alpha", catalog.TypeKnowledge, 30, 0.95))
	engine := NewEngine(store, &fakeLLM{}, nil, DefaultConfig())

	result, err := engine.Recommend(context.Background(), &requirements.Spec{})
	require.NoError(t, err)
	assert.Empty(t, result.Candidates)
}

func TestRecommendAssessmentsAccessor(t *testing.T) {
	store := storeWith(t,
		makeAssessment("alpha", catalog.TypeKnowledge, 30, 0.95),
		makeAssessment("beta", catalog.TypePersonality, 30, 0.90),
	)
	engine := NewEngine(store, &fakeLLM{}, nil, DefaultConfig())

	result, err := engine.Recommend(context.Background(), specFor("java developers"))
	require.NoError(t, err)
	names := []string{}
	for _, a := range result.Assessments() {
		names = append(names, a.Name)
	}
	assert.Equal(t, []string{"alpha", "beta"}, names)
}

func TestCandidateBlockKeepsValidUTF8(t *testing.T) {
	a := makeAssessment("accented", catalog.TypeKnowledge, 30, 0.9)
	a.Description = strings.Repeat("é", rerankDescriptionLimit+50)

	block := candidateBlock([]Candidate{{Assessment: a}})
	assert.True(t, utf8.ValidString(block))
	assert.Contains(t, block, "...")
}
