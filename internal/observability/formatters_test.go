package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/assessment-recommender/internal/catalog"
	"github.com/jonathan/assessment-recommender/internal/intent"
	"github.com/jonathan/assessment-recommender/internal/pipeline"
	"github.com/jonathan/assessment-recommender/internal/recommend"
	"github.com/jonathan/assessment-recommender/internal/requirements"
)

func TestPrintRequirementSpec(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	spec := &requirements.Spec{
		CleanedQuery:       "java developers who collaborate",
		TechnicalSkills:    []string{"Java", "Spring"},
		SoftSkills:         []string{"Collaboration"},
		MaxDurationMinutes: 60,
		TestTypes:          []catalog.TestType{catalog.TypeKnowledge, catalog.TypePersonality},
		JobLevels:          []string{"Professional"},
	}

	p.PrintRequirementSpec(spec)
	output := buf.String()

	assert.Contains(t, output, "REQUIREMENT SPEC")
	assert.Contains(t, output, "Java")
	assert.Contains(t, output, "Collaboration")
	assert.Contains(t, output, "60 minutes")
	assert.Contains(t, output, "Knowledge & Skills")
	assert.Contains(t, output, "Professional")
}

func TestPrintRecommendations(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	result := &recommend.Result{
		Candidates: []recommend.Candidate{
			{
				Assessment: catalog.Assessment{Name: "Java Coding Test", Duration: 40},
				Similarity: 0.91,
				Relevance:  0.95,
				Reason:     "direct skill match",
			},
			{
				Assessment: catalog.Assessment{Name: "Teamwork Styles", Duration: 25},
				Similarity: 0.80,
				Relevance:  0.70,
			},
		},
		RerankSkipped:    false,
		DurationFiltered: 1,
	}

	p.PrintRecommendations(result)
	output := buf.String()

	assert.Contains(t, output, "RECOMMENDATIONS")
	assert.Contains(t, output, "Java Coding Test")
	assert.Contains(t, output, "Teamwork Styles")
	assert.Contains(t, output, "Dropped by duration: 1")
	assert.Contains(t, output, "direct skill match")
}

func TestPrintRecommendationsEmpty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRecommendations(nil)
	p.PrintRecommendations(&recommend.Result{})
	assert.Empty(t, buf.String())
}

func TestPrintIntent(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	outcome := &pipeline.Outcome{
		Intent:     intent.IntentGeneral,
		Confidence: 0.82,
		Stages:     pipeline.Path(pipeline.RouteContext{Intent: intent.IntentGeneral}),
	}
	p.PrintIntent(outcome)
	output := buf.String()

	assert.Contains(t, output, "INTENT")
	assert.Contains(t, output, "general_question")
	assert.Contains(t, output, "0.82")
	assert.Contains(t, output, "answering")
}

func TestPrintAnswerAndWarnings(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintAnswer("The Python Skills Test measures programming ability.", []string{"Python Skills Test"})
	p.PrintWarnings([]string{"rerank skipped; similarity order retained"})
	output := buf.String()

	assert.Contains(t, output, "ANSWER")
	assert.Contains(t, output, "Related:")
	assert.Contains(t, output, "WARNINGS")
	assert.Contains(t, output, "rerank skipped")
}

func TestPrintBoxTruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintAnswer(strings.Repeat("x", 200), nil)
	for _, line := range strings.Split(buf.String(), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), boxWidth)
	}
}
