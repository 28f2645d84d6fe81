// Package answer serves general catalog questions. It reuses the catalog's
// vector index with a smaller top-k than the recommendation path and asks
// the LLM for a grounded answer. It never fails outright: every failure
// path degrades to a usable reply.
package answer

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jonathan/assessment-recommender/internal/catalog"
	"github.com/jonathan/assessment-recommender/internal/llm"
	"github.com/jonathan/assessment-recommender/internal/prompts"
)

const (
	// DefaultTopK is how many catalog records ground a general answer.
	DefaultTopK = 5

	// Disclaimer prefixes the raw-description fallback when grounded
	// generation is unavailable.
	Disclaimer = "I could not generate a full answer right now. Here is the closest matching catalog entry:"

	apologyText = "I could not look that up in the assessment catalog right now. " +
		"Please try again in a moment, or describe the role you are hiring for " +
		"and I can recommend assessments instead."
)

// Result is a grounded answer plus the catalog records it drew on.
type Result struct {
	Text    string
	Related []catalog.Assessment
	// Degraded is true when the LLM or retrieval path failed and a
	// fallback reply was produced.
	Degraded bool
}

// Engine answers general questions against the catalog.
type Engine struct {
	store    *catalog.Store
	embedder Embedder
	client   llm.Client
	topK     int
}

// Embedder turns query text into a vector. Satisfied by llm.Client.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// NewEngine builds an answer engine. client may be nil, in which case every
// answer uses the description fallback.
func NewEngine(store *catalog.Store, embedder Embedder, client llm.Client, topK int) *Engine {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Engine{store: store, embedder: embedder, client: client, topK: topK}
}

// Answer produces a reply for a general question. It never returns an
// error: infrastructure failures degrade to the apology fallback.
func (e *Engine) Answer(ctx context.Context, query string) Result {
	query = strings.TrimSpace(query)
	if query == "" {
		return Result{Text: apologyText, Degraded: true}
	}

	if text, ok := answerFAQ(query); ok {
		return Result{Text: text}
	}

	related, err := e.retrieve(ctx, query)
	if err != nil {
		log.Printf("answer: retrieval failed: %v", err)
		return Result{Text: apologyText, Degraded: true}
	}
	if len(related) == 0 {
		return Result{Text: apologyText, Degraded: true}
	}

	text, err := e.generate(ctx, query, related)
	if err != nil {
		log.Printf("answer: grounded generation failed: %v", err)
		top := related[0]
		text = fmt.Sprintf("%s\n\n%s: %s", Disclaimer, top.Name, top.Description)
		return Result{Text: text, Related: related, Degraded: true}
	}
	return Result{Text: text, Related: related}
}

func (e *Engine) retrieve(ctx context.Context, query string) ([]catalog.Assessment, error) {
	snapshot := e.store.Snapshot()
	if snapshot == nil || snapshot.Index.Len() == 0 {
		return nil, fmt.Errorf("catalog snapshot is empty")
	}

	vector, err := e.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	hits := snapshot.Index.Search(vector, e.topK)
	related := make([]catalog.Assessment, 0, len(hits))
	for _, hit := range hits {
		if record, ok := snapshot.Record(hit.Position); ok {
			related = append(related, record)
		}
	}
	return related, nil
}

func (e *Engine) generate(ctx context.Context, query string, related []catalog.Assessment) (string, error) {
	if e.client == nil {
		return "", fmt.Errorf("no LLM client configured")
	}

	template := prompts.MustGet("answer.json", "grounded-answer")
	prompt := prompts.Format(template, map[string]string{
		"Query":   query,
		"Context": contextBlock(related),
	})

	text, err := e.client.GenerateContent(ctx, prompt, llm.TierStandard)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("model returned an empty answer")
	}
	return text, nil
}

func contextBlock(related []catalog.Assessment) string {
	var b strings.Builder
	for _, a := range related {
		fmt.Fprintf(&b, "- %s", a.Name)
		if len(a.TestTypes) > 0 {
			names := make([]string, len(a.TestTypes))
			for i, t := range a.TestTypes {
				names[i] = t.Name()
			}
			fmt.Fprintf(&b, " (%s)", strings.Join(names, ", "))
		}
		if a.Duration > 0 {
			fmt.Fprintf(&b, ", %d minutes", a.Duration)
		}
		if a.Description != "" {
			fmt.Fprintf(&b, ": %s", a.Description)
		}
		b.WriteString("\n")
	}
	return b.String()
}
