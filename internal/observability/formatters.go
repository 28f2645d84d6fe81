// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/assessment-recommender/internal/pipeline"
	"github.com/jonathan/assessment-recommender/internal/recommend"
	"github.com/jonathan/assessment-recommender/internal/requirements"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines on rune boundaries
		if runes := []rune(line); len(runes) > boxWidth-4 {
			line = string(runes[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintIntent outputs the classified intent and routing path.
func (p *Printer) PrintIntent(outcome *pipeline.Outcome) {
	if outcome == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Intent:     %s\n", outcome.Intent))
	sb.WriteString(fmt.Sprintf("Confidence: %.2f\n", outcome.Confidence))

	stages := make([]string, len(outcome.Stages))
	for i, s := range outcome.Stages {
		stages[i] = string(s)
	}
	sb.WriteString(fmt.Sprintf("Route:      %s", strings.Join(stages, " > ")))

	p.printBox("INTENT", sb.String())
}

// PrintRequirementSpec outputs a human-readable summary of the extracted
// requirements.
func (p *Printer) PrintRequirementSpec(spec *requirements.Spec) {
	if spec == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Query: %s\n", spec.CleanedQuery))

	if len(spec.TechnicalSkills) > 0 {
		sb.WriteString("\nTechnical skills:\n")
		count := min(len(spec.TechnicalSkills), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", spec.TechnicalSkills[i]))
		}
		if len(spec.TechnicalSkills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(spec.TechnicalSkills)-maxItemsToShow))
		}
	}
	if len(spec.SoftSkills) > 0 {
		sb.WriteString("\nSoft skills:\n")
		count := min(len(spec.SoftSkills), 3)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", spec.SoftSkills[i]))
		}
	}
	if spec.MaxDurationMinutes > 0 {
		sb.WriteString(fmt.Sprintf("\nMax duration: %d minutes\n", spec.MaxDurationMinutes))
	}
	if len(spec.TestTypes) > 0 {
		names := make([]string, len(spec.TestTypes))
		for i, t := range spec.TestTypes {
			names[i] = t.Name()
		}
		sb.WriteString(fmt.Sprintf("Test types:   %s\n", strings.Join(names, ", ")))
	}
	if len(spec.JobLevels) > 0 {
		sb.WriteString(fmt.Sprintf("Job levels:   %s\n", strings.Join(spec.JobLevels, ", ")))
	}

	p.printBox("REQUIREMENT SPEC", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRecommendations outputs the final recommendation list with scores.
func (p *Printer) PrintRecommendations(result *recommend.Result) {
	if result == nil || len(result.Candidates) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Selected: %d", len(result.Candidates)))
	if result.RerankSkipped {
		sb.WriteString("  (similarity order, rerank skipped)")
	}
	if result.DurationFiltered > 0 {
		sb.WriteString(fmt.Sprintf("\nDropped by duration: %d", result.DurationFiltered))
	}
	sb.WriteString("\n\n")

	for i, c := range result.Candidates {
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, c.Assessment.Name))
		sb.WriteString(fmt.Sprintf("    Score: %.2f (similarity %.2f)\n", c.Relevance, c.Similarity))
		if c.Assessment.Duration > 0 {
			sb.WriteString(fmt.Sprintf("    Duration: %d min\n", c.Assessment.Duration))
		}
		if c.Reason != "" {
			reason := c.Reason
			if runes := []rune(reason); len(runes) > 40 {
				reason = string(runes[:37]) + "..."
			}
			sb.WriteString(fmt.Sprintf("    Reason: %s\n", reason))
		}
		if i < len(result.Candidates)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("RECOMMENDATIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintAnswer outputs a general answer and its related records.
func (p *Printer) PrintAnswer(text string, related []string) {
	if text == "" {
		return
	}

	var sb strings.Builder
	sb.WriteString(text)
	if len(related) > 0 {
		sb.WriteString("\n\nRelated:\n")
		for _, name := range related {
			sb.WriteString(fmt.Sprintf("  • %s\n", name))
		}
	}

	p.printBox("ANSWER", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintWarnings outputs degradation warnings collected during routing.
func (p *Printer) PrintWarnings(warnings []string) {
	if len(warnings) == 0 {
		return
	}

	var sb strings.Builder
	for _, w := range warnings {
		sb.WriteString(fmt.Sprintf("  • %s\n", w))
	}

	p.printBox("WARNINGS", strings.TrimSuffix(sb.String(), "\n"))
}
