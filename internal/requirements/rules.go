package requirements

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/assessment-recommender/internal/catalog"
)

// Fixed vocabulary for the rule-based extractor. Deliberately small: the
// fallback trades recall for determinism.
var technicalVocabulary = []string{
	"python", "java", "javascript", "typescript", "sql", "c++", "c#",
	"ruby", "php", "react", "angular", "vue", "node", "django", "flask",
	"spring", "aws", "azure", "gcp", "docker", "kubernetes", "jenkins",
	"git", "ci/cd", "devops", "machine learning", "data science",
	"deep learning", "excel", "tableau", "power bi", "sap", "salesforce",
}

var softVocabulary = []string{
	"communication", "teamwork", "leadership", "collaboration",
	"collaborative", "interpersonal", "problem solving", "adaptability",
	"time management", "stakeholder management",
}

// Duration phrasings: "under 60 minutes", "60 min or less", "within 1 hour",
// "at most 45 mins", plus bare "45 minutes".
var durationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:under|below|within|less than|at most|max(?:imum)?)\s+(\d+)\s*(minutes?|mins?|hours?|hrs?)`),
	regexp.MustCompile(`(\d+)\s*(minutes?|mins?|hours?|hrs?)\s+or\s+(?:less|under)`),
	regexp.MustCompile(`(\d+)\s*(minutes?|mins?|hours?|hrs?)`),
}

var jobLevelPatterns = map[string]*regexp.Regexp{
	"Graduate":         regexp.MustCompile(`\b(?:graduate|entry|fresher|junior)\b`),
	"Mid-Professional": regexp.MustCompile(`\b(?:mid|intermediate|experienced)\b`),
	"Professional":     regexp.MustCompile(`\b(?:senior|lead|expert|professional)\b`),
	"Manager":          regexp.MustCompile(`\b(?:manager|management|supervisor)\b`),
	"Executive":        regexp.MustCompile(`\b(?:executive|director|vp|vice president|c-level)\b`),
}

// ExtractRules is the deterministic extraction path. It always produces a
// spec, possibly empty, and cannot fail.
func ExtractRules(text string) *Spec {
	lower := strings.ToLower(text)

	spec := &Spec{
		OriginalText:       text,
		CleanedQuery:       truncate(strings.TrimSpace(text), 500),
		TechnicalSkills:    matchVocabulary(lower, technicalVocabulary),
		SoftSkills:         matchVocabulary(lower, softVocabulary),
		MaxDurationMinutes: ExtractDuration(lower),
		JobLevels:          matchJobLevels(lower),
	}
	spec.TestTypes = InferTestTypes(spec.TechnicalSkills, spec.SoftSkills)

	// Key requirements are the strongest signals the rules found.
	spec.KeyRequirements = dedupe(spec.TechnicalSkills, spec.SoftSkills)
	if len(spec.KeyRequirements) > 5 {
		spec.KeyRequirements = spec.KeyRequirements[:5]
	}

	return spec
}

// ExtractDuration finds a maximum-duration constraint in minutes, or zero.
func ExtractDuration(lower string) int {
	for _, pattern := range durationPatterns {
		match := pattern.FindStringSubmatch(lower)
		if match == nil {
			continue
		}
		value, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		if strings.HasPrefix(match[2], "h") {
			value *= 60
		}
		return value
	}
	return 0
}

// InferTestTypes maps extracted skills onto catalog test type codes.
func InferTestTypes(technical, soft []string) []catalog.TestType {
	var types []catalog.TestType

	if len(technical) > 0 {
		types = append(types, catalog.TypeKnowledge)
	}
	if len(soft) > 0 {
		types = append(types, catalog.TypePersonality)
	}
	// Skills found but none categorized: recommend across both.
	if len(types) == 0 && (len(technical) > 0 || len(soft) > 0) {
		types = []catalog.TestType{catalog.TypeKnowledge, catalog.TypePersonality}
	}

	return types
}

func matchVocabulary(lower string, vocabulary []string) []string {
	var found []string
	for _, term := range vocabulary {
		if strings.Contains(lower, term) {
			found = append(found, titleCase(term))
		}
	}
	return dedupe(found)
}

func matchJobLevels(lower string) []string {
	var levels []string
	for level, pattern := range jobLevelPatterns {
		if pattern.MatchString(lower) {
			levels = append(levels, level)
		}
	}
	// Map iteration order is random; keep output deterministic.
	return sortedLevels(levels)
}

var levelOrder = []string{"Graduate", "Mid-Professional", "Professional", "Manager", "Executive"}

func sortedLevels(levels []string) []string {
	var ordered []string
	for _, level := range levelOrder {
		for _, l := range levels {
			if l == level {
				ordered = append(ordered, level)
				break
			}
		}
	}
	return ordered
}

func titleCase(term string) string {
	words := strings.Fields(term)
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
