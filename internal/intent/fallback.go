package intent

import "strings"

// Keyword sets for the deterministic fallback matcher. Question phrasing is
// checked first so "What is the Python assessment?" reads as a general
// question even though it mentions assessment vocabulary; role and hiring
// vocabulary then indicates a recommendation request.
var (
	questionPhrases = []string{
		"what is", "what are", "tell me", "explain", "describe",
		"how does", "how do", "how many",
	}

	jobKeywords = []string{
		"hire", "hiring", "recruit", "looking for", "need", "seeking",
		"developer", "engineer", "manager", "analyst", "designer",
		"job description", "jd", "role", "position", "candidate",
		"assessments for", "test for", "skills",
	}

	topicKeywords = []string{
		"assessment", "test type", "available", "catalog",
	}
)

// FallbackClassify is the deterministic keyword classifier. It is total:
// every input maps to a label and it cannot fail.
func FallbackClassify(query string) Intent {
	q := strings.ToLower(query)

	for _, phrase := range questionPhrases {
		if strings.Contains(q, phrase) {
			return IntentGeneral
		}
	}

	for _, keyword := range jobKeywords {
		if strings.Contains(q, keyword) {
			return IntentJobDescription
		}
	}

	for _, keyword := range topicKeywords {
		if strings.Contains(q, keyword) {
			return IntentGeneral
		}
	}

	return IntentOutOfContext
}
