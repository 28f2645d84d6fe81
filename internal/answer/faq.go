package answer

import "strings"

// faqEntries answer recurring questions about the service itself without an
// LLM round-trip. Matching is keyword-based and deliberately narrow: a miss
// falls through to the grounded path.
var faqEntries = []struct {
	keywords []string
	reply    string
}{
	{
		keywords: []string{"what can you do", "how do you work", "what is this"},
		reply: "I recommend hiring assessments. Describe the role you are hiring " +
			"for, or paste a job posting URL, and I will suggest a balanced set of " +
			"assessments from the catalog. You can also ask me about specific " +
			"assessments or test types.",
	},
	{
		keywords: []string{"what are test types", "test type codes", "what do the codes mean"},
		reply: "Each assessment carries one or more test-type codes: A (Ability & " +
			"Aptitude), B (Biodata & Situational Judgement), C (Competencies), D " +
			"(Development & 360), E (Assessment Exercises), K (Knowledge & Skills), " +
			"P (Personality & Behavior), and S (Simulations).",
	},
	{
		keywords: []string{"how many assessments", "catalog size"},
		reply: "I search the full assessment catalog for every request. Ask about " +
			"a skill, role, or assessment name and I will show you what matches.",
	},
}

// answerFAQ returns a canned reply when the query matches a known FAQ.
func answerFAQ(query string) (string, bool) {
	lower := strings.ToLower(query)
	for _, entry := range faqEntries {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.reply, true
			}
		}
	}
	return "", false
}
