package catalog

// TestType is a single-letter code classifying the nature of an assessment.
type TestType string

// Test type codes used by the assessment catalog.
const (
	TypeAbility     TestType = "A" // Ability & Aptitude
	TypeBiodata     TestType = "B" // Biodata & Situational Judgement
	TypeCompetency  TestType = "C" // Competencies
	TypeDevelopment TestType = "D" // Development & 360
	TypeExercise    TestType = "E" // Assessment Exercises
	TypeKnowledge   TestType = "K" // Knowledge & Skills
	TypePersonality TestType = "P" // Personality & Behavior
	TypeSimulation  TestType = "S" // Simulations
)

var testTypeNames = map[TestType]string{
	TypeAbility:     "Ability & Aptitude",
	TypeBiodata:     "Biodata & Situational Judgement",
	TypeCompetency:  "Competencies",
	TypeDevelopment: "Development & 360",
	TypeExercise:    "Assessment Exercises",
	TypeKnowledge:   "Knowledge & Skills",
	TypePersonality: "Personality & Behavior",
	TypeSimulation:  "Simulations",
}

// Name returns the full display name for a test type code.
// Unknown codes are returned unchanged.
func (t TestType) Name() string {
	if name, ok := testTypeNames[t]; ok {
		return name
	}
	return string(t)
}

// Valid reports whether the code belongs to the fixed enumeration.
func (t TestType) Valid() bool {
	_, ok := testTypeNames[t]
	return ok
}

// AllTestTypes returns every known test type code in a stable order.
func AllTestTypes() []TestType {
	return []TestType{
		TypeAbility,
		TypeBiodata,
		TypeCompetency,
		TypeDevelopment,
		TypeExercise,
		TypeKnowledge,
		TypePersonality,
		TypeSimulation,
	}
}

// ParseTestType resolves a code or full name to a TestType.
// Returns the zero value and false when no match is found.
func ParseTestType(s string) (TestType, bool) {
	if t := TestType(s); t.Valid() {
		return t, true
	}
	for code, name := range testTypeNames {
		if name == s {
			return code, true
		}
	}
	return "", false
}
