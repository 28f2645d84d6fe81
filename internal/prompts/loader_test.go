package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get("requirements.json", "extract-requirements")
	require.NoError(t, err)
	assert.NotEmpty(t, prompt)
	assert.Contains(t, prompt, "structured hiring requirements")
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get("requirements.json", "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet_Panics(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
}

func TestMustGet_AllRequiredPrompts(t *testing.T) {
	ClearCache()

	required := map[string]string{
		"intent.json":       "classify-intent",
		"requirements.json": "extract-requirements",
		"rerank.json":       "rerank-candidates",
		"answer.json":       "grounded-answer",
	}

	for filename, key := range required {
		assert.NotPanics(t, func() {
			prompt := MustGet(filename, key)
			assert.NotEmpty(t, prompt)
		}, "prompt %s/%s must exist", filename, key)
	}
}

func TestFormat(t *testing.T) {
	template := "Query: {{.Query}} with skills {{.Skills}}"
	data := map[string]string{
		"Query":  "Java developers",
		"Skills": "Java, Spring",
	}

	result := Format(template, data)
	assert.Equal(t, "Query: Java developers with skills Java, Spring", result)
}

func TestFormat_NoPlaceholders(t *testing.T) {
	template := "No placeholders here"
	data := map[string]string{"Key": "Value"}

	result := Format(template, data)
	assert.Equal(t, template, result)
}

func TestFormat_EmptyData(t *testing.T) {
	template := "Hello {{.Name}}"
	data := map[string]string{}

	result := Format(template, data)
	assert.Equal(t, template, result) // Placeholder remains
}

func TestList(t *testing.T) {
	ClearCache()

	keys, err := List("intent.json")
	require.NoError(t, err)
	assert.Contains(t, keys, "classify-intent")
}

func TestCaching(t *testing.T) {
	ClearCache()

	// First call loads from file
	prompt1, err := Get("rerank.json", "rerank-candidates")
	require.NoError(t, err)

	// Second call should use cache
	prompt2, err := Get("rerank.json", "rerank-candidates")
	require.NoError(t, err)

	assert.Equal(t, prompt1, prompt2)
}
