package llm

import (
	"testing"
)

func TestCleanJSONBlock_MarkdownCodeBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "json code block",
			input:    "```json\n{\"intent\": \"general_question\"}\n```",
			expected: `{"intent": "general_question"}`,
		},
		{
			name:     "generic code block",
			input:    "```\n{\"intent\": \"general_question\"}\n```",
			expected: `{"intent": "general_question"}`,
		},
		{
			name:     "code block with language tag",
			input:    "```javascript\n{\"intent\": \"general_question\"}\n```",
			expected: `{"intent": "general_question"}`,
		},
		{
			name:     "plain JSON passes through",
			input:    `{"intent": "general_question"}`,
			expected: `{"intent": "general_question"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CleanJSONBlock(tt.input)
			if result != tt.expected {
				t.Errorf("CleanJSONBlock() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestCleanJSONBlock_ConversationalWrapping(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "preamble before JSON object",
			input:    "As requested, here is the JSON:\n{\"skills\": [\"java\"]}",
			expected: `{"skills": ["java"]}`,
		},
		{
			name:     "multi-sentence preamble",
			input:    "Based on the posting, I extracted the requirements. Here's the structured output:\n\n{\"skills\": [\"python\"], \"max_duration_minutes\": 60}",
			expected: `{"skills": ["python"], "max_duration_minutes": 60}`,
		},
		{
			name:     "preamble on the same line",
			input:    "I analyzed the role. Here is the result: {\"test_types\": [\"K\"]}",
			expected: `{"test_types": ["K"]}`,
		},
		{
			name:     "preamble before JSON array",
			input:    "Here are the rankings:\n[{\"id\": 1, \"score\": 0.9}]",
			expected: `[{"id": 1, "score": 0.9}]`,
		},
		{
			name:     "trailing chatter after JSON",
			input:    "{\"intent\": \"out_of_context\"}\n\nLet me know if you need anything else!",
			expected: `{"intent": "out_of_context"}`,
		},
		{
			name:     "nested objects",
			input:    "Output:\n{\"outer\": {\"inner\": \"value\"}}",
			expected: `{"outer": {"inner": "value"}}`,
		},
		{
			name:     "escaped quotes inside values",
			input:    "Result: {\"reason\": \"mentions \\\"Java\\\" directly\"}",
			expected: `{"reason": "mentions \"Java\" directly"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CleanJSONBlock(tt.input)
			if result != tt.expected {
				t.Errorf("CleanJSONBlock() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple object",
			input:    `{"key": "value"}`,
			expected: `{"key": "value"}`,
		},
		{
			name:     "nested objects",
			input:    `{"outer": {"inner": "value"}}`,
			expected: `{"outer": {"inner": "value"}}`,
		},
		{
			name:     "object containing array",
			input:    `{"items": [1, 2, 3]}`,
			expected: `{"items": [1, 2, 3]}`,
		},
		{
			name:     "trailing text dropped",
			input:    `{"key": "value"} and some more text`,
			expected: `{"key": "value"}`,
		},
		{
			name:     "braces inside string literal",
			input:    `{"template": "Hello {name}!"}`,
			expected: `{"template": "Hello {name}!"}`,
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "not an object",
			input:    "not json",
			expected: "",
		},
		{
			name:     "unterminated object",
			input:    `{"key": "value"`,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := extractJSONObject(tt.input)
			if result != tt.expected {
				t.Errorf("extractJSONObject() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestExtractJSONArray(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple array",
			input:    `["a", "b", "c"]`,
			expected: `["a", "b", "c"]`,
		},
		{
			name:     "nested arrays",
			input:    `[[1, 2], [3, 4]]`,
			expected: `[[1, 2], [3, 4]]`,
		},
		{
			name:     "array of objects",
			input:    `[{"id": 1}, {"id": 2}]`,
			expected: `[{"id": 1}, {"id": 2}]`,
		},
		{
			name:     "trailing text dropped",
			input:    `[1, 2, 3] extra stuff`,
			expected: `[1, 2, 3]`,
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "not an array",
			input:    "not array",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := extractJSONArray(tt.input)
			if result != tt.expected {
				t.Errorf("extractJSONArray() = %q, want %q", result, tt.expected)
			}
		})
	}
}
