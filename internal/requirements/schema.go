package requirements

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// specSchema validates the JSON shape the extract-requirements prompt asks
// for, before it is unmarshalled. Keeping the check separate from decoding
// surfaces field-level errors instead of silent zero values.
const specSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["cleaned_query", "technical_skills"],
  "properties": {
    "cleaned_query": {"type": "string"},
    "technical_skills": {"type": "array", "items": {"type": "string"}},
    "soft_skills": {"type": "array", "items": {"type": "string"}},
    "max_duration_minutes": {"type": "integer", "minimum": 0},
    "job_levels": {"type": "array", "items": {"type": "string"}},
    "test_types": {"type": "array", "items": {"type": "string"}},
    "key_requirements": {"type": "array", "items": {"type": "string"}}
  }
}`

var compiledSpecSchema = gojsonschema.NewStringLoader(specSchema)

// validateSpecJSON checks raw LLM output against the requirement schema.
func validateSpecJSON(raw string) error {
	result, err := gojsonschema.Validate(compiledSpecSchema, gojsonschema.NewStringLoader(raw))
	if err != nil {
		return &ParseError{Message: "response is not valid JSON", Cause: err}
	}
	if !result.Valid() {
		var fields []string
		for _, desc := range result.Errors() {
			fields = append(fields, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
		}
		return &ParseError{Message: "response does not match schema: " + strings.Join(fields, "; ")}
	}
	return nil
}
