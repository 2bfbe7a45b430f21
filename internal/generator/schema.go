package generator

import (
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const testCaseSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "title", "steps", "expected_result"],
    "properties": {
      "id": {"type": "string", "minLength": 1},
      "title": {"type": "string"},
      "precondition": {"type": ["string", "null"]},
      "steps": {
        "anyOf": [
          {"type": "string"},
          {"type": "array", "items": {"type": "string"}}
        ]
      },
      "expected_result": {"type": "string"}
    }
  }
}`

var compiledTestCaseSchema = jsonschema.MustCompileString("test_cases.json", testCaseSchema)

// ValidateTestCases checks decoded JSON against the test-case shape the
// prompt asks for. The result is informational only.
func ValidateTestCases(data any) error {
	return compiledTestCaseSchema.Validate(data)
}
