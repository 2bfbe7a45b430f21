package generator

import "fmt"

const promptTemplate = `
You are an expert Software Test Engineer.
Analyze the requirement text below.
Consider every possible boundary value, invalid input and happy path scenario.

Requirement Text:
"%s"

Return the output ONLY in the following JSON format, do not add any other explanation:
[
  {"id": "TC001", "title": "...", "precondition": "...", "steps": "...", "expected_result": "..."},
  {"id": "TC002", "title": "...", "precondition": "...", "steps": "...", "expected_result": "..."}
]
`

// BuildPrompt embeds the requirements verbatim into the test-case prompt.
func BuildPrompt(requirements string) string {
	return fmt.Sprintf(promptTemplate, requirements)
}
