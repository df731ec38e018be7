package ai

import "fmt"

const (
	parseToolName = "parse_resume"

	systemPrompt = "You are a resume parsing assistant. Extract structured information from resumes and return it in JSON format."
)

func userPrompt(text string) string {
	return fmt.Sprintf(`Parse this resume and extract the following information in JSON format:
{
  "name": "candidate full name",
  "email": "email address",
  "phone": "phone number",
  "skills": ["array of skills"],
  "experience_years": "number of years of experience",
  "education": "education details",
  "summary": "brief professional summary"
}

Resume text:
%s`, text)
}

// parseResumeSchema is the JSON schema of the parse_resume tool arguments.
var parseResumeSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"name":             map[string]any{"type": "string"},
		"email":            map[string]any{"type": "string"},
		"phone":            map[string]any{"type": "string"},
		"skills":           map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"experience_years": map[string]any{"type": "number"},
		"education":        map[string]any{"type": "string"},
		"summary":          map[string]any{"type": "string"},
	},
	"required":             []string{"name", "skills"},
	"additionalProperties": false,
}
