package llm

import (
	_ "embed"
	"fmt"
)

//go:embed prompts/resume_parse_system.txt
var resumeParseSystem string

// ResumeParseSystemPrompt returns the fixed system instruction for resume parsing.
func ResumeParseSystemPrompt() string {
	return resumeParseSystem
}

// BuildResumePrompt embeds raw resume text verbatim between delimiter lines.
func BuildResumePrompt(rawText string) Prompt {
	return Prompt{
		System: resumeParseSystem,
		User:   fmt.Sprintf("Parse this resume and return structured JSON:\n\n---\n%s\n---\n\nReturn only valid JSON, no markdown formatting.", rawText),
	}
}
