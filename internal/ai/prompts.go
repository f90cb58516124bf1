package ai

import (
	"fmt"
	"strings"
	"text/template"

	"hrintel/internal/types"
)

// DefaultSystemPrompt is used when no custom system prompt is configured.
const DefaultSystemPrompt = `You are a senior technical interviewer helping a hiring team prepare for an interview.

- Base every statement on the job description and the detected skills you are given
- Never invent requirements that are not in the job description
- Be concrete and brief; the hiring team reads this right before the interview
- Write for the interviewer, not for the candidate`

// DefaultUserPrompt is a text/template rendered with an InsightRequest.
const DefaultUserPrompt = `Prepare an interview insight for the following position.

Role: {{.Role}}
Seniority level: {{.Level}}
Interview focus: {{.Focus}}
Detected skills: {{if .Skills}}{{join .Skills ", "}}{{else}}none detected{{end}}

Job description:
"""
{{.JobDescription}}
"""

Return:
- insight: two or three sentences on what this interview should establish about the candidate
- focusAreas: up to five short topics the interviewer should probe, most important first`

var promptFuncs = template.FuncMap{"join": strings.Join}

// parseUserPrompt compiles a user prompt template. An empty text selects
// DefaultUserPrompt.
func parseUserPrompt(text string) (*template.Template, error) {
	if strings.TrimSpace(text) == "" {
		text = DefaultUserPrompt
	}
	tpl, err := template.New("insight").Funcs(promptFuncs).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("invalid insight user prompt: %w", err)
	}
	return tpl, nil
}

func renderUserPrompt(tpl *template.Template, req types.InsightRequest) (string, error) {
	var b strings.Builder
	if err := tpl.Execute(&b, req); err != nil {
		return "", fmt.Errorf("failed to render insight prompt: %w", err)
	}
	return b.String(), nil
}

// resolvePrompt returns the first non-empty prompt.
func resolvePrompt(configured, fallback string) string {
	if strings.TrimSpace(configured) != "" {
		return configured
	}
	return fallback
}
