package formatters

import (
	"fmt"
	"strings"

	"hrintel/internal/types"
)

const (
	reportTitle     = "INTERVIEW ASSESSMENT REPORT"
	questionsTitle  = "Targeted Interview Questions"
	behavioralTitle = "Behavioral Questions"
	tasksTitle      = "Assessment Tasks"
	noSkills        = "None detected"
)

func asAssessment(data any) (*types.AssessmentResult, error) {
	switch v := data.(type) {
	case *types.AssessmentResult:
		if v == nil {
			return nil, fmt.Errorf("assessment result is nil")
		}
		return v, nil
	case types.AssessmentResult:
		return &v, nil
	default:
		return nil, fmt.Errorf("expected AssessmentResult, got %T", data)
	}
}

func skillList(skills []string) string {
	if len(skills) == 0 {
		return noSkills
	}
	return strings.Join(skills, ", ")
}

func writeTextList(output *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	output.WriteString("\n=== " + strings.ToUpper(title) + " ===\n")
	for _, item := range items {
		fmt.Fprintf(output, "- %s\n", item)
	}
}

// AssessmentTextFormatter renders an assessment as a plain text report
type AssessmentTextFormatter struct{}

func (f *AssessmentTextFormatter) Format(data any) (string, error) {
	result, err := asAssessment(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder

	output.WriteString("=== " + reportTitle + " ===\n\n")
	fmt.Fprintf(&output, "Candidate Name: %s\n", result.DisplayName())
	fmt.Fprintf(&output, "Role: %s\n", result.Role)
	fmt.Fprintf(&output, "Level: %s\n", result.Level)
	fmt.Fprintf(&output, "Skills: %s\n\n", skillList(result.Skills))

	output.WriteString("=== SUMMARY ===\n")
	fmt.Fprintf(&output, "Focus: %s\n", result.Summary.Focus)
	fmt.Fprintf(&output, "Technical Weight: %d%%\n", result.Summary.TechnicalWeight)
	fmt.Fprintf(&output, "Soft Skill Weight: %d%%\n\n", result.Summary.SoftWeight)
	output.WriteString("Insight:\n")
	output.WriteString(result.Summary.Insight)
	output.WriteString("\n")
	if len(result.Summary.FocusAreas) > 0 {
		output.WriteString("\nFocus Areas:\n")
		for _, area := range result.Summary.FocusAreas {
			fmt.Fprintf(&output, "- %s\n", area)
		}
	}
	output.WriteString("\n")

	output.WriteString("=== " + strings.ToUpper(questionsTitle) + " ===\n")
	for i, q := range result.Questions {
		fmt.Fprintf(&output, "%d. %s\n", i+1, q)
	}

	writeTextList(&output, behavioralTitle, result.Behavioral)
	writeTextList(&output, tasksTitle, result.Tasks)

	if len(result.Rubric) > 0 {
		output.WriteString("\n=== SCORING RUBRIC ===\n")
		for _, c := range result.Rubric {
			fmt.Fprintf(&output, "- %s: %d%%\n", c.Name, c.Weight)
		}
	}

	return output.String(), nil
}

func (f *AssessmentTextFormatter) SupportedType() string {
	return typeAssessment
}

// AssessmentMarkdownFormatter renders an assessment as a markdown report
type AssessmentMarkdownFormatter struct{}

func (f *AssessmentMarkdownFormatter) Format(data any) (string, error) {
	result, err := asAssessment(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder

	output.WriteString("# Interview Assessment Report\n\n")
	fmt.Fprintf(&output, "**Candidate Name:** %s  \n", result.DisplayName())
	fmt.Fprintf(&output, "**Role:** %s  \n", result.Role)
	fmt.Fprintf(&output, "**Level:** %s  \n", result.Level)
	fmt.Fprintf(&output, "**Skills:** %s\n\n", skillList(result.Skills))

	output.WriteString("## Summary\n\n")
	output.WriteString("| Focus | Technical | Soft Skills |\n")
	output.WriteString("|-------|-----------|-------------|\n")
	fmt.Fprintf(&output, "| %s | %d%% | %d%% |\n\n", result.Summary.Focus,
		result.Summary.TechnicalWeight, result.Summary.SoftWeight)
	output.WriteString(result.Summary.Insight)
	output.WriteString("\n\n")
	if len(result.Summary.FocusAreas) > 0 {
		output.WriteString("### Focus Areas\n\n")
		for _, area := range result.Summary.FocusAreas {
			fmt.Fprintf(&output, "- %s\n", area)
		}
		output.WriteString("\n")
	}

	output.WriteString("## " + questionsTitle + "\n\n")
	for i, q := range result.Questions {
		fmt.Fprintf(&output, "%d. %s\n", i+1, q)
	}

	if len(result.Behavioral) > 0 {
		output.WriteString("\n## " + behavioralTitle + "\n\n")
		for _, q := range result.Behavioral {
			fmt.Fprintf(&output, "- %s\n", q)
		}
	}
	if len(result.Tasks) > 0 {
		output.WriteString("\n## " + tasksTitle + "\n\n")
		for _, task := range result.Tasks {
			fmt.Fprintf(&output, "- %s\n", task)
		}
	}

	if len(result.Rubric) > 0 {
		output.WriteString("\n## Scoring Rubric\n\n")
		output.WriteString("| Criterion | Weight |\n")
		output.WriteString("|-----------|--------|\n")
		for _, c := range result.Rubric {
			fmt.Fprintf(&output, "| %s | %d%% |\n", c.Name, c.Weight)
		}
	}

	return output.String(), nil
}

func (f *AssessmentMarkdownFormatter) SupportedType() string {
	return typeAssessment
}

// ExtractTextFormatter renders extracted skills and role as text
type ExtractTextFormatter struct{}

func (f *ExtractTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ExtractResult)
	if !ok {
		return "", fmt.Errorf("expected ExtractResult, got %T", data)
	}
	return fmt.Sprintf("Role: %s\nSkills: %s\n", result.Role, skillList(result.Skills)), nil
}

func (f *ExtractTextFormatter) SupportedType() string {
	return typeExtract
}

// ExtractMarkdownFormatter renders extracted skills and role as markdown
type ExtractMarkdownFormatter struct{}

func (f *ExtractMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ExtractResult)
	if !ok {
		return "", fmt.Errorf("expected ExtractResult, got %T", data)
	}
	var output strings.Builder
	fmt.Fprintf(&output, "**Suggested Role:** %s\n\n", result.Role)
	output.WriteString("## Skills\n\n")
	if len(result.Skills) == 0 {
		output.WriteString("_" + noSkills + "_\n")
	}
	for _, s := range result.Skills {
		fmt.Fprintf(&output, "- %s\n", s)
	}
	return output.String(), nil
}

func (f *ExtractMarkdownFormatter) SupportedType() string {
	return typeExtract
}
