package formatters

import (
	"fmt"
	"strings"
	"time"

	"hrintel/internal/types"
)

const dateLayout = "2006-01-02 15:04"

func displayName(name string) string {
	if strings.TrimSpace(name) == "" {
		return types.NoCandidateName
	}
	return name
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(dateLayout)
}

// HistoryTextFormatter renders stored assessments as text
type HistoryTextFormatter struct{}

func (f *HistoryTextFormatter) Format(data any) (string, error) {
	history, ok := data.(types.AssessmentHistory)
	if !ok {
		return "", fmt.Errorf("expected AssessmentHistory, got %T", data)
	}

	var output strings.Builder
	output.WriteString("=== ASSESSMENT HISTORY ===\n")
	if len(history) == 0 {
		output.WriteString("No assessments stored.\n")
		return output.String(), nil
	}
	for _, rec := range history {
		fmt.Fprintf(&output, "\n%s  %s\n", rec.ID, formatDate(rec.CreatedAt))
		fmt.Fprintf(&output, "  Candidate: %s\n", displayName(rec.CandidateName))
		fmt.Fprintf(&output, "  Role: %s (%s)\n", rec.Role, rec.Level)
		fmt.Fprintf(&output, "  Skills: %s\n", skillList(rec.Skills))
		fmt.Fprintf(&output, "  Focus: %s, %d questions\n", rec.Focus, len(rec.Questions))
	}
	return output.String(), nil
}

func (f *HistoryTextFormatter) SupportedType() string {
	return typeHistory
}

// HistoryMarkdownFormatter renders stored assessments as a markdown table
type HistoryMarkdownFormatter struct{}

func (f *HistoryMarkdownFormatter) Format(data any) (string, error) {
	history, ok := data.(types.AssessmentHistory)
	if !ok {
		return "", fmt.Errorf("expected AssessmentHistory, got %T", data)
	}

	var output strings.Builder
	output.WriteString("# Assessment History\n\n")
	output.WriteString("| Date | Candidate | Role | Level | Skills | Focus |\n")
	output.WriteString("|------|-----------|------|-------|--------|-------|\n")
	for _, rec := range history {
		fmt.Fprintf(&output, "| %s | %s | %s | %s | %s | %s |\n",
			formatDate(rec.CreatedAt), displayName(rec.CandidateName), rec.Role, rec.Level,
			skillList(rec.Skills), rec.Focus)
	}
	return output.String(), nil
}

func (f *HistoryMarkdownFormatter) SupportedType() string {
	return typeHistory
}

// ResultsTextFormatter renders candidate results as a ranked text list
type ResultsTextFormatter struct{}

func (f *ResultsTextFormatter) Format(data any) (string, error) {
	results, ok := data.(types.ResultList)
	if !ok {
		return "", fmt.Errorf("expected ResultList, got %T", data)
	}

	var output strings.Builder
	output.WriteString("=== CANDIDATE RESULTS ===\n")
	if len(results) == 0 {
		output.WriteString("No candidate results stored.\n")
		return output.String(), nil
	}
	for i, r := range results {
		fmt.Fprintf(&output, "%d. %s - %.2f/100", i+1, r.CandidateName, r.TotalScore)
		if r.JDTitle != "" {
			fmt.Fprintf(&output, " [%s]", r.JDTitle)
		}
		fmt.Fprintf(&output, "\n   Technical %.1f | Problem Solving %.1f | System Design %.1f | Communication %.1f\n",
			r.Technical, r.ProblemSolving, r.SystemDesign, r.Communication)
	}
	return output.String(), nil
}

func (f *ResultsTextFormatter) SupportedType() string {
	return typeResults
}

// ResultsMarkdownFormatter renders candidate results as a markdown table
type ResultsMarkdownFormatter struct{}

func (f *ResultsMarkdownFormatter) Format(data any) (string, error) {
	results, ok := data.(types.ResultList)
	if !ok {
		return "", fmt.Errorf("expected ResultList, got %T", data)
	}

	var output strings.Builder
	output.WriteString("# Candidate Results\n\n")
	output.WriteString("| # | Candidate | Job | Technical | Problem Solving | System Design | Communication | Total |\n")
	output.WriteString("|---|-----------|-----|-----------|-----------------|---------------|---------------|-------|\n")
	for i, r := range results {
		fmt.Fprintf(&output, "| %d | %s | %s | %.1f | %.1f | %.1f | %.1f | **%.2f** |\n",
			i+1, r.CandidateName, r.JDTitle, r.Technical, r.ProblemSolving, r.SystemDesign,
			r.Communication, r.TotalScore)
	}
	return output.String(), nil
}

func (f *ResultsMarkdownFormatter) SupportedType() string {
	return typeResults
}

// BatchTextFormatter renders a batch run as text
type BatchTextFormatter struct{}

func (f *BatchTextFormatter) Format(data any) (string, error) {
	batch, ok := data.(types.BatchResult)
	if !ok {
		return "", fmt.Errorf("expected BatchResult, got %T", data)
	}

	report := &AssessmentTextFormatter{}
	var output strings.Builder
	for i, item := range batch {
		if i > 0 {
			output.WriteString("\n")
		}
		fmt.Fprintf(&output, "##### %s #####\n", item.Source)
		if item.Error != "" {
			fmt.Fprintf(&output, "ERROR: %s\n", item.Error)
			continue
		}
		text, err := report.Format(item.Result)
		if err != nil {
			return "", err
		}
		output.WriteString(text)
	}
	return output.String(), nil
}

func (f *BatchTextFormatter) SupportedType() string {
	return typeBatch
}

// BatchMarkdownFormatter renders a batch run as markdown
type BatchMarkdownFormatter struct{}

func (f *BatchMarkdownFormatter) Format(data any) (string, error) {
	batch, ok := data.(types.BatchResult)
	if !ok {
		return "", fmt.Errorf("expected BatchResult, got %T", data)
	}

	var output strings.Builder
	output.WriteString("# Batch Assessment\n\n")
	output.WriteString("| Source | Role | Skills | Questions | Status |\n")
	output.WriteString("|--------|------|--------|-----------|--------|\n")
	for _, item := range batch {
		if item.Error != "" {
			fmt.Fprintf(&output, "| %s | - | - | - | %s |\n", item.Source, item.Error)
			continue
		}
		fmt.Fprintf(&output, "| %s | %s | %s | %d | ok |\n",
			item.Source, item.Result.Role, skillList(item.Result.Skills), len(item.Result.Questions))
	}
	return output.String(), nil
}

func (f *BatchMarkdownFormatter) SupportedType() string {
	return typeBatch
}
