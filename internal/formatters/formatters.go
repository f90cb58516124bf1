package formatters

import (
	"encoding/json"
	"fmt"
	"slices"

	"hrintel/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", typeAssessment, &AssessmentTextFormatter{})
	registry.RegisterFormatter("markdown", typeAssessment, &AssessmentMarkdownFormatter{})
	registry.RegisterFormatter("text", typeExtract, &ExtractTextFormatter{})
	registry.RegisterFormatter("markdown", typeExtract, &ExtractMarkdownFormatter{})
	registry.RegisterFormatter("text", typeHistory, &HistoryTextFormatter{})
	registry.RegisterFormatter("markdown", typeHistory, &HistoryMarkdownFormatter{})
	registry.RegisterFormatter("text", typeResults, &ResultsTextFormatter{})
	registry.RegisterFormatter("markdown", typeResults, &ResultsMarkdownFormatter{})
	registry.RegisterFormatter("text", typeBatch, &BatchTextFormatter{})
	registry.RegisterFormatter("markdown", typeBatch, &BatchMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats, sorted
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	slices.Sort(formats)
	return formats
}

// FileExtension returns the usual file extension for a format.
func FileExtension(format string) string {
	switch format {
	case "markdown":
		return "md"
	case "text":
		return "txt"
	default:
		return format
	}
}

const (
	typeAssessment = "AssessmentResult"
	typeExtract    = "ExtractResult"
	typeHistory    = "AssessmentHistory"
	typeResults    = "ResultList"
	typeBatch      = "BatchResult"
)

func getDataType(data any) string {
	switch data.(type) {
	case types.AssessmentResult, *types.AssessmentResult:
		return typeAssessment
	case types.ExtractResult:
		return typeExtract
	case types.AssessmentHistory:
		return typeHistory
	case types.ResultList:
		return typeResults
	case types.BatchResult:
		return typeBatch
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// GlobalRegistry is the default formatter registry instance
var GlobalRegistry = NewFormatterRegistry()
