package common

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"hrintel/internal/errors"
	"hrintel/internal/formatters"
)

// CommandConfig holds common configuration for commands
type CommandConfig struct {
	OutputFile   string
	OutputFormat string
	// OutputDir, when set and OutputFile is empty, writes the report into
	// this directory under its suggested file name.
	OutputDir string
}

// Named is implemented by results that suggest their own report file name.
type Named interface {
	ReportFilename(ext string) string
}

// OutputHandler handles formatting and writing output
type OutputHandler struct {
	fileProcessor *FileProcessor
	registry      *formatters.FormatterRegistry
	logger        *errors.Logger
	stdout        io.Writer
}

// NewOutputHandler creates a new output handler
func NewOutputHandler(logger *errors.Logger) *OutputHandler {
	return &OutputHandler{
		fileProcessor: NewFileProcessor(logger),
		registry:      formatters.GlobalRegistry,
		logger:        logger,
		stdout:        os.Stdout,
	}
}

// WithStdout replaces the writer used when no output file is set.
func (oh *OutputHandler) WithStdout(w io.Writer) *OutputHandler {
	oh.stdout = w
	return oh
}

// HandleOutput formats data and writes it to the specified output
func (oh *OutputHandler) HandleOutput(data any, config CommandConfig) error {
	target := config.OutputFile
	if target == "" && config.OutputDir != "" {
		if named, ok := data.(Named); ok {
			target = filepath.Join(config.OutputDir, named.ReportFilename(formatters.FileExtension(config.OutputFormat)))
		}
	}

	if err := oh.fileProcessor.ValidateOutputFile(target); err != nil {
		return err
	}

	output, err := oh.registry.Format(data, config.OutputFormat)
	if err != nil {
		return errors.NewValidationError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("Failed to format output as %s", config.OutputFormat), err)
	}

	if target != "" {
		if err := oh.fileProcessor.WriteFile(target, output); err != nil {
			return err
		}
		oh.logger.Info("Output written successfully",
			"file", target, "format", config.OutputFormat)
		return nil
	}

	if _, err := fmt.Fprintln(oh.stdout, output); err != nil {
		return errors.NewIOError("STDOUT_WRITE_FAILED", "Cannot write output", err)
	}
	return nil
}

// GetSupportedFormats returns all supported output formats
func (oh *OutputHandler) GetSupportedFormats() []string {
	return oh.registry.GetSupportedFormats()
}
