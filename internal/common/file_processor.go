package common

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"hrintel/internal/errors"
	"hrintel/internal/utils"
)

// StdinSource is the file argument that means "read from standard input".
const StdinSource = "-"

// stdinTerminator ends interactive input when typed alone on a line.
const stdinTerminator = "END"

// FileProcessor handles common file operations
type FileProcessor struct {
	logger      *errors.Logger
	maxFileSize int64
	stdin       io.Reader
}

// NewFileProcessor creates a new file processor instance
func NewFileProcessor(logger *errors.Logger) *FileProcessor {
	return &FileProcessor{logger: logger, stdin: os.Stdin}
}

// WithMaxFileSize rejects input files larger than size bytes.
func (fp *FileProcessor) WithMaxFileSize(size int64) *FileProcessor {
	fp.maxFileSize = size
	return fp
}

// WithStdin replaces the reader used for the "-" source.
func (fp *FileProcessor) WithStdin(r io.Reader) *FileProcessor {
	fp.stdin = r
	return fp
}

// ReadFile reads content from a file with proper error handling
func (fp *FileProcessor) ReadFile(filename string) (string, error) {
	file, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewIOError(errors.ErrCodeFileNotFound,
				fmt.Sprintf("File not found: %s", filename), err)
		}
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot read file: %s", filename), err)
	}
	defer func() {
		if err := file.Close(); err != nil && fp.logger != nil {
			fp.logger.Warn("Failed to close file", "filename", filename, "error", err)
		}
	}()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Failed to read file content: %s", filename), err)
	}

	return string(content), nil
}

// ReadStdin reads a job description from standard input until EOF or a
// line containing only END.
func (fp *FileProcessor) ReadStdin() (string, error) {
	scanner := bufio.NewScanner(fp.stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var lines []string
	for scanner.Scan() {
		line := scanner.Text()
		if strings.EqualFold(strings.TrimSpace(line), stdinTerminator) {
			break
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable, "Failed to read standard input", err)
	}
	return strings.Join(lines, "\n"), nil
}

// ReadJobDescription reads a job description from a file or from stdin
// when source is "-". HTML postings are converted to plain text.
func (fp *FileProcessor) ReadJobDescription(source string) (string, error) {
	var (
		content string
		err     error
	)
	if source == StdinSource {
		content, err = fp.ReadStdin()
	} else {
		if err := utils.CheckInputFile(source, fp.maxFileSize); err != nil {
			code := "INVALID_INPUT_FILE"
			if stderrors.Is(err, utils.ErrFileTooLarge) {
				code = "INPUT_FILE_TOO_LARGE"
			}
			return "", errors.NewValidationError(code, fmt.Sprintf("Invalid file %s", source), err)
		}
		if !utils.IsTextFile(source) && fp.logger != nil {
			fp.logger.Warn("File may not be a text file", "filename", source)
		}
		content, err = fp.ReadFile(source)
	}
	if err != nil {
		return "", err
	}

	if utils.IsHTMLFile(source) || utils.LooksLikeHTML(content) {
		text, err := utils.HTMLToText(content)
		if err != nil {
			return "", errors.NewValidationError(errors.ErrCodeInvalidFormat,
				fmt.Sprintf("Failed to parse HTML job posting: %s", source), err)
		}
		if fp.logger != nil {
			fp.logger.Debug("Converted HTML job posting to text",
				"source", source, "html_chars", len(content), "text_chars", len(text))
		}
		content = text
	}

	if strings.TrimSpace(content) == "" {
		return "", errors.NewValidationError(errors.ErrCodeEmptyInput,
			fmt.Sprintf("Job description is empty: %s", source), nil)
	}
	return content, nil
}

// ValidateAndReadFiles validates and reads multiple job description sources
func (fp *FileProcessor) ValidateAndReadFiles(sources ...string) ([]string, error) {
	contents := make([]string, len(sources))
	for i, source := range sources {
		content, err := fp.ReadJobDescription(source)
		if err != nil {
			return nil, err
		}
		contents[i] = content
	}
	return contents, nil
}

// WriteFile writes content to a file with directory creation
func (fp *FileProcessor) WriteFile(filename, content string) error {
	if err := utils.EnsureParentDir(filename); err != nil {
		return errors.NewIOError("DIRECTORY_CREATE_FAILED", "Cannot create output directory", err)
	}

	if err := os.WriteFile(filename, []byte(content), 0600); err != nil {
		return errors.NewIOError("FILE_WRITE_FAILED",
			fmt.Sprintf("Cannot write file: %s", filename), err)
	}

	return nil
}

// ValidateOutputFile validates output file path
func (fp *FileProcessor) ValidateOutputFile(filename string) error {
	if filename == "" {
		return nil // stdout is valid
	}

	if err := utils.EnsureParentDir(filename); err != nil {
		return errors.NewValidationError("INVALID_OUTPUT_FILE",
			fmt.Sprintf("Invalid output file: %s", filename), err)
	}

	return nil
}
