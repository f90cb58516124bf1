package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
)

var (
	// ErrNotRegularFile is returned for directories and other non-files.
	ErrNotRegularFile = errors.New("not a regular file")
	// ErrFileTooLarge is returned when an input exceeds the configured limit.
	ErrFileTooLarge = errors.New("file too large")
)

var jobPostingExts = map[string]bool{
	".txt":      true,
	".text":     true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
}

// CheckInputFile verifies that path is a readable regular file of at most
// maxSize bytes. A non-positive maxSize disables the size check.
func CheckInputFile(path string, maxSize int64) error {
	if path == "" {
		return errors.New("no input file given")
	}

	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%s does not exist", path)
	case err != nil:
		return fmt.Errorf("cannot access %s: %w", path, err)
	case !info.Mode().IsRegular():
		return fmt.Errorf("%s: %w", path, ErrNotRegularFile)
	case maxSize > 0 && info.Size() > maxSize:
		return fmt.Errorf("%s is %s, over the %s limit: %w",
			path, FormatFileSize(info.Size()), FormatFileSize(maxSize), ErrFileTooLarge)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", path, err)
	}
	return f.Close()
}

// EnsureParentDir creates the directory that will contain path.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("cannot create directory %s: %w", dir, err)
	}
	return nil
}

// IsTextFile reports whether the extension is one of the job posting formats.
func IsTextFile(filename string) bool {
	return jobPostingExts[extension(filename)]
}

// IsHTMLFile reports whether filename has an HTML extension.
func IsHTMLFile(filename string) bool {
	ext := extension(filename)
	return ext == ".html" || ext == ".htm"
}

func extension(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

// FormatFileSize renders size with binary units, e.g. "2.0 KiB".
func FormatFileSize(size int64) string {
	if size < 0 {
		size = 0
	}
	return humanize.IBytes(uint64(size))
}
