// Package extractor turns PDF and DOCX files into plain text sidecar files.
package extractor

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BerylCAtieno/requirements-testgen/internal/utils"
)

var (
	ErrFileNotFound      = errors.New("file not found")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrLegacyDOC         = errors.New("legacy binary .doc files are not supported, save the document as .docx")
)

// SupportedExtensions lists the extensions ExtractFile accepts.
var SupportedExtensions = []string{".pdf", ".docx", ".doc"}

type Extractor struct {
	logger *utils.Logger
}

func New(logger *utils.Logger) *Extractor {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &Extractor{logger: logger}
}

// ExtractFile extracts the text of path, writes it as UTF-8 to outputPath
// (DefaultOutputPath(path) when empty) and returns it.
func (e *Extractor) ExtractFile(path, outputPath string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return "", fmt.Errorf("failed to stat %s: %w", path, err)
	}

	ext := strings.ToLower(filepath.Ext(path))

	var extract func([]byte) (string, error)

	switch ext {
	case ".pdf":
		extract = e.extractPDF
	case ".docx", ".doc":
		if ext == ".doc" {
			e.logger.Warn("Legacy .doc files may not be fully supported, prefer .docx", "path", path)
		}
		extract = e.extractDOCX
	default:
		return "", fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedFormat, ext, strings.Join(SupportedExtensions, ", "))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	text, err := extract(data)
	if err != nil {
		return "", err
	}

	if outputPath == "" {
		outputPath = DefaultOutputPath(path)
	}

	if err := os.WriteFile(outputPath, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", outputPath, err)
	}

	e.logger.Info("Text extracted and saved", "input", path, "output", outputPath, "text_length", len(text))

	return text, nil
}

func (e *Extractor) extractPDF(data []byte) (string, error) {
	text, numPages, err := extractPDFPages(data)
	if err != nil {
		return "", err
	}
	e.logger.Info("PDF opened", "pages", numPages)
	return text, nil
}

func (e *Extractor) extractDOCX(data []byte) (string, error) {
	text, err := ExtractDOCX(data)
	if err != nil {
		return "", err
	}
	e.logger.Info("DOCX text extracted")
	return text, nil
}

// DefaultOutputPath replaces the extension of path with .txt.
func DefaultOutputPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".txt"
}
