package extractor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestExtractFilePDFDefaultOutput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "report.pdf")
	writeFile(t, input, buildPDF(t, "Quarterly numbers", "Outlook"))

	text, err := New(nil).ExtractFile(input, "")
	require.NoError(t, err)

	written, err := os.ReadFile(filepath.Join(dir, "report.txt"))
	require.NoError(t, err)
	assert.Equal(t, text, string(written))
	assert.Equal(t, []int{1, 2}, pageNumbers(text))
}

func TestExtractFileExplicitOutput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "Notes.DOCX")
	output := filepath.Join(dir, "out", "notes-text.txt")
	require.NoError(t, os.MkdirAll(filepath.Dir(output), 0o755))
	writeFile(t, input, buildDOCX(t, para("Upper-case extension still works")))

	text, err := New(nil).ExtractFile(input, output)
	require.NoError(t, err)
	assert.Equal(t, "Upper-case extension still works\n", text)

	written, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, text, string(written))

	_, err = os.Stat(filepath.Join(dir, "Notes.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestExtractFileDocUsesDOCXParser(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "old.doc")
	writeFile(t, input, buildDOCX(t, para("Saved with the wrong extension")))

	text, err := New(nil).ExtractFile(input, "")
	require.NoError(t, err)
	assert.Equal(t, "Saved with the wrong extension\n", text)
}

func TestExtractFileUnsupported(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "data.csv")
	writeFile(t, input, []byte("a,b\n1,2\n"))

	_, err := New(nil).ExtractFile(input, "")
	require.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Contains(t, err.Error(), ".csv")

	_, statErr := os.Stat(filepath.Join(dir, "data.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestExtractFileMissing(t *testing.T) {
	_, err := New(nil).ExtractFile(filepath.Join(t.TempDir(), "nope.pdf"), "")
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestExtractFileParseFailureWritesNothing(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "broken.docx")
	writeFile(t, input, []byte("not a zip archive"))

	_, err := New(nil).ExtractFile(input, "")
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "broken.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestDefaultOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("docs", "report.txt"), DefaultOutputPath(filepath.Join("docs", "report.pdf")))
	assert.Equal(t, "archive.tar.txt", DefaultOutputPath("archive.tar.gz"))
	assert.Equal(t, "README.txt", DefaultOutputPath("README"))
}
