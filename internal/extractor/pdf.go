package extractor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PageHeader is the marker written before the text of every PDF page.
const PageHeader = "\n--- Page %d ---\n"

// ExtractPDF concatenates the plain text of every page, each preceded by a
// page header. Pages without text get no header.
func ExtractPDF(data []byte) (string, error) {
	text, _, err := extractPDFPages(data)
	return text, err
}

func extractPDFPages(data []byte) (text string, numPages int, err error) {
	// ledongthuc/pdf panics on some malformed objects.
	defer func() {
		if r := recover(); r != nil {
			text, numPages, err = "", 0, fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	reader := bytes.NewReader(data)

	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", 0, fmt.Errorf("failed to create PDF reader: %w", err)
	}

	var textBuilder strings.Builder
	numPages = pdfReader.NumPage()

	for i := 1; i <= numPages; i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", numPages, fmt.Errorf("failed to read text of page %d: %w", i, err)
		}
		if pageText == "" {
			continue
		}

		fmt.Fprintf(&textBuilder, PageHeader, i)
		textBuilder.WriteString(pageText)
	}

	return textBuilder.String(), numPages, nil
}
