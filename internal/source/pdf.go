package source

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor extracts the text of a PDF document.
type PDFExtractor interface {
	ExtractText(data []byte) (string, error)
}

// PDFTextExtractor reads PDFs with github.com/ledongthuc/pdf, rebuilding lines
// from the words of each text row.
type PDFTextExtractor struct{}

// NewPDFTextExtractor creates a PDFTextExtractor.
func NewPDFTextExtractor() *PDFTextExtractor {
	return &PDFTextExtractor{}
}

// ExtractText returns one line per text row, pages separated by a blank line.
// The library panics on some malformed documents; that is reported as an error.
func (e *PDFTextExtractor) ExtractText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf reader crashed: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	numPages := r.NumPage()
	if numPages == 0 {
		return "", errors.New("PDF has no pages")
	}

	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		var lines []string
		for _, row := range rows {
			words := make([]string, 0, len(row.Content))
			for _, word := range row.Content {
				words = append(words, word.S)
			}
			if line := strings.TrimSpace(strings.Join(words, " ")); line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	if strings.TrimSpace(strings.Join(pages, "")) == "" {
		return "", errors.New("no extractable text, the PDF may be scanned")
	}
	return strings.Join(pages, "\n\n"), nil
}

// MockPDFExtractor returns fixed text, for tests.
type MockPDFExtractor struct {
	Text string
	Err  error
}

// ExtractText returns the configured text or error.
func (m *MockPDFExtractor) ExtractText([]byte) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return m.Text, nil
}
