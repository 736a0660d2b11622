package media

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/Diluksha-Upeka/Neurospace/internal/model"
)

// PDFExtractor pulls raw text out of a PDF page by page. Pages whose text
// is empty or whitespace-only are skipped entirely and keep their original
// page number out of the result.
type PDFExtractor struct{}

func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

func (p *PDFExtractor) Pages(pdfPath string) ([]model.Page, error) {
	if _, err := os.Stat(pdfPath); err != nil {
		return nil, &ExtractionError{Stage: "pdf", Err: fmt.Errorf("PDF file not found: %s", pdfPath)}
	}

	f, reader, err := pdf.Open(pdfPath)
	if err != nil {
		return nil, &ExtractionError{Stage: "pdf", Err: fmt.Errorf("opening PDF: %w", err)}
	}
	defer f.Close()

	totalPages := reader.NumPage()
	pages := make([]model.Page, 0, totalPages)

	for i := 1; i <= totalPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page does not fail the document.
			log.Printf("Warning: failed to extract text from page %d of %s: %v", i, pdfPath, err)
			continue
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		pages = append(pages, model.Page{Number: i, Text: text})
	}

	log.Printf("Extracted %d non-empty pages from %s (%d total)", len(pages), pdfPath, totalPages)
	return pages, nil
}
