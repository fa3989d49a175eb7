// Package materialmeta derives catalog metadata from uploaded files.
package materialmeta

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFPageCount returns the number of pages in a PDF document held in
// memory. The data is parsed, not just sniffed, so a corrupt upload is
// rejected here instead of surfacing later as a broken catalog entry.
func PDFPageCount(data []byte) (int, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("parse pdf: %w", err)
	}
	pages := reader.NumPage()
	if pages <= 0 {
		return 0, fmt.Errorf("pdf has no pages")
	}
	return pages, nil
}

// IsPDF reports whether the filename or content type indicates a PDF
// upload that should get a page count.
func IsPDF(filename, contentType string) bool {
	if strings.EqualFold(strings.TrimSpace(contentType), "application/pdf") {
		return true
	}
	return strings.HasSuffix(strings.ToLower(strings.TrimSpace(filename)), ".pdf")
}
