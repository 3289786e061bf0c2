// Package pdf implements the document collaborators (page text extraction and
// format metadata parsing) on top of the ledongthuc/pdf reader.
package pdf

import (
	"fmt"
	"log/slog"

	"github.com/ledongthuc/pdf"

	"github.com/bull/contract-rag/internal/domain"
	"github.com/bull/contract-rag/internal/textutil"
)

// Loader extracts cleaned page text from PDF files.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a page loader.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// LoadPages returns the cleaned text of every page in document order,
// numbered from 1. Pages without extractable text are kept so page numbers
// stay aligned with the source document.
func (l *Loader) LoadPages(path string) (pages []domain.Page, err error) {
	// The underlying parser panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("pdf parser panic: %v", r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	total := reader.NumPage()
	pages = make([]domain.Page, 0, total)
	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, domain.Page{Number: i})
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, domain.Page{Number: i, Text: textutil.Clean(text)})
	}

	l.logger.Debug("loaded pages", "path", path, "pages", len(pages))
	return pages, nil
}
