// Package pdf extracts plain text from PDF documents.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/askdoc-labs/askdoc/internal/core/domain"
	"github.com/askdoc-labs/askdoc/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles PDF documents.
type Extractor struct{}

// New creates a new PDF extractor.
func New() *Extractor {
	return &Extractor{}
}

// Formats returns the formats this extractor handles.
func (e *Extractor) Formats() []domain.Format {
	return []domain.Format{domain.FormatPDF}
}

// Extract concatenates page text in page order. Pages that fail
// extraction are skipped and counted; empty pages contribute an empty
// string. Fails only when the document itself cannot be opened.
func (e *Extractor) Extract(ctx context.Context, data []byte) (*driven.ExtractResult, error) {
	if len(data) == 0 {
		return nil, domain.ErrCorruptDocument
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", domain.ErrCorruptDocument)
	}

	var text strings.Builder
	skipped := 0

	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			skipped++
			continue
		}

		pageText, err := extractPageText(page)
		if err != nil {
			skipped++
			continue
		}

		if pageText != "" {
			text.WriteString(pageText)
			if !strings.HasSuffix(pageText, "\n") {
				text.WriteString("\n")
			}
		}
	}

	return &driven.ExtractResult{
		Text:         text.String(),
		PagesSkipped: skipped,
	}, nil
}

// extractPageText pulls the plain text of one page. The underlying
// parser panics on some malformed content streams; a panic is treated
// as a failed page, not a failed document.
func extractPageText(page pdf.Page) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page text extraction panicked: %v", r)
		}
	}()

	return page.GetPlainText(nil)
}
