package driven

import (
	"context"

	"github.com/askdoc-labs/askdoc/internal/core/domain"
)

// Extractor converts raw document bytes into plain text.
// Each extractor handles specific formats (PDF, PPTX).
type Extractor interface {
	// Formats returns the document formats this extractor handles.
	Formats() []domain.Format

	// Extract parses the document and returns its concatenated text.
	// Individual pages or slides that fail to parse are skipped and
	// counted, not fatal; extraction fails only when the whole document
	// cannot be opened.
	Extract(ctx context.Context, data []byte) (*ExtractResult, error)
}

// ExtractResult contains the output of text extraction.
type ExtractResult struct {
	// Text is the full extracted text in reading order.
	Text string

	// PagesSkipped counts pages or slides whose extraction failed
	// and were omitted from Text.
	PagesSkipped int
}

// ExtractorRegistry selects the extractor for a document format.
type ExtractorRegistry interface {
	// Extract routes to the extractor registered for the format.
	// Returns domain.ErrUnsupportedFormat when none is registered.
	Extract(ctx context.Context, format domain.Format, data []byte) (*ExtractResult, error)
}
