package extractors

import (
	"context"
	"fmt"

	"github.com/askdoc-labs/askdoc/internal/core/domain"
	"github.com/askdoc-labs/askdoc/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry maps document formats to their extractors.
type Registry struct {
	byFormat map[domain.Format]driven.Extractor
}

// NewRegistry creates a registry over the given extractors.
// Later extractors win when two claim the same format.
func NewRegistry(extractors ...driven.Extractor) *Registry {
	byFormat := make(map[domain.Format]driven.Extractor)
	for _, e := range extractors {
		for _, f := range e.Formats() {
			byFormat[f] = e
		}
	}
	return &Registry{byFormat: byFormat}
}

// Extract routes to the extractor registered for format.
func (r *Registry) Extract(ctx context.Context, format domain.Format, data []byte) (*driven.ExtractResult, error) {
	extractor, ok := r.byFormat[format]
	if !ok {
		return nil, fmt.Errorf("no extractor for format %q: %w", format, domain.ErrUnsupportedFormat)
	}
	return extractor.Extract(ctx, data)
}
