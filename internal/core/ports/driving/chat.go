package driving

import (
	"context"

	"github.com/askdoc-labs/askdoc/internal/core/domain"
)

// ChatService is the read side of the pipeline: retrieval-augmented
// answering over the indexed documents.
type ChatService interface {
	// Answer embeds the question, retrieves the nearest chunks, and
	// generates a grounded answer with source attributions.
	// Fails with domain.ErrNoDocumentsIndexed when the index is empty.
	Answer(ctx context.Context, question string) (*domain.Answer, error)
}
