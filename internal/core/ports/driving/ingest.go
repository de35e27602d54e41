package driving

import (
	"context"

	"github.com/askdoc-labs/askdoc/internal/core/domain"
)

// IngestRequest carries one document into the pipeline.
type IngestRequest struct {
	// Filename is the original name; the document ID is derived from it
	// unless DocumentID is set explicitly.
	Filename string

	// DocumentID overrides the derived identifier when non-empty.
	DocumentID string

	// Data is the raw document bytes.
	Data []byte

	// Origin records where the document came from.
	Origin domain.Origin
}

// IngestResult reports the outcome of one ingestion.
type IngestResult struct {
	// DocumentID is the identifier the document was registered under.
	DocumentID string

	// ChunksIndexed is the number of chunks written to the vector index.
	ChunksIndexed int

	// PagesSkipped counts pages or slides that failed extraction.
	PagesSkipped int

	// Warnings lists non-fatal conditions (e.g. chunk-cap truncation).
	Warnings []string
}

// IngestService is the write side of the pipeline: extraction, chunking,
// embedding, and indexing.
type IngestService interface {
	// Ingest runs the full pipeline for one document. Re-ingesting an
	// existing document ID replaces its chunks.
	Ingest(ctx context.Context, req IngestRequest) (*IngestResult, error)

	// Delete removes a document's chunks from the index and its registry
	// entry. Returns domain.ErrNotFound for unknown IDs.
	Delete(ctx context.Context, documentID string) error

	// List returns all registered documents.
	List(ctx context.Context) ([]domain.Document, error)

	// Status reports document and chunk counts plus index health.
	Status(ctx context.Context) (*domain.IndexStatus, error)
}

// SyncResult reports the outcome of syncing one remote document.
type SyncResult struct {
	// Name is the remote blob or file name.
	Name string

	// DocumentID is set when the document was ingested or skipped.
	DocumentID string

	// ChunksIndexed is the number of chunks written, 0 when skipped.
	ChunksIndexed int

	// Skipped reports that the document was already registered and
	// re-ingestion was not forced.
	Skipped bool

	// Err holds the per-document failure, nil on success. One failed
	// document never aborts the rest of the batch.
	Err error
}

// SyncService pulls documents from a BlobStore and ingests them.
type SyncService interface {
	// Sync lists the remote store and ingests each document, returning
	// one result per remote entry.
	Sync(ctx context.Context, force bool) ([]SyncResult, error)
}
